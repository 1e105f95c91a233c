package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/entity"
	"inkwell/internal/domain/repository"
	"inkwell/pkg/apperr"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts the comment and appends its id to the parent post's
// comment_ids in one transaction. Either both land or neither does; a missing
// post rolls the insert back and reports NotFound.
func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO comments (content, author_id, post_id)
		VALUES ($1, $2::uuid, $3::uuid)
		RETURNING id::text, created_at
	`, c.Content, c.AuthorID, c.PostID)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Wrap(apperr.NotFound, "post not found", err)
		}
		return err
	}

	res, err := tx.Exec(ctx, `
		UPDATE posts
		SET comment_ids = array_append(comment_ids, $1::uuid), updated_at = now()
		WHERE id = $2::uuid
	`, c.ID, c.PostID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "post not found")
	}

	return tx.Commit(ctx)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	c := &entity.Comment{Author: &entity.Summary{}}
	row := r.pool.QueryRow(ctx, `
		SELECT c.id::text, c.content, c.author_id::text, c.post_id::text, c.created_at,
		       u.id::text, u.username, u.avatar_url
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1::uuid
	`, id)

	if err := row.Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt,
		&c.Author.ID, &c.Author.Username, &c.Author.AvatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, apperr.New(apperr.NotFound, "comment not found")
		}
		return nil, err
	}
	return c, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.content, c.author_id::text, c.post_id::text, c.created_at,
		       u.id::text, u.username, u.avatar_url
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1::uuid
		ORDER BY c.created_at DESC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*entity.Comment, 0)
	for rows.Next() {
		c := &entity.Comment{Author: &entity.Summary{}}
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.AvatarURL); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Delete removes the comment row and pulls its reference from the parent
// post's comment_ids in one transaction, the symmetric inverse of Create.
func (r *CommentRepository) Delete(ctx context.Context, c *entity.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1::uuid`, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "comment not found")
	}

	// The parent post may already be gone (cascade); pulling from a missing
	// row is a no-op, not an error.
	if _, err := tx.Exec(ctx, `
		UPDATE posts
		SET comment_ids = array_remove(comment_ids, $1::uuid), updated_at = now()
		WHERE id = $2::uuid
	`, c.ID, c.PostID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
