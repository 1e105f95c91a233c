package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/entity"
	"inkwell/internal/domain/repository"
	"inkwell/pkg/apperr"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `
	p.id::text, p.title, p.content, p.cover_image, p.author_id::text,
	p.likes::text[], p.comment_ids::text[], p.created_at, p.updated_at,
	u.id::text, u.username, u.avatar_url`

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{Author: &entity.Summary{}}
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.CoverImage, &p.AuthorID,
		&p.Likes, &p.CommentIDs, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &p.Author.AvatarURL)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, content, cover_image, author_id)
		VALUES ($1, $2, $3, $4::uuid)
		RETURNING id::text, created_at, updated_at
	`, p.Title, p.Content, p.CoverImage, p.AuthorID)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Wrap(apperr.NotFound, "account not found", err)
		}
		return err
	}
	p.Likes = []string{}
	p.CommentIDs = []string{}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1::uuid
	`, id)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, apperr.New(apperr.NotFound, "post not found")
		}
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]*entity.Post, error) {
	return r.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC`)
}

func (r *PostRepository) Recent(ctx context.Context, limit int) ([]*entity.Post, error) {
	return r.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
		LIMIT $1`, limit)
}

func (r *PostRepository) Search(ctx context.Context, query string) ([]*entity.Post, error) {
	return r.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC`, query)
}

func (r *PostRepository) list(ctx context.Context, sql string, args ...any) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update writes title/content/cover only. The author column is never touched:
// ownership is immutable after creation.
func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	p.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET title = $1, content = $2, cover_image = $3, updated_at = $4
		WHERE id = $5::uuid
	`, p.Title, p.Content, p.CoverImage, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "post not found")
	}
	return nil
}

// Delete removes the post; its comments go with it via ON DELETE CASCADE.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "post not found")
	}
	return nil
}

// ToggleLike flips accountID's membership in the liker set in a single UPDATE
// on the post row, so concurrent toggles from different accounts cannot lose
// updates. Returns the new liker set.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, accountID string) ([]string, error) {
	var likes []string
	row := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET likes = CASE
			WHEN $2::uuid = ANY(likes) THEN array_remove(likes, $2::uuid)
			ELSE array_append(likes, $2::uuid)
		END,
		updated_at = now()
		WHERE id = $1::uuid
		RETURNING likes::text[]
	`, postID, accountID)

	if err := row.Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, apperr.New(apperr.NotFound, "post not found")
		}
		return nil, err
	}
	if likes == nil {
		likes = []string{}
	}
	return likes, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
