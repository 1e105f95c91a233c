package repository

import (
	"context"

	"inkwell/internal/domain/entity"
)

// AccountRepository defines account persistence. Create reports Conflict when
// the email is already registered; lookups report NotFound.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
}

// PostRepository defines post persistence. Reads populate the author summary.
// ToggleLike must be atomic per post: concurrent toggles from different
// accounts may not lose updates.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context) ([]*entity.Post, error)
	Recent(ctx context.Context, limit int) ([]*entity.Post, error)
	Search(ctx context.Context, query string) ([]*entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, accountID string) ([]string, error)
}

// CommentRepository defines comment persistence. Create and Delete also
// maintain the parent post's comment-reference set; both sides commit together
// or not at all.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error)
	Delete(ctx context.Context, c *entity.Comment) error
}
