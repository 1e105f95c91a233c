package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/domain/entity"
	"inkwell/pkg/apperr"
)

// In-memory repositories mirroring the postgres implementations' error
// contracts: Conflict on duplicate email, NotFound on missing rows, and the
// comment repository maintaining the post's comment-reference set.

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: map[string]*entity.Account{}}
}

func (r *memAccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return apperr.New(apperr.Conflict, "email already in use")
		}
	}
	a.ID = uuid.NewString()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "account not found")
	}
	cp := *a
	return &cp, nil
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "account not found")
}

func (r *memAccountRepo) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return apperr.New(apperr.NotFound, "account not found")
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

type memPostRepo struct {
	mu       sync.Mutex
	posts    map[string]*entity.Post
	comments *memCommentRepo // for the delete cascade; set by newMemCommentRepo
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[string]*entity.Post{}}
}

func clonePost(p *entity.Post) *entity.Post {
	cp := *p
	cp.Likes = append([]string(nil), p.Likes...)
	cp.CommentIDs = append([]string(nil), p.CommentIDs...)
	return &cp
}

func (r *memPostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.CommentIDs == nil {
		p.CommentIDs = []string{}
	}
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}
	return clonePost(p), nil
}

func (r *memPostRepo) List(_ context.Context) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	// Newest first, mirroring ORDER BY created_at DESC.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memPostRepo) Recent(ctx context.Context, limit int) ([]*entity.Post, error) {
	all, _ := r.List(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memPostRepo) Search(ctx context.Context, query string) ([]*entity.Post, error) {
	all, _ := r.List(ctx)
	q := strings.ToLower(query)
	out := make([]*entity.Post, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPostRepo) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok {
		return apperr.New(apperr.NotFound, "post not found")
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.CoverImage = p.CoverImage
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.posts[id]; !ok {
		r.mu.Unlock()
		return apperr.New(apperr.NotFound, "post not found")
	}
	delete(r.posts, id)
	r.mu.Unlock()
	// Cascade like the ON DELETE CASCADE on comments.post_id.
	if r.comments != nil {
		r.comments.removeByPost(id)
	}
	return nil
}

func (r *memPostRepo) ToggleLike(_ context.Context, postID, accountID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}
	found := false
	next := make([]string, 0, len(p.Likes)+1)
	for _, id := range p.Likes {
		if id == accountID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, accountID)
	}
	p.Likes = next
	return append([]string(nil), next...), nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*entity.Comment
	posts    *memPostRepo
}

func newMemCommentRepo(posts *memPostRepo) *memCommentRepo {
	r := &memCommentRepo{comments: map[string]*entity.Comment{}, posts: posts}
	posts.comments = r
	return r
}

func (r *memCommentRepo) removeByPost(postID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
}

func (r *memCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts.mu.Lock()
	defer r.posts.mu.Unlock()
	p, ok := r.posts.posts[c.PostID]
	if !ok {
		return apperr.New(apperr.NotFound, "post not found")
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	cp := *c
	r.comments[c.ID] = &cp
	p.CommentIDs = append(p.CommentIDs, c.ID)
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "comment not found")
	}
	cp := *c
	return &cp, nil
}

func (r *memCommentRepo) ListByPost(_ context.Context, postID string) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Comment, 0)
	for _, c := range r.comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	// Newest first, mirroring ORDER BY created_at DESC.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memCommentRepo) Delete(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[c.ID]; !ok {
		return apperr.New(apperr.NotFound, "comment not found")
	}
	delete(r.comments, c.ID)
	r.posts.mu.Lock()
	defer r.posts.mu.Unlock()
	if p, ok := r.posts.posts[c.PostID]; ok {
		next := make([]string, 0, len(p.CommentIDs))
		for _, id := range p.CommentIDs {
			if id != c.ID {
				next = append(next, id)
			}
		}
		p.CommentIDs = next
	}
	return nil
}
