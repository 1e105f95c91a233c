package application

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"inkwell/internal/domain/entity"
	"inkwell/internal/domain/repository"
	"inkwell/pkg/apperr"
	"inkwell/pkg/helpers"
	"inkwell/pkg/mailer"
)

const (
	recentFeedKey = "posts:recent"
	recentFeedMax = 50
)

// BlogService owns post and comment semantics: CRUD with ownership checks,
// the idempotent like toggle, and the post↔comment reference maintenance.
type BlogService struct {
	Posts    repository.PostRepository
	Comments repository.CommentRepository
	Accounts repository.AccountRepository

	Redis     *redis.Client
	RecentTTL time.Duration

	ES      *elasticsearch.Client
	ESIndex string

	GCS       *storage.Client
	GCSBucket string

	Pub      *helpers.RabbitPublisher
	AppName  string
	MailSend bool

	Logger *logrus.Logger
}

type CreatePostInput struct {
	Title      string
	Content    string
	CoverImage string
}

func (s *BlogService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*entity.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.New(apperr.Validation, "title and content are required")
	}
	p := &entity.Post{
		Title:      in.Title,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		AuthorID:   authorID,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	if a, err := s.Accounts.GetByID(ctx, authorID); err == nil {
		sum := a.Summary()
		p.Author = &sum
	}

	s.indexPost(ctx, p)
	s.invalidateRecent(ctx)
	return p, nil
}

func (s *BlogService) GetPost(ctx context.Context, postID string) (*entity.Post, error) {
	return s.Posts.GetByID(ctx, postID)
}

func (s *BlogService) ListPosts(ctx context.Context) ([]*entity.Post, error) {
	return s.Posts.List(ctx)
}

// RecentPosts serves the homepage feed, cached in Redis for a short TTL.
// Cache failures fall through to the store.
func (s *BlogService) RecentPosts(ctx context.Context, limit int) ([]*entity.Post, error) {
	if limit <= 0 || limit > recentFeedMax {
		limit = 10
	}
	if s.Redis != nil {
		var cached []*entity.Post
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, recentFeedKey, &cached); err == nil && ok {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}
	// The cache always holds the full feed window, whatever limit triggered
	// the miss; the request's limit is applied on the way out. A small request
	// must never shrink what later, larger requests see.
	posts, err := s.Posts.Recent(ctx, recentFeedMax)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, recentFeedKey, posts, s.RecentTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("recent feed cache write failed")
		}
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// SearchPosts matches title/content. Elasticsearch when configured, ILIKE on
// the store otherwise; ES failures also fall back to the store.
func (s *BlogService) SearchPosts(ctx context.Context, query string) ([]*entity.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Posts.List(ctx)
	}
	if s.ES != nil && s.ESIndex != "" {
		if ids, err := s.searchES(ctx, query); err == nil {
			posts := make([]*entity.Post, 0, len(ids))
			for _, id := range ids {
				p, err := s.Posts.GetByID(ctx, id)
				if err != nil {
					continue // index may lag deletions
				}
				posts = append(posts, p)
			}
			return posts, nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to store")
		}
	}
	return s.Posts.Search(ctx, query)
}

type UpdatePostInput struct {
	Title      string
	Content    string
	CoverImage string
}

// UpdatePost is owner-only and partial: empty input fields keep prior values.
func (s *BlogService) UpdatePost(ctx context.Context, postID, requesterID string, in UpdatePostInput) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != requesterID {
		return nil, apperr.New(apperr.Forbidden, "only the author can edit this post")
	}
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Content != "" {
		p.Content = in.Content
	}
	if in.CoverImage != "" {
		p.CoverImage = in.CoverImage
	}
	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, err
	}

	s.indexPost(ctx, p)
	s.invalidateRecent(ctx)
	return p, nil
}

// DeletePost is owner-only. The store cascades the post's comments.
func (s *BlogService) DeletePost(ctx context.Context, postID, requesterID string) error {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != requesterID {
		return apperr.New(apperr.Forbidden, "only the author can delete this post")
	}
	if err := s.Posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.deleteFromIndex(ctx, postID)
	s.invalidateRecent(ctx)
	return nil
}

// ToggleLike flips the requester's membership in the post's liker set and
// returns the new set. Two toggles by the same account restore the original
// state.
func (s *BlogService) ToggleLike(ctx context.Context, postID, accountID string) ([]string, error) {
	return s.Posts.ToggleLike(ctx, postID, accountID)
}

// AddComment creates the comment and its backref on the post as one logical
// transaction, then notifies the post owner (best-effort).
func (s *BlogService) AddComment(ctx context.Context, postID, authorID, content string) (*entity.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.New(apperr.Validation, "content is required")
	}
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := &entity.Comment{Content: content, AuthorID: authorID, PostID: p.ID}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}

	author, err := s.Accounts.GetByID(ctx, authorID)
	if err == nil {
		sum := author.Summary()
		c.Author = &sum
	}

	if s.Pub != nil && s.MailSend && p.AuthorID != authorID {
		if owner, err := s.Accounts.GetByID(ctx, p.AuthorID); err == nil {
			job := mailer.EmailJob{
				To:       owner.Email,
				Template: mailer.TemplateNewComment,
				Data: map[string]any{
					"AppName":       s.AppName,
					"PostTitle":     p.Title,
					"CommenterName": c.Author.Username,
					"Content":       c.Content,
				},
			}
			if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
				s.Logger.WithError(err).WithField("post_id", p.ID).Warn("comment email enqueue failed")
			}
		}
	}
	return c, nil
}

func (s *BlogService) ListComments(ctx context.Context, postID string) ([]*entity.Comment, error) {
	return s.Comments.ListByPost(ctx, postID)
}

// RemoveComment is owner-only (the comment's author, not the post's). The
// comment row and the post backref are removed together.
func (s *BlogService) RemoveComment(ctx context.Context, commentID, requesterID string) error {
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != requesterID {
		return apperr.New(apperr.Forbidden, "only the author can delete this comment")
	}
	return s.Comments.Delete(ctx, c)
}

// UploadCover stores a post cover image and returns its reference.
func (s *BlogService) UploadCover(ctx context.Context, authorID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.New(apperr.Internal, "file storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("covers", authorID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "cover upload failed", err)
	}
	return url, nil
}

func (s *BlogService) invalidateRecent(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, recentFeedKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("recent feed cache invalidation failed")
	}
}

func (s *BlogService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         p.ID,
		"title":      p.Title,
		"content":    p.Content,
		"author_id":  p.AuthorID,
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post_id", p.ID).Warn("es index response error")
	}
}

func (s *BlogService) deleteFromIndex(ctx context.Context, postID string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: postID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", postID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

func (s *BlogService) searchES(ctx context.Context, query string) ([]string, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": 25,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
