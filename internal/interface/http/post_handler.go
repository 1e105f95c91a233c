package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkwell/internal/application"
	"inkwell/internal/domain/entity"
	"inkwell/internal/interface/middleware"
	"inkwell/pkg/response"
)

type PostHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.BlogService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Svc.ListPosts(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postsJSON(posts), "posts fetched", gin.H{"count": len(posts)})
}

func (h *PostHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	posts, err := h.Svc.RecentPosts(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postsJSON(posts), "recent posts fetched", gin.H{"count": len(posts)})
}

func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")

	posts, err := h.Svc.SearchPosts(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postsJSON(posts), "search results", gin.H{"count": len(posts), "query": q})
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.Svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postJSON(post), "post fetched", nil)
}

// Create accepts multipart form data: title and content fields, plus either
// a cover_image URL field or an uploaded "cover" file.
func (h *PostHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	in := application.CreatePostInput{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		CoverImage: c.PostForm("cover_image"),
	}

	if fh, err := c.FormFile("cover"); err == nil && fh != nil {
		url, err := h.uploadCover(c, uid, fh)
		if err != nil {
			return
		}
		in.CoverImage = url
	}

	post, err := h.Svc.CreatePost(c.Request.Context(), uid, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, postJSON(post), "post created", nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	in := application.UpdatePostInput{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		CoverImage: c.PostForm("cover_image"),
	}

	if fh, err := c.FormFile("cover"); err == nil && fh != nil {
		url, err := h.uploadCover(c, uid, fh)
		if err != nil {
			return
		}
		in.CoverImage = url
	}

	post, err := h.Svc.UpdatePost(c.Request.Context(), c.Param("id"), uid, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postJSON(post), "post updated", nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	if err := h.Svc.DeletePost(c.Request.Context(), c.Param("id"), uid); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "post deleted", nil)
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	likes, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"likes": likes}, "like toggled", gin.H{"count": len(likes)})
}

// uploadCover streams the uploaded file to object storage and writes the
// error response itself on failure.
func (h *PostHandler) uploadCover(c *gin.Context, uid string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unable to read cover upload", nil)
		return "", err
	}
	defer f.Close()

	url, err := h.Svc.UploadCover(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		response.FromError(c, err)
		return "", err
	}
	return url, nil
}

func postJSON(p *entity.Post) gin.H {
	out := gin.H{
		"id":          p.ID,
		"title":       p.Title,
		"content":     p.Content,
		"cover_image": p.CoverImage,
		"author_id":   p.AuthorID,
		"likes":       p.Likes,
		"likes_count": len(p.Likes),
		"comment_ids": p.CommentIDs,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
	if p.Author != nil {
		out["author"] = p.Author
	}
	return out
}

func postsJSON(posts []*entity.Post) []gin.H {
	out := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON(p))
	}
	return out
}
