package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkwell/internal/application"
	"inkwell/internal/domain/entity"
	"inkwell/internal/interface/middleware"
	"inkwell/pkg/response"
	"inkwell/pkg/validation"
)

type CommentHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *application.BlogService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	comments, err := h.Svc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, commentsJSON(comments), "comments fetched", gin.H{"count": len(comments)})
}

type createCommentRequest struct {
	PostID  string `json:"post_id" binding:"required,uuid"`
	Content string `json:"content" binding:"required,max=2000"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)

	comment, err := h.Svc.AddComment(c.Request.Context(), req.PostID, uid, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, commentJSON(comment), "comment added", nil)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	if err := h.Svc.RemoveComment(c.Request.Context(), c.Param("id"), uid); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "comment removed", nil)
}

func commentJSON(c *entity.Comment) gin.H {
	out := gin.H{
		"id":         c.ID,
		"content":    c.Content,
		"author_id":  c.AuthorID,
		"post_id":    c.PostID,
		"created_at": c.CreatedAt,
	}
	if c.Author != nil {
		out["author"] = c.Author
	}
	return out
}

func commentsJSON(comments []*entity.Comment) []gin.H {
	out := make([]gin.H, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentJSON(c))
	}
	return out
}
