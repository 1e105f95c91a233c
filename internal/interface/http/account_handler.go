package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkwell/internal/application"
	"inkwell/internal/interface/middleware"
	"inkwell/pkg/response"
	"inkwell/pkg/validation"
)

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	acc, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, acc.Summary(), "account registered", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	token, expiresAt, acc, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"account": acc.Summary(),
	}, "login successful", gin.H{"expires_at": expiresAt})
}

func (h *AccountHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	acc, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, acc.Summary(), "profile fetched", nil)
}

// UpdateProfile accepts multipart form data so the avatar can ride along
// with the field changes in one request.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	in := application.UpdateProfileInput{
		Username:  c.PostForm("username"),
		AvatarURL: c.PostForm("avatar_url"),
	}

	if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "unable to read avatar upload", nil)
			return
		}
		defer f.Close()

		url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		in.AvatarURL = url
	}

	acc, err := h.Svc.UpdateProfile(c.Request.Context(), uid, in)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, acc.Summary(), "profile updated", nil)
}
