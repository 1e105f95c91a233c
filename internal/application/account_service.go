package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inkwell/internal/domain/entity"
	"inkwell/internal/domain/repository"
	"inkwell/pkg/apperr"
	"inkwell/pkg/helpers"
	"inkwell/pkg/mailer"
)

// AccountService handles registration, login and profile maintenance.
type AccountService struct {
	Repo      repository.AccountRepository
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	Pub       *helpers.RabbitPublisher
	AppName   string
	MailSend  bool
}

func NewAccountService(repo repository.AccountRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, pub *helpers.RabbitPublisher, appName string, mailSend bool) *AccountService {
	return &AccountService{
		Repo:      repo,
		JWT:       jwt,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
		Pub:       pub,
		AppName:   appName,
		MailSend:  mailSend,
	}
}

// Register creates an account. It does not log the account in; the caller
// must go through Login. Duplicate emails surface as Conflict.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*entity.Account, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hash,
		Username: username,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.Pub != nil && s.MailSend {
		job := mailer.EmailJob{
			To:       a.Email,
			Template: mailer.TemplateWelcome,
			Data:     map[string]any{"AppName": s.AppName, "Username": a.Username},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", a.Email).Warn("welcome email enqueue failed")
		}
	}
	return a, nil
}

// Login validates credentials and issues a stateless token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, time.Time, *entity.Account, error) {
	invalid := apperr.New(apperr.Unauthenticated, "invalid credentials")

	a, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || a == nil {
		return "", time.Time{}, nil, invalid
	}
	if !helpers.CompareHashAndPassword(a.Password, password) {
		return "", time.Time{}, nil, invalid
	}

	token, exp, err := s.JWT.Generate(a.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("token generation failed")
		}
		return "", time.Time{}, nil, apperr.Wrap(apperr.Internal, "token generation failed", err)
	}
	return token, exp, a, nil
}

func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*entity.Account, error) {
	return s.Repo.GetByID(ctx, accountID)
}

type UpdateProfileInput struct {
	Username  string
	AvatarURL string
}

// UpdateProfile is a partial update: empty fields keep their prior values.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*entity.Account, error) {
	a, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if in.Username != "" {
		a.Username = in.Username
	}
	if in.AvatarURL != "" {
		a.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UploadAvatar stores the avatar via the file-storage collaborator and writes
// the returned reference onto the profile.
func (s *AccountService) UploadAvatar(ctx context.Context, accountID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.New(apperr.Internal, "file storage not configured")
	}
	a, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", accountID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "avatar upload failed", err)
	}
	a.AvatarURL = url
	if err := s.Repo.Update(ctx, a); err != nil {
		return "", err
	}
	return url, nil
}
