package router

import (
	"inkwell/internal/application"
	"inkwell/internal/container"
	"inkwell/internal/infrastructure/postgres"
	handlers "inkwell/internal/interface/http"
	"inkwell/internal/router/modules"
)

// InitModules constructs repositories, services, and handlers from the
// container singletons and registers every feature module with the registry.
// Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	accounts := postgres.NewAccountRepository(pool)
	posts := postgres.NewPostRepository(pool)
	comments := postgres.NewCommentRepository(pool)

	accountSvc := application.NewAccountService(
		accounts,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
		container.GetRabbitPub(),
		cfg.AppName,
		cfg.MailSendEnabled,
	)

	blogSvc := &application.BlogService{
		Posts:     posts,
		Comments:  comments,
		Accounts:  accounts,
		Redis:     container.GetRedis(),
		RecentTTL: cfg.RecentFeedTTL,
		ES:        container.GetES(),
		ESIndex:   cfg.ESPostsIndex,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		Pub:       container.GetRabbitPub(),
		AppName:   cfg.AppName,
		MailSend:  cfg.MailSendEnabled,
		Logger:    logger,
	}

	jwt := container.GetJWT()

	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(accountSvc, logger), jwt))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(blogSvc, logger), jwt))
	r.Add(modules.NewCommentModule(handlers.NewCommentHandler(blogSvc, logger), jwt))
}
