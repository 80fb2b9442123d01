package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"go.uber.org/zap"

	"forumfront/internal/cache"
	"forumfront/internal/config"
	"forumfront/internal/database"
	"forumfront/internal/handler"
	"forumfront/internal/queue"
	"forumfront/internal/redis"
	"forumfront/internal/repository"
	"forumfront/internal/service"
	"forumfront/internal/session"
	"forumfront/internal/view"
	"forumfront/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Stores groups the repositories the pages read and write.
type Stores struct {
	Categories repository.CategoryRepository
	Posts      repository.PostRepository
	Comments   repository.CommentRepository
	Reactions  repository.ReactionRepository
	Profiles   repository.ProfileRepository
}

// App is the assembled front-end: services, session provider and router.
type App struct {
	Handler  stdhttp.Handler
	Hub      *session.Hub
	Sessions *session.HostedProvider
}

// NewApp wires stores and session plumbing into an HTTP handler.
func NewApp(cfg *config.Config, stores Stores, revocations cache.RevocationStore, publisher session.EventPublisher, hub *session.Hub, logger *zap.Logger) (*App, error) {
	renderer, err := view.NewRenderer(logger)
	if err != nil {
		return nil, err
	}

	sessions := session.NewHostedProvider(session.NewVerifier(cfg.JWTSecret), revocations, publisher, hub, logger)

	composer := service.NewQueryComposer(stores.Categories, stores.Posts, stores.Comments, stores.Reactions, logger)
	reactions := service.NewReactionService(stores.Reactions, logger)
	comments := service.NewCommentService(stores.Comments, logger)
	posts := service.NewPostService(stores.Posts, logger)
	profiles := service.NewProfileService(stores.Profiles, logger)

	pageCfg := handler.PageConfig{
		CookieName:   cfg.SessionCookieName,
		CookieSecure: cfg.CookieSecure,
		SignInURL:    cfg.SignInURL,
	}

	router := NewRouter(RouterConfig{
		HomeHandler:    handler.NewHomeHandler(sessions, composer, reactions, renderer, pageCfg, logger),
		PostHandler:    handler.NewPostHandler(sessions, composer, reactions, comments, posts, renderer, pageCfg, logger),
		CommentHandler: handler.NewCommentHandler(sessions, composer, reactions, comments, renderer, pageCfg, logger),
		ProfileHandler: handler.NewProfileHandler(sessions, profiles, renderer, pageCfg, logger),
		AuthHandler:    handler.NewAuthHandler(sessions, renderer, pageCfg, logger),
		CookieName:     cfg.SessionCookieName,
		Logger:         logger,
	})

	return &App{Handler: router, Hub: hub, Sessions: sessions}, nil
}

// Run connects to Postgres (and Redis when configured), serves until ctx is
// cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := database.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	stores := Stores{
		Categories: repository.NewCategoryRepository(db),
		Posts:      repository.NewPostRepository(db),
		Comments:   repository.NewCommentRepository(db),
		Reactions:  repository.NewReactionRepository(db),
		Profiles:   repository.NewProfileRepository(db),
	}

	hub := session.NewHub()
	var (
		revocations cache.RevocationStore  = cache.NewMemoryRevocationStore()
		publisher   session.EventPublisher = hub
		relay       *worker.Manager
	)

	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		revocations = cache.NewRevocationStore(rdb.Client)
		publisher = queue.NewPublisher(rdb.Client, logger)
		relay = worker.NewManager(
			queue.NewConsumer(rdb.Client, logger),
			worker.NewHandler(hub, logger),
			worker.DefaultManagerConfig(),
			logger,
		)
		logger.Info("session events relayed through redis")
	} else {
		logger.Warn("REDIS_URL not set, session events stay in this process")
	}

	app, err := NewApp(cfg, stores, revocations, publisher, hub, logger)
	if err != nil {
		return err
	}

	if relay != nil {
		relay.Start(ctx)
		defer relay.Stop()
	}

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
