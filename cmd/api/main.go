package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/rag-chat-service/internal/api/http"
	"github.com/spec-kit/rag-chat-service/internal/api/http/handlers"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/config"
	"github.com/spec-kit/rag-chat-service/internal/events"
	"github.com/spec-kit/rag-chat-service/internal/observability"
	"github.com/spec-kit/rag-chat-service/internal/persistence"
	"github.com/spec-kit/rag-chat-service/internal/repository"
	"github.com/spec-kit/rag-chat-service/internal/service"
	"github.com/spec-kit/rag-chat-service/internal/streaming"
	"github.com/spec-kit/rag-chat-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.GeneratedSecret {
		logger.Warn("AUTH_JWT_SECRET not set; generated a random secret, issued tokens will not survive a restart")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisStore := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redisStore.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	tenantRepo := repository.NewTenantRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	uploadStatusRepo := repository.NewUploadStatusRepository(redisStore.Client)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost, cfg.Auth.PasswordMinLength)

	authService := service.NewAuthService(userRepo, tokens, hasher, dispatcher)
	tenantService := service.NewTenantService(tenantRepo, hasher, dispatcher)
	userService := service.NewUserService(userRepo, authService)
	chatService := service.NewChatService(chatRepo, dispatcher)
	documentService := service.NewDocumentService(documentRepo, uploadStatusRepo)
	responder := streaming.NewResponder(cfg.Streaming.ChunkWords, cfg.Streaming.ChunkDelay())

	if err := service.SeedSuperadmin(ctx, userRepo, authService, cfg.Seed, logger); err != nil {
		logger.Fatal("failed to seed superadmin", zap.Error(err))
	}

	identityMiddleware := auth.NewIdentityMiddleware(tokens, cfg.Auth.BypassPathPrefixes)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(pg, redisStore, metrics),
		Auth:      handlers.NewAuthHandler(authService),
		Tenants:   handlers.NewTenantsHandler(tenantService),
		Users:     handlers.NewUsersHandler(userService),
		Chats:     handlers.NewChatsHandler(chatService),
		Sessions:  handlers.NewSessionsHandler(chatService, responder),
		Documents: handlers.NewDocumentsHandler(documentService),
		Identity:  identityMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
