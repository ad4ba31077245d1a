package main

import (
	"context"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/authz"
	"github.com/spec-kit/helpdesk/internal/cache"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notification"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	replyRepo := repository.NewTicketReplyRepository(pool)
	imageRepo := repository.NewImageRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	priorityRepo := repository.NewPriorityRepository(pool)
	softwareRepo := repository.NewSoftwareRepository(pool)
	statusRepo := cache.NewStatusCache(repository.NewStatusRepository(pool), redis.Client, logger)
	transactor := repository.NewTransactor(pool)

	var gateway notification.Gateway
	if cfg.SMTP.Host != "" {
		gateway = notification.NewSMTPGateway(cfg.SMTP)
	} else {
		logger.Warn("SMTP_HOST not set; notifications are logged only")
		gateway = notification.NewLogGateway(logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	monitor := service.NewEventMonitor(dispatcher, logger, metrics)
	monitor.RegisterHandlers()

	policy := authz.NewPolicy()
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokenManager, userRepo)

	authService := service.NewAuthService(userRepo, tokenManager, auth.NewPasswordHasher(cfg.Auth.BcryptCost))
	userService := service.NewUserService(userRepo, ticketRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		ReplyRepo:    replyRepo,
		ImageRepo:    imageRepo,
		StatusRepo:   statusRepo,
		CategoryRepo: categoryRepo,
		PriorityRepo: priorityRepo,
		SoftwareRepo: softwareRepo,
		UserRepo:     userRepo,
		Tx:           transactor,
		Policy:       policy,
		Gateway:      gateway,
		Dispatcher:   dispatcher,
	})
	replyService := service.NewReplyService(service.ReplyDependencies{
		TicketRepo: ticketRepo,
		ReplyRepo:  replyRepo,
		StatusRepo: statusRepo,
		UserRepo:   userRepo,
		Policy:     policy,
		Gateway:    gateway,
		Dispatcher: dispatcher,
	})
	referenceService := service.NewReferenceService(service.ReferenceDependencies{
		StatusRepo:   statusRepo,
		CategoryRepo: categoryRepo,
		PriorityRepo: priorityRepo,
		SoftwareRepo: softwareRepo,
		TicketRepo:   ticketRepo,
		Tx:           transactor,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, replyService, metrics),
		Admin:          handlers.NewAdminHandler(referenceService, userService),
		AuthMiddleware: authMiddleware,
	})

	metricsServer := &nethttp.Server{
		Addr:    cfg.App.MetricsAddr(),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			logger.Error("metrics listen", zap.Error(err))
		}
	}()

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = metricsServer.Shutdown(context.Background())
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
