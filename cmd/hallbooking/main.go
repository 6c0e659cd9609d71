package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/app"
	"github.com/Freeeeeet/hall_booking/internal/cache"
	"github.com/Freeeeeet/hall_booking/internal/config"
	"github.com/Freeeeeet/hall_booking/internal/controller"
	"github.com/Freeeeeet/hall_booking/internal/controller/api"
	"github.com/Freeeeeet/hall_booking/internal/controller/handlers"
	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/queue"
	"github.com/Freeeeeet/hall_booking/internal/repository"
	"github.com/Freeeeeet/hall_booking/internal/repository/memory"
	"github.com/Freeeeeet/hall_booking/internal/service"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting hall booking service",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreDriver),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("telegram", cfg.TelegramToken != ""),
		zap.Bool("rabbitmq", cfg.RabbitURL != ""),
		zap.Bool("redis", cfg.RedisAddr != ""))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Service stopped with error", zap.Error(err))
	}
	logger.Info("👋 Service stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	hub := feed.NewHub(logger)

	st, cleanup, err := openStore(ctx, cfg, hub, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Кэш профилей
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis is not reachable, profile reads fall through to the store", zap.Error(err))
		}
	}
	profiles := cache.NewProfileCache(st.Profiles(), rdb, cfg.ProfileCacheTTL, logger)
	go profiles.RunInvalidation(ctx, hub)

	// Сервисы
	profileService := service.NewProfileService(profiles, logger)
	bookingService := service.NewBookingService(st, hub, logger)
	archiveService := service.NewArchiveService(st, hub, logger)
	notificationService := service.NewNotificationService(st, hub, logger)
	workflowService := service.NewWorkflowService(st, archiveService, notificationService, logger)
	calendarService := service.NewCalendarService(st, archiveService, hub, logger)

	// Telegram бот
	var botController *controller.BotController
	var deliverer queue.Deliverer = queue.NewLogDeliverer(logger)
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		cmdHandlers := handlers.NewHandlers(
			profileService,
			bookingService,
			workflowService,
			archiveService,
			notificationService,
			calendarService,
			logger,
		)
		botController = controller.NewBotController(b, cmdHandlers, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands were not registered", zap.Error(err))
		}
		deliverer = controller.NewTelegramDeliverer(b, profiles, logger)
	}

	// Доставка событий: RabbitMQ или в том же процессе
	eventHandler := queue.NewHandler(deliverer, logger)
	var publisher app.EventPublisher = queue.NewLocalPublisher(eventHandler)
	if cfg.RabbitURL != "" {
		rabbitPublisher, err := queue.NewPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			return err
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher

		consumer := queue.NewConsumer(queue.ConsumerConfig{
			URL:      cfg.RabbitURL,
			Exchange: cfg.EventsExchange,
			Queue:    cfg.EventsQueue,
			Prefetch: 10,
		}, eventHandler, logger)
		if err := consumer.Connect(); err != nil {
			return err
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("Event consumer stopped", zap.Error(err))
			}
		}()
	}

	scheduler := app.NewScheduler(st, publisher, cfg.OutboxInterval, cfg.OutboxBatch, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP API
	apiHandler := api.NewHandler(
		profileService,
		bookingService,
		workflowService,
		archiveService,
		notificationService,
		calendarService,
		logger,
	)
	server := api.NewServer(apiHandler, cfg.JWTSecret)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if botController != nil {
		go botController.Start(ctx)
	}

	logger.Info("✅ Service is running")

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore открывает хранилище по STORE_DRIVER
func openStore(ctx context.Context, cfg *config.Config, hub *feed.Hub, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		st := memory.New(memory.WithPublisher(hub))
		st.SeedHalls(
			&model.Hall{Name: "Seminar Hall", Location: "Building 9, Floor 4"},
			&model.Hall{Name: "LRDC Hall", Location: "Building 9, Floor 5"},
			&model.Hall{Name: "Architecture Hall", Location: "Building 3, Floor 5"},
		)
		return st, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, repository.Migrations, repository.MigrationsDir, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	listener := repository.NewChangeListener(pool, hub, logger)
	go listener.Run(ctx)

	cleanup := func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
		pool.Close()
	}
	return repository.NewStore(pool, logger), cleanup, nil
}
