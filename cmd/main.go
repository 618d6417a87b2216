package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trailgram/social-graph-service/internal/config"
	"github.com/trailgram/social-graph-service/internal/consumer"
	"github.com/trailgram/social-graph-service/internal/events"
	"github.com/trailgram/social-graph-service/internal/handler"
	"github.com/trailgram/social-graph-service/internal/reconciler"
	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/service"
	"github.com/trailgram/social-graph-service/internal/store"
	"github.com/trailgram/social-graph-service/internal/uow"
	"github.com/trailgram/social-graph-service/pkg/database"
	pkglog "github.com/trailgram/social-graph-service/pkg/log"
	"github.com/trailgram/social-graph-service/pkg/middleware"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		pkglog.L().Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "social-graph-service",
	})
	logger := pkglog.L()

	// 3. Init DB (GORM) and run migrations + index DDL
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get underlying sql.DB")
	}
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Msg("database migration completed")

	// 4. Init Redis engagement store
	redisStore, err := store.NewRedisEngagementStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisStore.Close()
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	// 5. Create repositories
	graphRepo := repository.NewGormGraphRepository(db)
	accountRepo := repository.NewGormAccountRepository(db)
	reelRepo := repository.NewGormReelRepository(db)
	memoryRepo := repository.NewGormMemoryRepository(db)
	engagementRepo := repository.NewGormEngagementRepository(db)

	// 6. Init Kafka event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Brokers != "" {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create kafka publisher, event publishing disabled")
		} else {
			publisher = kp
			logger.Info().Str("topic", cfg.Kafka.EventsTopic).Msg("kafka event publisher started")
		}
	} else {
		logger.Warn().Msg("KAFKA_BROKERS not configured; event publishing disabled")
	}
	defer publisher.Close()

	// 7. Create services
	socialSvc := service.NewSocialService(graphRepo, accountRepo, publisher)
	feedSvc := service.NewFeedService(reelRepo, graphRepo, accountRepo)
	engagementSvc := service.NewEngagementService(engagementRepo, reelRepo, graphRepo, accountRepo, redisStore, publisher)
	geoSvc := service.NewGeoService(reelRepo)
	memorySvc := service.NewMemoryService(memoryRepo, graphRepo, accountRepo)

	// 8. Create auth middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	// 9. Init Kafka user-events consumer (account replica)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var kafkaConsumer *consumer.ConfluentConsumer
	if cfg.Kafka.Brokers != "" {
		kc, err := consumer.NewConfluentConsumer(
			cfg.Kafka.Brokers,
			cfg.Kafka.UserTopic,
			cfg.Kafka.GroupID,
			socialSvc, // service implements UserEventHandler
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create kafka consumer, account replica updates disabled")
		} else {
			if err := kc.Start(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to start kafka consumer")
			} else {
				kafkaConsumer = kc
				logger.Info().Str("topic", cfg.Kafka.UserTopic).Msg("kafka user-events consumer started")
			}
		}
	} else {
		logger.Warn().Msg("KAFKA_BROKERS not configured; account replica consumer disabled")
	}

	// 10. Init reconciler and start
	rec := reconciler.New(redisStore, engagementRepo, cfg.Reconciler)
	rec.Start(ctx)
	logger.Info().Dur("interval", cfg.Reconciler.Interval).Int("top_n", cfg.Reconciler.TopN).Msg("reconciler started")

	// 11. Setup Gin router + HTTP server
	httpHandler := handler.NewHandler(socialSvc, feedSvc, engagementSvc, geoSvc, memorySvc, authMiddleware)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(uow.Middleware(db))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	httpHandler.RegisterRoutes(r)

	// 12. Start server goroutine
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info().Str("addr", addr).Msg("social-graph-service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// 13. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		// 1. cancel() — stop Kafka consumer loop and reconciler ticker
		cancel()

		// 2. kafkaConsumer.Close() — wait for in-flight message
		if kafkaConsumer != nil {
			if err := kafkaConsumer.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing kafka consumer")
			}
		}

		// 3. reconciler.Stop() — stop ticker; <-reconciler.Done()
		rec.Stop()
		<-rec.Done()

		// 4. server.Shutdown(5s) — drain HTTP
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
		}
	}()

	select {
	case <-shutdownDone:
		logger.Info().Msg("social-graph-service stopped")
	case <-time.After(30 * time.Second):
		logger.Warn().Msg("shutdown timed out after 30s")
	}
}
