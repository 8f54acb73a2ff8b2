package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/config"
	"github.com/soniarr234/fitlover-back/internal/database"
	"github.com/soniarr234/fitlover-back/internal/events"
	"github.com/soniarr234/fitlover-back/internal/logging"
	"github.com/soniarr234/fitlover-back/internal/middleware"
	"github.com/soniarr234/fitlover-back/internal/repository"
	"github.com/soniarr234/fitlover-back/internal/repository/memory"
	"github.com/soniarr234/fitlover-back/internal/routes"
	"github.com/soniarr234/fitlover-back/internal/services"
	routinews "github.com/soniarr234/fitlover-back/internal/websocket"
)

var starterCatalog = []repository.CreateExerciseInput{
	{Name: "Sentadilla", Muscles: []string{"cuadriceps", "gluteos"}, Description: "Sentadilla trasera con barra"},
	{Name: "Press banca", Muscles: []string{"pectoral", "triceps"}, Description: "Press horizontal en banco plano"},
	{Name: "Peso muerto", Muscles: []string{"isquiotibiales", "espalda baja"}, Description: "Peso muerto convencional"},
	{Name: "Dominadas", Muscles: []string{"dorsal", "biceps"}, Description: "Dominadas con agarre prono"},
	{Name: "Plancha", Muscles: []string{"core"}, Description: "Plancha isometrica sobre antebrazos"},
}

func main() {
	// 1. Load Config
	cfg, envLoaded, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if !envLoaded {
		log.Info("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	var store repository.Store
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		memStore := memory.NewStore()
		if err := memStore.Seed(ctx, starterCatalog); err != nil {
			log.WithError(err).Fatal("failed to seed in-memory catalog")
		}
		store = memStore
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		pool, err := database.Connect(ctx, cfg.DBUrl)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		defer pool.Close()
		store = repository.NewPgStore(pool)
	}

	resolver, err := services.NewIdentityResolver(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		log.WithError(err).Fatal("failed to build identity resolver")
	}

	// 3. Event fan-out
	hub := routinews.NewHub(log)
	go hub.Run(ctx)

	publishers := events.MultiPublisher{hub}
	if cfg.KafkaEnabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaRoutineTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.WithError(err).Warn("failed to close kafka writer")
			}
		}()
		publishers = append(publishers, kafkaPublisher)
		log.WithField("topic", cfg.KafkaRoutineTopic).Info("publishing routine events to kafka")
	}

	var mediaStorage services.MediaStorage
	if cfg.MediaStorageEnabled() {
		mediaStorage = services.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	limiter.StartCleanup(5*time.Minute, ctx.Done())

	// 4. Setup Fiber
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:request_id} ${status} ${method} ${path} ${latency}\n",
	}))

	if err := routes.RegisterRoutes(app, routes.Dependencies{
		Config:      cfg,
		Store:       store,
		Resolver:    resolver,
		Hub:         hub,
		Publisher:   publishers,
		Storage:     mediaStorage,
		RateLimiter: limiter,
		Logger:      log,
	}); err != nil {
		log.WithError(err).Fatal("failed to register routes")
	}

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	// 5. Start Server
	log.WithFields(logrus.Fields{"port": cfg.Port, "storage": cfg.StorageDriver}).Info("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
