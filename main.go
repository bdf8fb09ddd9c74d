package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meinhoongagan/amigos-app/config"
	"github.com/meinhoongagan/amigos-app/controllers"
	"github.com/meinhoongagan/amigos-app/cron"
	"github.com/meinhoongagan/amigos-app/db"
	"github.com/meinhoongagan/amigos-app/logger"
	"github.com/meinhoongagan/amigos-app/payments"
	"github.com/meinhoongagan/amigos-app/redis"
	"github.com/meinhoongagan/amigos-app/routes"
	"github.com/meinhoongagan/amigos-app/services"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/meinhoongagan/amigos-app/utils"
	"github.com/meinhoongagan/amigos-app/validation"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to config YAML file")
	migrate := flag.Bool("migrate", false, "Run database migrations and exit")
	seed := flag.Bool("seed", false, "Load the sample data into an empty store")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	loc := cfg.Location()

	var (
		store  storage.Storage
		gormDB *gorm.DB
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		gormDB, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if *migrate {
			if err := db.Migrate(gormDB); err != nil {
				log.Fatal().Err(err).Msg("failed to run migrations")
			}
			return
		}
		store = storage.NewPostgresStorage(gormDB, loc)
	default:
		if *migrate {
			log.Fatal().Msg("-migrate requires STORAGE_DRIVER=postgres")
		}
		store = storage.NewMemStorage(loc)
		*seed = true
	}

	if *seed {
		if err := storage.Seed(ctx, store, time.Now(), loc); err != nil {
			log.Fatal().Err(err).Msg("failed to load sample data")
		}
	}

	var webhookEvents, reminderLog redis.EventLog = redis.NewMemoryEventLog(), redis.NewMemoryEventLog()
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		webhookEvents = redis.NewRedisEventLog(client, redis.WebhookEventPrefix)
		reminderLog = redis.NewRedisEventLog(client, redis.ReminderPrefix)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, webhook dedupe is kept in memory")
	}

	var mailer utils.Mailer = utils.LogMailer{}
	if cfg.SMTP.Host != "" {
		mailer = utils.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	}

	var uploader utils.AvatarUploader
	if cfg.Cloudinary.CloudName != "" {
		cld, err := utils.NewCloudinaryUploader(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init cloudinary")
		}
		uploader = cld
	}

	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents will fail")
	}
	processor := payments.NewStripeProcessor(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	accounts := services.NewAccountService(store, services.TokenConfig{
		Secret:     cfg.Auth.JWTSecret,
		TTL:        cfg.Auth.TokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	}, uploader)
	catalog := services.NewCatalogService(store, loc)
	bookings := services.NewBookingService(store, processor, webhookEvents, mailer, cfg.Stripe.Currency)
	reviews := services.NewReviewService(store)

	validator, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compile request schemas")
	}

	handler := controllers.NewHandler(accounts, catalog, bookings, reviews, validator)
	app := routes.NewApp(handler, cfg.Auth.JWTSecret, cfg.CORSOrigins)

	scheduler := cron.NewScheduler(store, processor, mailer, reminderLog, cron.Config{
		ReminderSchedule:  cfg.Jobs.ReminderSchedule,
		ExpirySchedule:    cfg.Jobs.ExpirySchedule,
		PendingBookingTTL: cfg.Jobs.PendingBookingTTL,
	})
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start cron jobs")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	scheduler.Stop()
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if gormDB != nil {
		if err := db.Close(gormDB); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}

	log.Info().Msg("server exited")
}
