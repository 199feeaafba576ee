package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	api "github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	if !config.IsProduction(c) {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zlog.Info().Msg("Initializing app...")

	ctx := context.Background()

	dbType := config.GetString(c, "DB_TYPE", "")
	zlog.Info().Str("DB_TYPE", dbType).Msg("opening record store")

	var currentDB database.Database
	if dbType == "memory" {
		zlog.Warn().Msg("Using the in-memory store, records are lost on restart")
		currentDB = database.NewInMemory()
	} else {
		db, err := openDatabase(c, dbType)
		if err != nil {
			zlog.Fatal().Err(err).Msg("Error connecting to database")
		}

		// If generating models, run generation and exit
		if strings.ToLower(config.GetString(c, "GENERATE_MODELS", "")) == "true" {
			zlog.Info().Msg("Generating models and query helpers...")
			if err := models.GenerateModels(db); err != nil {
				zlog.Fatal().Err(err).Msg("Model generation failed")
			}
			return
		}

		if err := models.Migrate(db); err != nil {
			zlog.Fatal().Err(err).Msg("Error migrating database")
		}
		currentDB = database.New(db)
	}

	images, localUploads, err := openImageStore(ctx, c)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error configuring image storage")
	}

	adminPassword, err := resolveAdminPassword(ctx, c)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error reading admin password")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, api.Dependencies{
		Catalog:       catalog.New(currentDB, images),
		AdminPassword: adminPassword,
		LocalUploads:  localUploads,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	zlog.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to the relational store selected by DB_TYPE
func openDatabase(c map[string]string, dbType string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(c),
		},
	)
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch dbType {
	case "supa":
		dialector = postgres.New(postgres.Config{
			DSN: fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
				config.GetString(c, "SUPABASE_DB_HOST", ""),
				config.GetString(c, "SUPABASE_DB_USER", ""),
				config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
				config.GetString(c, "SUPABASE_DB_NAME", ""),
				config.GetString(c, "SUPABASE_DB_PORT", "5432"),
			),
			PreferSimpleProtocol: true,
		})
		zlog.Info().Msg("Connecting to Supabase database...")
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN: fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				config.GetString(c, "DB_HOST", "localhost"),
				config.GetString(c, "DB_USER", "postgres"),
				config.GetString(c, "DB_PASSWORD", ""),
				config.GetString(c, "DB_NAME", "portfolio"),
				config.GetString(c, "DB_PORT", "5432"),
				config.GetString(c, "DB_SSLMODE", "disable"),
			),
		})
		zlog.Info().Msg("Connecting to PostgreSQL database...")
	case "sqlite":
		path := config.GetString(c, "SQLITE_PATH", "portfolio.db")
		dialector = sqlite.Open(path + "?_foreign_keys=1")
		zlog.Info().Str("path", path).Msg("Opening SQLite database...")
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q (want supa, postgres, sqlite or memory)", dbType)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	if replica := config.GetString(c, "DB_REPLICA_DSN", ""); replica != "" && dbType != "sqlite" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(replica)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		zlog.Info().Msg("Read replica registered")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}
	return db, nil
}

// openImageStore picks the upload backend. The local store is also returned on
// its own so the server can serve its files.
func openImageStore(ctx context.Context, c map[string]string) (storage.ImageStore, *storage.LocalStore, error) {
	switch backend := config.GetString(c, "UPLOAD_BACKEND", "local"); backend {
	case "local":
		store := storage.NewLocalStore(
			afero.NewOsFs(),
			config.GetString(c, "UPLOAD_DIR", "public/uploads"),
			config.GetString(c, "UPLOAD_PUBLIC_PATH", "/uploads"),
		)
		return store, store, nil
	case "s3":
		cfg := storage.S3Config{
			Bucket:    config.GetString(c, "S3_BUCKET", ""),
			Region:    config.GetString(c, "S3_REGION", config.GetString(c, "AWS_REGION", "us-east-1")),
			AccessKey: config.GetString(c, "S3_ACCESS_KEY", ""),
			SecretKey: config.GetString(c, "S3_SECRET_KEY", ""),
			Prefix:    config.GetString(c, "S3_PREFIX", "uploads"),
			BaseURL:   config.GetString(c, "S3_BASE_URL", ""),
		}
		if cfg.Bucket == "" {
			return nil, nil, fmt.Errorf("S3_BUCKET is required when UPLOAD_BACKEND=s3")
		}
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewS3Store(client, cfg), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported UPLOAD_BACKEND %q", backend)
	}
}

func resolveAdminPassword(ctx context.Context, c map[string]string) (string, error) {
	var getter config.ParameterGetter
	if config.GetString(c, "ADMIN_PASSWORD_SSM_PARAMETER", "") != "" {
		client, err := config.NewSSMClient(ctx, c)
		if err != nil {
			return "", err
		}
		getter = client
	}

	password, source, err := config.AdminPassword(ctx, c, getter)
	if err != nil {
		return "", err
	}
	if source == config.SecretSourceFallback {
		zlog.Warn().Msg("ADMIN_PASSWORD is not set, using the built-in default password. Set ADMIN_PASSWORD before exposing the admin routes.")
	} else {
		zlog.Info().Str("source", source).Msg("Admin password loaded")
	}
	return password, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
