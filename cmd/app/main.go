package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"ordercore/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs(logger)

	gormDB, err := gorm.Open(postgresdriver.Open(postgresDSN(configs)), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	app := cmd.NewCompositionRoot(configs, gormDB)
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("Failed to close composition root", "error", closeErr)
		}
	}()

	if err = app.MigrateDatabase(); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	jobManager := app.CreateJobManager(logger)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, using process environment")
	}

	return cmd.Config{
		HTTPPort:              envOrDefault("HTTP_PORT", "8080"),
		DBHost:                envOrDefault("DB_HOST", "localhost"),
		DBPort:                envOrDefault("DB_PORT", "5432"),
		DBUser:                envOrDefault("DB_USER", "postgres"),
		DBPassword:            envOrDefault("DB_PASSWORD", "postgres"),
		DBName:                envOrDefault("DB_NAME", "ordercore"),
		DBSslMode:             envOrDefault("DB_SSLMODE", "disable"),
		KafkaHost:             envOrDefault("KAFKA_HOST", "localhost:9092"),
		KafkaEventTopic:       envOrDefault("KAFKA_EVENT_TOPIC", "order-events"),
		RedisAddr:             envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         envOrDefault("REDIS_PASSWORD", ""),
		RedisDB:               envInt("REDIS_DB", 0),
		IdempotencyPendingTTL: envDuration("IDEMPOTENCY_PENDING_TTL", time.Minute),
		IdempotencyDoneTTL:    envDuration("IDEMPOTENCY_DONE_TTL", 24*time.Hour),
		RelaySchedule:         envOrDefault("RELAY_SCHEDULE", "* * * * * *"),
		RelayBatchSize:        envInt("RELAY_BATCH_SIZE", 100),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func postgresDSN(configs cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
