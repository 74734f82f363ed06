package main

import (
	"os"

	"garden-gateway-api/db"
	"garden-gateway-api/feed"
	"garden-gateway-api/rest"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("service_name", "garden-gateway-api"))

	if err := db.Connect(); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database")

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	version, err := db.GetCurrentVersion()
	if err != nil {
		logger.Warn("failed to get current schema version", zap.Error(err))
	} else {
		logger.Info("database schema version", zap.Int("version", version))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer redisClient.Close()

	publisher := feed.NewPublisher(redisClient)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, OPTIONS",
	}))

	rest.Init(app, rest.NewHandler(publisher, logger))

	addr := ":" + getEnvWithDefault("PORT", "8080")
	logger.Info("starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
