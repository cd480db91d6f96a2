package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"criticizeit/internal/handlers"
	"criticizeit/internal/middleware"
	"criticizeit/internal/models"
	"criticizeit/internal/repositories"
	"criticizeit/internal/services"
	"criticizeit/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":5000")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=criticizeit port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	production := viper.GetString("APP_ENV") == "production"

	// --- Database ---
	// The GORM handle is opened here and passed down; nothing else owns a
	// connection to the store.
	db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Service{}, &models.Review{}, &models.User{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Review events are published when a broker is configured; an empty URL
	// disables publishing entirely.
	var publisher services.EventPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		log.Println("Starting RabbitMQ consumer for review events...")
		if err := mqClient.ConsumeReviewEvents(rabbitmq.HandleReviewMessage); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set; review events disabled")
	}

	// --- Repositories ---
	serviceRepo := repositories.NewGORMServiceRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Services ---
	authService := services.NewAuthService(viper.GetString("JWT_SECRET"))
	catalogService := services.NewCatalogService(serviceRepo)
	reviewService := services.NewReviewService(reviewRepo, publisher)
	userService := services.NewUserService(userRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, production)
	serviceHandler := handlers.NewServiceHandler(catalogService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(userService)

	// --- Fiber App ---
	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     viper.GetString("CORS_ORIGINS"),
		AllowCredentials: true, // the session token travels in a cookie
	}))

	// --- API Routes ---
	auth := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(app)
	serviceHandler.RegisterRoutes(app, auth)
	reviewHandler.RegisterRoutes(app, auth)
	userHandler.RegisterRoutes(app)

	// --- Liveness Endpoint ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CriticizeIt server is running")
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Listen errors flow back here so deferred cleanup still runs.
	serverErr := make(chan error, 1)
	go func() {
		if err := app.Listen(appPort); err != nil {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Printf("Server failed: %v", err)
		return
	case <-quit:
	}
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
