package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"kafeku/internal/handlers"
	"kafeku/internal/middleware"
	"kafeku/internal/models"
	"kafeku/internal/services"
	"kafeku/internal/storage"
	"kafeku/internal/store"
	"kafeku/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "kafeku.db")
	viper.SetDefault("JWT_SECRET", "kafeku_dev_secret")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.SetDefault("SNAPSHOT_QUOTA_BYTES", storage.DefaultSnapshotQuota)
	viper.SetDefault("SUPERADMIN_ID", store.DefaultBootstrapAdmin().ID)
	viper.SetDefault("SUPERADMIN_EMAIL", store.DefaultBootstrapAdmin().Email)
	viper.SetDefault("SUPERADMIN_PASSWORD", store.DefaultBootstrapAdmin().Password)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Open the persistence pair ---
	meta, blobs, err := storage.Open(storage.Config{
		Driver:        viper.GetString("DATABASE_DRIVER"),
		DSN:           viper.GetString("DATABASE_DSN"),
		SnapshotQuota: viper.GetInt("SNAPSHOT_QUOTA_BYTES"),
	})
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	// --- Build and hydrate the catalog store ---
	bootstrap := models.User{
		ID:       viper.GetString("SUPERADMIN_ID"),
		Email:    viper.GetString("SUPERADMIN_EMAIL"),
		Password: viper.GetString("SUPERADMIN_PASSWORD"),
		Role:     models.RoleSuperAdmin,
	}
	catalog := store.NewCatalogStore(meta, blobs, bootstrap)
	if err := catalog.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize catalog store: %v", err)
	}
	log.Printf("Catalog store ready: %d cafes, %d menu items", len(catalog.Cafes()), catalog.TotalMenuItemCount())

	// --- Optional RabbitMQ event publishing ---
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		catalog.Subscribe(func(ev store.Event) {
			if err := mqClient.PublishCatalogEvent(ev); err != nil {
				log.Printf("Failed to publish catalog event %s: %v", ev.Kind, err)
			}
		})

		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received catalog event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeCatalogEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	} else {
		log.Println("RABBITMQ_URL not set; catalog event publishing disabled")
	}

	// --- Services and handlers ---
	authService := services.NewAuthService(catalog, viper.GetString("JWT_SECRET"))
	authHandler := handlers.NewAuthHandler(catalog, authService)
	cafeHandler := handlers.NewCafeHandler(catalog, authService)
	menuHandler := handlers.NewMenuHandler(catalog, authService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authRequired := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(apiV1)
	cafeHandler.RegisterRoutes(apiV1, authRequired)
	menuHandler.RegisterRoutes(apiV1, authRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"ready":  catalog.Ready(),
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server with graceful shutdown ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// Drain in-flight image writes before exiting.
	catalog.Close()
	log.Println("Server gracefully stopped")
}
