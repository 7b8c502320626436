package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genghao161-arch/anyue-lemon-project/internal/cache"
	"github.com/genghao161-arch/anyue-lemon-project/internal/config"
	"github.com/genghao161-arch/anyue-lemon-project/internal/database"
	"github.com/genghao161-arch/anyue-lemon-project/internal/handler"
	"github.com/genghao161-arch/anyue-lemon-project/internal/middleware"
	"github.com/genghao161-arch/anyue-lemon-project/internal/repository"
	"github.com/genghao161-arch/anyue-lemon-project/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Cache: Redis when configured, in-process otherwise
	var store cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		store = redisCache
	} else {
		store = cache.NewMemory()
	}
	defer store.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	productRepo := repository.NewProductRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.JWTSecret, cfg.AdminPhones)
	supportSvc := service.NewSupportService(convRepo, msgRepo)
	weatherSvc, err := service.NewWeatherService(cfg, store)
	if err != nil {
		log.Fatalf("Failed to init weather service: %v", err)
	}
	geocodeSvc := service.NewGeocodeService(cfg.AMapKey)
	uploadSvc := service.NewUploadService(cfg.MediaDir, cfg.PublicBaseURL)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    8 * 1024 * 1024, // uploads cap at 5MB, leave headroom
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Uploaded media
	app.Static("/media", cfg.MediaDir)

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Live)
	app.Get("/api/db/health", healthH.Database)

	api := app.Group("/api")

	// Auth (public)
	authH := handler.NewAuthHandler(authSvc)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(5, time.Minute), authH.Register)
	auth.Post("/login", middleware.RateLimit(10, time.Minute), authH.Login)
	auth.Post("/refresh", middleware.RateLimit(20, time.Minute), authH.Refresh)
	auth.Post("/logout", authH.Logout)
	auth.Get("/me", authH.Me)

	// Public storefront
	productH := handler.NewProductHandler(productRepo)
	activityH := handler.NewActivityHandler(activityRepo)
	storeH := handler.NewStoreHandler(storeRepo)
	weatherH := handler.NewWeatherHandler(weatherSvc)
	api.Get("/products", productH.List)
	api.Get("/products/:id", productH.Detail)
	api.Get("/activities", activityH.List)
	api.Get("/activities/:id", activityH.Detail)
	api.Get("/stores", storeH.List)
	api.Get("/weather/now", weatherH.Now)
	api.Get("/weather/7d", weatherH.Daily)

	// Customer routes (any authenticated user)
	supportH := handler.NewSupportHandler(supportSvc)
	customer := api.Group("/customer", middleware.Auth(cfg.JWTSecret))
	customer.Get("/conversation", supportH.CustomerConversation)
	customer.Get("/messages", supportH.CustomerMessages)
	customer.Post("/messages", supportH.SendCustomerMessage)

	// Admin routes (staff only)
	admin := api.Group("/admin", middleware.Auth(cfg.JWTSecret), middleware.RequireStaff())

	admin.Get("/customer/conversations", supportH.Conversations)
	admin.Get("/customer/messages/:id", supportH.StaffMessages)
	admin.Post("/customer/messages/:id", supportH.SendStaffMessage)

	admin.Get("/products", productH.AdminList)
	admin.Post("/products", productH.Create)
	admin.Get("/products/:id", productH.Detail)
	admin.Put("/products/:id", productH.Update)
	admin.Delete("/products/:id", productH.Delete)

	admin.Get("/activities", activityH.List)
	admin.Post("/activities", activityH.Create)
	admin.Get("/activities/:id", activityH.AdminDetail)
	admin.Put("/activities/:id", activityH.Update)
	admin.Delete("/activities/:id", activityH.Delete)

	admin.Get("/stores", storeH.AdminList)
	admin.Post("/stores", storeH.Create)
	admin.Put("/stores/:id", storeH.Update)
	admin.Delete("/stores/:id", storeH.Delete)

	userH := handler.NewUserHandler(userRepo, sessionRepo)
	admin.Get("/users", userH.List)
	admin.Post("/users", userH.Create)
	admin.Put("/users/:id", userH.Update)
	admin.Delete("/users/:id", userH.Delete)

	geocodeH := handler.NewGeocodeHandler(geocodeSvc)
	admin.Get("/geocode", geocodeH.Geocode)

	uploadH := handler.NewUploadHandler(uploadSvc)
	admin.Post("/upload-image", uploadH.Image)

	// Expired and revoked refresh tokens pile up; sweep them hourly.
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if err := sessionRepo.CleanupExpired(cleanupCtx); err != nil {
					log.Printf("Refresh token cleanup failed: %v", err)
				}
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("anyue-lemon backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	log.Println("Server stopped")
}
