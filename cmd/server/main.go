package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/arjunkashyap/contactbook-backend/internal/config"
	"github.com/arjunkashyap/contactbook-backend/internal/database"
	"github.com/arjunkashyap/contactbook-backend/internal/handlers"
	"github.com/arjunkashyap/contactbook-backend/internal/middleware"
	"github.com/arjunkashyap/contactbook-backend/internal/repository"
	"github.com/arjunkashyap/contactbook-backend/internal/routes"
	"github.com/arjunkashyap/contactbook-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// The signing secret is process-wide configuration; refusing to start
	// without it beats serving tokens anyone can forge.
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set. Generate one with: openssl rand -base64 32")
	}

	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Ensure MongoDB indexes (unique email, contact owner lookups)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := repository.EnsureIndexes(indexCtx, database.DB); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}
	indexCancel()

	// Wire stores, services and handlers
	userRepo := repository.NewUserRepository(database.DB)
	contactRepo := repository.NewContactRepository(database.DB)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(userRepo, tokenService)
	contactService := services.NewContactService(contactRepo)
	authHandler := handlers.NewAuthHandler(userService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, tokenService, authHandler, contactHandler)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/users/register")
	log.Println("  POST   /api/users/login")
	log.Println("  GET    /api/users/current")
	log.Println("  GET    /api/contacts")
	log.Println("  POST   /api/contacts")
	log.Println("  GET    /api/contacts/{id}")
	log.Println("  PUT    /api/contacts/{id}")
	log.Println("  DELETE /api/contacts/{id}")

	log.Printf("🚀 Contactbook backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
