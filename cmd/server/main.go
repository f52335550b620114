package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"go-matchchat/internal/auth"
	"go-matchchat/internal/chat"
	"go-matchchat/internal/config"
	"go-matchchat/internal/db"
	"go-matchchat/internal/match"
	"go-matchchat/internal/user"
)

func main() {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	// 2. Connect to Database (Platform Layer)
	database, err := db.NewDatabase(cfg.DSN)
	if err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database Schema Initialized")

	// 3. Connect to Redis (Platform Layer)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// 4. Sessions: one provider shared by the HTTP layer and the websocket
	// handshake.
	sessions := auth.NewJWTProvider(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(sessions)

	// 5. User Feature
	userRepo := user.NewRepository(database.Conn)
	userService := user.NewService(userRepo, sessions)
	userHandler := user.NewHandler(userService)

	// 6. Match Feature
	matchRepo := match.NewRepository(database.Conn)
	matchService := match.NewService(matchRepo)
	matchHandler := match.NewHandler(matchService)

	// 7. Chat Feature
	chatRepo := chat.NewRepository(database.Conn)
	hub := chat.NewHub(chat.NewRedisBus(redisClient))
	chatService := chat.NewService(chatRepo, matchService, hub)
	chatHandler := chat.NewHandler(hub, chatService, sessions)

	// Start the Hub Engines
	go hub.Run()
	go hub.SubscribeToBus(context.Background())

	// 8. Routes
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public Routes
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.With(authMiddleware.Optional).Get("/api/user", userHandler.Me)
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"Server is running"}`))
	})

	// WebSocket: anonymous connections are accepted and stay no-op, so the
	// handshake resolves its own token instead of going through Require.
	r.Get("/ws", chatHandler.ServeWs)

	// Protected Routes (Require JWT)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Require)
		r.Get("/api/users", matchHandler.Candidates)
		r.Post("/api/match", matchHandler.Create)
		r.Get("/api/matches", matchHandler.List)
		r.Get("/api/messages/{peerID}", chatHandler.History)
	})

	log.Printf("🚀 Server starting on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
