package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"todolist/internal/auth"
	"todolist/internal/config"
	"todolist/internal/middleware"
	"todolist/internal/store"
	"todolist/internal/todo"
	"todolist/internal/web"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	users := store.NewPostgresStore(pgPool)
	if err := users.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	if err := mongoClient.Ping(pingCtx, readpref.Primary()); err != nil {
		cancelPing()
		log.Fatalf("mongo ping: %v", err)
	}
	cancelPing()
	todos := store.NewTodoStore(mongoClient.Database(cfg.MongoDB))
	if err := todos.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewRedisSessions(rdb)

	// ── MinIO ────────────────────────────────────────────────
	exports, err := store.NewExportStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Views ────────────────────────────────────────────────
	views, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(users, sessions, views)
	todoHandler := todo.NewHandler(todo.NewService(todos), exports, views)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithResponseMode)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Root redirect
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	// Auth routes: only for callers without a session
	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfAuthenticated(sessions))
		r.Get("/login", authHandler.GetLogin)
		r.Get("/register", authHandler.GetRegister)
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
	})
	r.Post("/logout", authHandler.Logout)

	// Task routes (protected)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Get("/todos", todoHandler.GetTodos)
		r.Post("/todos", todoHandler.Create)
		r.Post("/todos/{id}/toggle", todoHandler.Toggle)
		r.Post("/todos/{id}/edit", todoHandler.Update)
		r.Post("/todos/{id}/delete", todoHandler.Delete)
		r.Get("/api/todos", todoHandler.ListAPI)
		r.Post("/api/todos/export", todoHandler.Export)
		r.Get("/api/todos/export", todoHandler.DownloadExport)
		r.Post("/api/todos/export/delete", todoHandler.DeleteExport)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("todolist listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
