package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utaweb/social-backend/internal/auth"
	"github.com/utaweb/social-backend/internal/comments"
	"github.com/utaweb/social-backend/internal/config"
	"github.com/utaweb/social-backend/internal/enrich"
	"github.com/utaweb/social-backend/internal/middleware"
	"github.com/utaweb/social-backend/internal/posts"
	"github.com/utaweb/social-backend/internal/reactions"
	"github.com/utaweb/social-backend/internal/store"
	"github.com/utaweb/social-backend/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	userStore := store.NewPostgresStore(pgPool)
	if err := userStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}
	postStore := store.NewPostStore(mongoDB)
	commentStore := store.NewCommentStore(mongoDB)
	reactionStore := store.NewReactionStore(mongoDB)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	tokens := auth.NewTokenStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	blobStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	enricher := enrich.New(userStore, commentStore, reactionStore)
	authHandler := auth.NewHandler(userStore, tokens)
	userHandler := users.NewHandler(userStore, postStore, blobStore, enricher)
	postHandler := posts.NewHandler(postStore, blobStore, enricher)
	commentHandler := comments.NewHandler(commentStore, enricher)
	reactionHandler := reactions.NewHandler(reactionStore, enricher)

	requireAuth := middleware.RequireAuth(tokens)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(requireAuth).Get("/me", authHandler.Me)
		r.With(requireAuth).Post("/profile-picture", userHandler.UploadProfilePicture)
		r.Get("/profile-picture/{fileID}", userHandler.GetProfilePicture)
		r.Get("/{id}", userHandler.Get)
		r.With(requireAuth).Get("/{id}/posts", userHandler.Posts)
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/file/{fileID}", postHandler.GetFile)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.Create)
			r.Get("/", postHandler.List)
			r.Get("/{id}", postHandler.Get)
			r.Delete("/{id}", postHandler.Delete)
		})
	})

	r.Route("/api/comments", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", commentHandler.Create)
		r.Get("/post/{postID}", commentHandler.ListByPost)
		r.Delete("/{id}", commentHandler.Delete)
	})

	r.Route("/api/reactions", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", reactionHandler.Create)
		r.Delete("/{postID}", reactionHandler.Delete)
		r.Get("/post/{postID}", reactionHandler.ListByPost)
		r.Get("/post/{postID}/counts", reactionHandler.Counts)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
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
