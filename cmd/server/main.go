package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"atelier/internal/auth"
	"atelier/internal/config"
	"atelier/internal/handler"
	"atelier/internal/middleware"
	"atelier/internal/service/image"
	"atelier/internal/service/llm"
	"atelier/internal/service/notepad"
	"atelier/internal/store"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_driver", cfg.StoreDriver,
	)

	ctx := context.Background()

	// Document store: local file by default, Postgres blob when configured
	var docStore store.DocumentStore
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := store.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		pg := store.NewPostgresStore(pool, cfg.WorkspaceID, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		docStore = pg
		logger.Info("database connected", "workspace_id", cfg.WorkspaceID)
	default:
		docStore = store.NewFileStore(cfg.DataDir, logger)
	}

	// AI mode registry (embedded YAML)
	modeRegistry, err := notepad.NewModeRegistry()
	if err != nil {
		log.Fatalf("Failed to load mode registry: %v", err)
	}

	// Notepad service owns the document
	notes, err := notepad.NewService(ctx, docStore, modeRegistry, logger)
	if err != nil {
		log.Fatalf("Failed to load workspace document: %v", err)
	}

	// Completion providers
	providerRegistry, err := llm.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup completion providers: %v", err)
	}

	// Collaborator clients
	imageClient := image.NewClient(cfg.ImageAPIURL, cfg.ImageAPIKey)
	authClient := auth.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)

	// JWT verifier: only when an auth service is configured
	var jwtVerifier auth.JWTVerifier
	if cfg.SupabaseURL != "" {
		jwtVerifier, err = auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	} else {
		logger.Warn("no auth service configured, API is open")
	}

	// Handlers
	noteHandler := handler.NewNoteHandler(notes, logger)
	folderHandler := handler.NewFolderHandler(notes, logger)
	assistHandler := handler.NewAssistHandler(notes, providerRegistry, cfg.DefaultModel, logger)
	chatHandler := handler.NewChatHandler(providerRegistry, cfg.DefaultModel, logger)
	imageHandler := handler.NewImageHandler(imageClient, logger)
	authHandler := handler.NewAuthHandler(authClient, logger)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", noteHandler.HealthCheck)

	// Note routes
	mux.HandleFunc("GET /api/notes", noteHandler.ListNotes)
	mux.HandleFunc("POST /api/notes", noteHandler.CreateNote)
	mux.HandleFunc("GET /api/notes/{id}", noteHandler.GetNote)
	mux.HandleFunc("PATCH /api/notes/{id}", noteHandler.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", noteHandler.DeleteNote)
	mux.HandleFunc("POST /api/notes/{id}/activate", noteHandler.ActivateNote)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// AI dock routes
	mux.HandleFunc("POST /api/assist", assistHandler.Assist)
	mux.HandleFunc("GET /api/assist/modes", assistHandler.Modes)

	// Collaborator translation routes
	mux.HandleFunc("POST /api/chat", chatHandler.Chat)
	mux.HandleFunc("POST /api/image", imageHandler.Generate)
	mux.HandleFunc("POST /api/auth/signin", authHandler.SignIn)
	mux.HandleFunc("POST /api/auth/signup", authHandler.SignUp)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Auth → Recovery → Routes, so a recovered panic can log
	// the authenticated user
	h = middleware.Recovery(logger)(h)
	h = middleware.Auth(jwtVerifier)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
