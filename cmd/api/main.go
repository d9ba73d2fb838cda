package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	_ "github.com/MdAyanBadar/mini-auth-project/docs" // Swagger docs (generated)
	"github.com/MdAyanBadar/mini-auth-project/internal/auth"
	"github.com/MdAyanBadar/mini-auth-project/internal/config"
	"github.com/MdAyanBadar/mini-auth-project/internal/database"
	httpServer "github.com/MdAyanBadar/mini-auth-project/internal/http"
	"github.com/MdAyanBadar/mini-auth-project/internal/logging"
	"github.com/MdAyanBadar/mini-auth-project/internal/ticket"
	"github.com/MdAyanBadar/mini-auth-project/internal/user"
)

// @title           Mini Auth API
// @version         1.0
// @description     A ticket-management REST API with password and Google authentication.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := database.Connect(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Create tables on first run
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSchema()
	if err := database.InitSchema(schemaCtx, db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	ticketRepo := ticket.NewRepository(db)

	// Initialize token service
	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	// Initialize Google client (fetches the signing keys up front)
	googleClient, err := auth.NewGoogleClient(
		cfg.Google.ClientID,
		cfg.Google.JWKSURL,
		cfg.Google.TokenInfoURL,
		cfg.Google.Timeout,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize Google client: %w", err)
	}

	// Initialize auth service
	authService := auth.NewService(
		userRepo,
		googleClient,
		jwtService,
		logger,
		cfg.Auth.BcryptCost,
	)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(authService, logger)
	authMiddleware := auth.NewMiddleware(jwtService)
	ticketHandler := ticket.NewHandler(ticketRepo, logger)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, ticketHandler, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received shutdown signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
