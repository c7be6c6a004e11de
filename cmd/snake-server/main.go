// Package main implements the snake game API server: signup/login, score
// submission, the top-10 leaderboard, and the heartbeat-driven spectator feed.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snake/cmd/snake-server/cli"
	"snake/internal/server/http"
	"snake/internal/server/service"
	"snake/internal/server/storage"
)

const gracefulShutdownTimeout = time.Second * 5

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	// Command-line flags
	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, fixed JWT secret)")
		storagePath = flag.String("storage-path", "snake.db", "Path to SQLite database file")
		seedPath    = flag.String("seed-path", "init_db.sql", "Seed script executed on first startup when no users exist")
		tokenTTL    = flag.Duration("token-ttl", service.AccessTokenTTL, "Bearer token lifetime")
		presence    = flag.Duration("presence-window", service.DefaultPresenceWindow, "Heartbeat recency threshold for the active-games feed")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	// Validate PID flags
	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	// Manage PID file if requested
	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Initialize storage and schema
	log.Printf("Initializing persistent storage at: %s", *storagePath)
	store, err := storage.NewStore(*storagePath, *dev)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if err := store.InitDB(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// 2. Seed on first startup only. Best-effort: a missing or broken seed
	// script leaves the store empty, it never stops the server.
	seedIfEmpty(store, *seedPath)

	// JWT secret management
	var jwtSecret []byte
	if *dev {
		// Fixed secret in dev mode for testing consistency
		jwtSecret = []byte("dev-secret-minimum-32-characters-long")
		log.Printf("Using fixed JWT secret (dev mode)")
	} else {
		// Generate cryptographically secure secret
		jwtSecret = make([]byte, 32)
		if _, err := rand.Read(jwtSecret); err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		log.Printf("JWT secret generated (tokens valid until restart)")
	}

	// 3. Initialize the service with policy overrides
	svc := service.New(store, jwtSecret)
	svc.SetTokenTTL(*tokenTTL)
	svc.SetPresenceWindow(*presence)

	// 4. Initialize the Fiber app
	app := http.NewFiberApp(svc, *dev)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	// Start API server in a goroutine
	go func() {
		log.Printf("Snake Game API starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		log.Printf("Authentication: Enabled (JWT, token TTL %s)", *tokenTTL)
		log.Printf("Presence window: %s", svc.PresenceWindow())
		log.Printf("Storage: %s", *storagePath)
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		log.Printf("Auth Endpoints: http://%s/auth/[signup|login]", apiAddr)
		log.Printf("Game Endpoints: http://%s/[scores|leaderboard|games/active|session/heartbeat]", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err = svc.Shutdown(); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	log.Println("Server exited")
}

// seedIfEmpty loads the seed script when the user table is empty. Failures
// are logged and swallowed; the service continues with an empty store.
func seedIfEmpty(store *storage.Store, seedPath string) {
	seeded, err := store.SeedIfEmpty(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: seed script %s not found, skipping seeding", seedPath)
		} else {
			log.Printf("Warning: seeding failed, continuing with empty store: %v", err)
		}
		return
	}
	if seeded {
		log.Printf("Database seeded from %s", seedPath)
	}
}
