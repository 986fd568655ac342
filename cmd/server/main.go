/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the front-desk engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Open the SQLite state store
  3. Load the front-desk state (seeding default rooms on first run)
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

CONFIGURATION:
  -port     HTTP server port (default: 8080, env FRONTDESK_PORT)
  -db       SQLite database path (default: frontdesk.db, env FRONTDESK_DB)
            Use ":memory:" for an in-memory database
  -uploads  Directory for customer ID images (default: ID_img,
            env FRONTDESK_UPLOAD_DIR)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/frontdesk.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/frontdesk/api"
	"github.com/warp/frontdesk/hotel"
	"github.com/warp/frontdesk/store/sqlite"
)

func main() {
	// .env is optional; flags take their defaults from it when present.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	port := flag.Int("port", envInt("FRONTDESK_PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("FRONTDESK_DB", "frontdesk.db"), "SQLite database path")
	uploadDir := flag.String("uploads", envStr("FRONTDESK_UPLOAD_DIR", "ID_img"), "Customer ID image directory")
	flag.Parse()

	// Initialize store
	kv, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer kv.Close()

	// Load state (seeds default rooms on first run)
	state, err := hotel.Open(context.Background(), kv)
	if err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	// Wire handlers and router
	handler := api.NewHandler(state, *uploadDir)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Front desk serving on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
