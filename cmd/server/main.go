package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/garnizeh/neighborly/api"
	dbfs "github.com/garnizeh/neighborly/db"
	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/internal/config"
	"github.com/garnizeh/neighborly/internal/db"
	"github.com/garnizeh/neighborly/internal/repository/sqlite"
	"github.com/garnizeh/neighborly/internal/store"
	"github.com/garnizeh/neighborly/pkg/models"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// Optional .env for local development; env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	log.Printf("Starting Neighborly server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}

	if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users, err := loadSeedUsers()
	if err != nil {
		log.Fatalf("Failed to load seed users: %v", err)
	}

	repo := sqlite.New(conn, logger)

	// The store reads the board through a closure so the two can be built in
	// either order; nothing flushes before the board exists.
	var b *board.Board
	st := store.New(repo, func() models.Snapshot { return b.Snapshot() }, logger,
		store.WithDebounce(cfg.SaveDebounce))
	b = board.New(users,
		board.WithLogger(logger),
		board.WithDirtyFunc(st.MarkDirty))

	snap, err := st.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	if snap != nil {
		b.Restore(snap)
	}
	for userID, blocked := range st.LoadBlocks(ctx) {
		for _, target := range blocked {
			b.Block(userID, target)
		}
	}

	// Background sweeps
	sched := cron.New()
	if _, err := sched.AddFunc("@every 10m", func() { st.SweepAvailability(ctx) }); err != nil {
		log.Fatalf("Failed to schedule availability sweep: %v", err)
	}
	if _, err := sched.AddFunc("@midnight", b.RollReplyBuckets); err != nil {
		log.Fatalf("Failed to schedule reply bucket roll: %v", err)
	}
	sched.Start()

	handler := api.SetupRoutes(cfg, version, buildTime, b, st)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	<-sched.Stop().Done()

	// Flush the last debounce window before the database goes away.
	st.Close()

	// Close database connection
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}

func loadSeedUsers() ([]models.User, error) {
	raw, err := dbfs.SeedFiles.ReadFile("seed/users.json")
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, err
	}
	return users, nil
}
