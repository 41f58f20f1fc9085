package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketscan/internal/api"
	"marketscan/internal/config"
	"marketscan/internal/database"
	"marketscan/internal/services"
	"marketscan/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	// Initialize services
	justTCG := services.NewJustTCGService(cfg.JustTCGAPIKey, cfg.JustTCGDailyLimit)
	tcgdex := services.NewTCGdexService()

	store := storage.NewGormStore(db)
	history := services.NewHistoryTracker(store)
	manager := services.NewCollectionManager(store, tcgdex, history)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Record every user's total once per day so the trend advances even on
	// idle days.
	snapshots := services.NewSnapshotWorker(manager, history, func(ctx context.Context) ([]string, error) {
		users, err := database.GetUsers(db)
		if err != nil {
			return nil, err
		}
		emails := make([]string, 0, len(users))
		for _, u := range users {
			emails = append(emails, u.Email)
		}
		return emails, nil
	})
	go snapshots.Start(ctx)

	// Setup router
	router := api.SetupRouter(cfg, db, justTCG, tcgdex, manager, history)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
