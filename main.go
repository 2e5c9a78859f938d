package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaot623/gogo/guruchat/internal/adapter/llm"
	"github.com/xiaot623/gogo/guruchat/internal/config"
	"github.com/xiaot623/gogo/guruchat/internal/repository"
	"github.com/xiaot623/gogo/guruchat/internal/seed"
	"github.com/xiaot623/gogo/guruchat/internal/service"
	server "github.com/xiaot623/gogo/guruchat/internal/transport/http"
	"github.com/xiaot623/gogo/guruchat/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.LogLevel == "debug" {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	log.Printf("Starting guruchat...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Character data: %s", cfg.CharacterDataDir)
	log.Printf("OpenAI base URL: %s", cfg.OpenAIBaseURL)

	// Initialize store
	db, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Seed the character catalog
	res, err := seed.Characters(ctx, db, cfg.CharacterDataDir)
	if err != nil {
		log.Printf("ERROR: character seeding failed: %v", err)
	} else {
		log.Printf("Characters seeded: %d added, %d updated, %d skipped", res.Created, res.Updated, res.Skipped)
	}

	// Initialize generator
	generator := llm.NewGenerator(cfg)

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service and server
	svc := service.New(db, generator, cfg, policyEngine)
	e := server.NewServer(cfg, svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down guruchat...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("guruchat stopped")
}
