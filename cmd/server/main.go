package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/compspread/comps-backend/internal/analysis"
	"github.com/compspread/comps-backend/internal/api"
	"github.com/compspread/comps-backend/internal/config"
	"github.com/compspread/comps-backend/internal/db"
	"github.com/compspread/comps-backend/internal/external"
	"github.com/compspread/comps-backend/internal/llm"
)

const banner = `
╔══════════════════════════════════════╗
║     Comps Spreader API v1.0          ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database (optional: only backs project storage)
	var pool *pgxpool.Pool
	if cfg.ProjectsEnabled() {
		fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err = db.Connect(cfg.DSN())
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			pool.Close()
			fmt.Println("[DB] Connection pool closed")
		}()
	}

	// LLM (optional: regex extraction and no chat without it)
	var extractor analysis.TickerExtractor
	var chat api.ChatModel
	if cfg.GeminiAPIKey != "" {
		client, err := llm.New(ctx, cfg.GeminiAPIKey, cfg.LLMExtractModel, cfg.LLMChatModel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[LLM] Init failed: %v — continuing with regex extraction\n", err)
		} else {
			extractor = client
			chat = client
			fmt.Println("[LLM] Gemini client initialized")
		}
	}

	// Market data + analysis pipeline
	yahoo := external.NewYahooClient(external.YahooOptions{
		CacheTTL: time.Duration(cfg.QuoteCacheMinutes) * time.Minute,
	})
	analyzer := analysis.NewService(extractor, yahoo, cfg.MaxTickers)

	srv := api.NewServer(pool, analyzer, chat, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
