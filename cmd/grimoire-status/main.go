// Package main is the entry point for the Grimoire Status server
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tiarrablandin/grimoire-status/internal/checker"
	"github.com/tiarrablandin/grimoire-status/internal/config"
	"github.com/tiarrablandin/grimoire-status/internal/database"
	"github.com/tiarrablandin/grimoire-status/internal/logging"
	"github.com/tiarrablandin/grimoire-status/internal/scheduler"
	"github.com/tiarrablandin/grimoire-status/internal/server"
	"github.com/tiarrablandin/grimoire-status/internal/status"
	"github.com/tiarrablandin/grimoire-status/internal/targets"
	"github.com/tiarrablandin/grimoire-status/internal/telemetry"
	"github.com/tiarrablandin/grimoire-status/internal/version"
)

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, especially in production
		if os.Getenv("DEBUG") == "true" {
			log.Printf("No .env file found or error loading it: %v", err)
		}
	}

	// Handle version flag first, before loading configuration
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version" || os.Args[1] == "version") {
		versionInfo := version.Get()
		fmt.Printf("grimoire-status version %s\n", versionInfo.Version)
		fmt.Printf("  commit: %s\n", versionInfo.Commit)
		fmt.Printf("  built: %s\n", versionInfo.BuildDate)
		fmt.Printf("  go: %s\n", versionInfo.GoVersion)
		fmt.Printf("  platform: %s\n", versionInfo.Platform)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize file logging ONLY in development mode
	isDevelopment := os.Getenv("GRIMOIRE_ENV") == "development" || os.Getenv("DEBUG") == "true"

	if isDevelopment {
		logDir := "./logs"
		if err := logging.Initialize(logDir); err != nil {
			log.Printf("Warning: Failed to initialize file logging: %v", err)
			// Continue with standard logging to stdout
		} else {
			defer logging.Close()
			log.Printf("Development logging initialized to %s", logDir)
		}
	} else {
		// In production, just use stdout (captured by systemd/Docker/etc)
		log.Printf("Running in production mode - logging to stdout only")
	}

	versionInfo := version.Get()

	// Initialize telemetry
	ctx := context.Background()
	shutdown, err := telemetry.InitializeFromEnv(ctx, versionInfo.Version)
	if err != nil {
		log.Printf("Warning: Failed to initialize telemetry: %v", err)
		// Continue without telemetry
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	// Initialize database
	if err := database.Initialize(cfg.DatabasePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Load extra monitor targets, if configured
	extra, err := targets.Load(cfg.TargetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load targets file: %v\n", err)
		os.Exit(1)
	}

	chk := checker.New(cfg.CheckTimeout)
	tracker := status.NewTracker()

	srv, err := server.New(cfg, versionInfo, chk, tracker, extra)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	sched := scheduler.New(cfg, chk, tracker, extra, srv.BroadcastResult, srv.BroadcastVitals)
	if err := sched.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start scheduler: %v\n", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Shut down cleanly on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received %s, shutting down", sig)
		srv.Shutdown()
	}()

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
