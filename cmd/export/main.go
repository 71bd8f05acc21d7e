package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caterbazar/caterbazar-console/config"
	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	"github.com/caterbazar/caterbazar-console/internal/export"
	"github.com/caterbazar/caterbazar-console/internal/session"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
)

func main() {
	// Parse command-line flags
	token := flag.String("token", os.Getenv("CATERBAZAR_ADMIN_TOKEN"), "Admin bearer token (defaults to $CATERBAZAR_ADMIN_TOKEN)")
	status := flag.String("status", "", "Only export registrations in this status (pending, approved, rejected, resubmission_required)")
	search := flag.String("search", "", "Free-text filter passed to the upstream search")
	output := flag.String("output", "", "Output file (defaults to registrations-<timestamp>.xlsx)")
	flag.Parse()

	if *token == "" {
		log.Fatal("An admin token is required: pass -token or set CATERBAZAR_ADMIN_TOKEN")
	}
	if *status != "" && !model.RegistrationStatus(*status).IsValid() {
		log.Fatalf("Unknown status %q", *status)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "caterbazar-export"})

	notifier := session.NewNotifier()
	notifier.Subscribe(func(ev session.ExpiredEvent) {
		logger.Warn("Admin token rejected by the marketplace; sign in again for a fresh token", map[string]interface{}{
			"endpoint": ev.Endpoint,
		})
	})

	client, err := caterbazar.NewClient(caterbazar.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout,
		UserAgent: "caterbazar-export",
	}, notifier)
	if err != nil {
		log.Fatalf("Failed to create upstream client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := caterbazar.RegistrationListQuery{Status: model.RegistrationStatus(*status), Search: *search}
	fmt.Printf("Collecting registrations from %s\n", cfg.Upstream.BaseURL)
	regs, err := export.Collect(ctx, client, *token, query)
	if err != nil {
		log.Fatalf("Failed to collect registrations: %v", err)
	}
	fmt.Printf("Total registrations to export: %d\n", len(regs))

	path := *output
	if path == "" {
		path = export.Filename(time.Now())
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	if err := export.WriteRegistrations(f, regs); err != nil {
		f.Close()
		log.Fatalf("Failed to write workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close %s: %v", path, err)
	}

	fmt.Printf("Wrote %s\n", path)
}
