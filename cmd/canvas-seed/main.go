// Package main is the entry point for the canvas-seed CLI tool.
//
// canvas-seed fills a bizcanvas data directory with deterministic demo data:
// personas, value propositions, business models and one default view per
// catalog. The same -seed value always produces the same dataset, which makes
// it useful for demos and reproducible local testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bizcanvas/bizcanvas/internal/storage"
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/git"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "canvas-seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "./data", "Data directory")
	count := flag.Int("n", 25, "Number of records to generate per catalog")
	seed := flag.Uint64("seed", 42, "Random seed; the same seed yields the same dataset")
	commit := flag.Bool("commit", true, "Commit the generated data to the git repository")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}
	if *count <= 0 {
		return fmt.Errorf("-n must be positive, got %d", *count)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	serverCfg, err := storage.LoadServerConfig(*dataDir)
	if err != nil {
		return fmt.Errorf("failed to load server_config.json: %w", err)
	}
	if *count > serverCfg.Quotas.MaxRecordsPerCatalog {
		return fmt.Errorf("-n %d exceeds the per-catalog record quota of %d", *count, serverCfg.Quotas.MaxRecordsPerCatalog)
	}

	repo, err := git.New(*dataDir, "canvas-seed", "canvas-seed@localhost")
	if err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}

	catalogService, err := catalog.NewService(*dataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog service: %w", err)
	}

	viewService, err := viewstore.NewService(*dataDir, serverCfg.Quotas.MaxViewsPerSource)
	if err != nil {
		return fmt.Errorf("failed to initialize view service: %w", err)
	}

	if err := catalog.Seed(catalogService, *count, *seed); err != nil {
		return fmt.Errorf("failed to seed catalogs: %w", err)
	}
	if err := catalog.SeedViews(viewService); err != nil {
		return fmt.Errorf("failed to seed views: %w", err)
	}

	if *commit {
		author := git.Author{Name: "canvas-seed", Email: "canvas-seed@localhost"}
		msg := fmt.Sprintf("Seed %d records per catalog (seed=%d)", *count, *seed)
		if err := repo.CommitAll(ctx, author, msg); err != nil {
			return fmt.Errorf("failed to commit seeded data: %w", err)
		}
	}

	counts := catalogService.Counts()
	fmt.Printf("Seeded %s:\n", *dataDir)
	fmt.Printf("  personas:           %d\n", counts["personas"])
	fmt.Printf("  value propositions: %d\n", counts["value-propositions"])
	fmt.Printf("  business models:    %d\n", counts["business-models"])
	fmt.Printf("  views:              %d\n", len(viewService.List()))
	return nil
}
