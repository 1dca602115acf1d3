package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/santegabon/carto-backend/internal/adapters/database"
	"github.com/santegabon/carto-backend/internal/adapters/search"
	"github.com/santegabon/carto-backend/internal/application/services"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/overpass"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/postgres"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/typesense"
	"github.com/santegabon/carto-backend/pkg/config"
)

func main() {
	var (
		province string
		city     string
		save     bool
		actor    string
		interval time.Duration
	)
	flag.StringVar(&province, "province", "", "restrict the pass to one province code (G1-G9)")
	flag.StringVar(&city, "city", "", "restrict the pass to one city")
	flag.BoolVar(&save, "save", false, "persist the normalized batch (requires -actor with the admin role)")
	flag.StringVar(&actor, "actor", "", "actor identity used for the persistence precondition")
	flag.DurationVar(&interval, "interval", 0, "repeat interval (e.g. 6h); zero runs a single pass")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := syncOnce(ctx, province, city, save, actor); err != nil {
			log.Printf("Sync pass failed: %v", err)
			if interval <= 0 {
				os.Exit(1)
			}
		}

		if interval <= 0 {
			break
		}

		log.Printf("Sync pass complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Sync runner shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func syncOnce(ctx context.Context, province, city string, save bool, actor string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	providerRepo := database.NewProviderAdapter(pgClient)
	roleRepo := database.NewRoleAdapter(pgClient)

	var searchRepo repositories.ProviderSearchRepository
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Typesense unavailable, skipping index updates: %v", err)
	} else {
		adapter := search.NewTypesenseAdapter(tsClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	fetcher := overpass.NewClient(&cfg.Overpass)
	syncService := services.NewSyncService(fetcher, providerRepo, roleRepo, searchRepo, nil, nil)

	result, err := syncService.Sync(ctx, services.SyncRequest{
		Province:       province,
		City:           city,
		SaveToDatabase: save,
		ActorID:        actor,
	})
	if err != nil {
		return err
	}

	log.Printf("Run %s: %d providers (dropped %d missing coords, %d out of bounds)",
		result.RunID, result.Count, result.Dropped.MissingCoords, result.Dropped.OutOfBounds)

	if !save {
		// Dry runs print the batch so it can be inspected or piped elsewhere
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result.Providers)
	}

	return nil
}
