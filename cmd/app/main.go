package main

import (
	"context"
	"log"
	"os"

	cliAdapter "forestry-finance/internal/adapters/cli"
	"forestry-finance/internal/ai"
	"forestry-finance/internal/app"
	"forestry-finance/internal/core"
	"forestry-finance/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: app <settlement|export|invoice|variance|extract|reconcile> ...")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	fetchService := core.NewFetchService(pool)
	mappingService := core.NewMappingService(pool)
	settlementService := core.NewSettlementService(fetchService, mappingService)
	reconcileService := core.NewReconcileService(pool)
	archiveService := core.NewArchiveService(pool)
	entryService := core.NewEntryService(pool)
	varianceService := core.NewVarianceService(pool)
	userService := core.NewUserService(pool)

	var extractor ai.ExtractorService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		extractor = ai.NewExtractor(apiKey)
	} else {
		extractor = ai.NewMockExtractor()
	}

	svc := app.NewAppService(pool, fetchService, mappingService, settlementService,
		reconcileService, archiveService, entryService, varianceService, userService, extractor)

	cliAdapter.Run(ctx, svc, os.Args[1:])
}
