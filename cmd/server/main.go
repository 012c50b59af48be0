package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "forestry-finance/internal/adapters/web"
	"forestry-finance/internal/ai"
	"forestry-finance/internal/app"
	"forestry-finance/internal/core"
	"forestry-finance/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
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
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, using mock extraction")
		extractor = ai.NewMockExtractor()
	} else {
		extractor = ai.NewExtractor(apiKey)
	}

	svc := app.NewAppService(pool, fetchService, mappingService, settlementService,
		reconcileService, archiveService, entryService, varianceService, userService, extractor)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, jwtSecret, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
