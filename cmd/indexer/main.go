package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/philippweder/wine-shop/internal/catalog"
	"github.com/philippweder/wine-shop/internal/config"
	"github.com/philippweder/wine-shop/internal/database/mysql"
	"github.com/philippweder/wine-shop/internal/embedding"
	"github.com/philippweder/wine-shop/internal/models"
	"github.com/philippweder/wine-shop/internal/sommelier/pipeline"
	"github.com/philippweder/wine-shop/pkg/logger"
)

// The indexer rebuilds the sommelier vector index from the catalog and exits.
// It is safe to re-run at any time: a run only replaces the persisted index
// after the new one is fully built, and an empty catalog leaves the previous
// index untouched.
func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("indexer")
	appLogger.Info("Starting sommelier indexer...")

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to connect to MySQL: %v", err))
	}
	defer mysql.Close()

	if err := db.AutoMigrate(&models.Wine{}); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to migrate database schema: %v", err))
	}

	embedder, err := embedding.NewOpenAIModel(os.Getenv(cfg.Embedding.OpenAI.APIKeyEnv), cfg.Embedding.OpenAI.Model)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create embedding client: %v", err))
	}

	store := catalog.NewStore(db)
	indexing := pipeline.NewIndexingPipeline(store, embedder, cfg.Sommelier.IndexPath, appLogger)

	if err := indexing.Run(context.Background()); err != nil {
		if errors.Is(err, pipeline.ErrNoData) {
			appLogger.Warn("Catalog is empty; existing index (if any) was left in place")
			return
		}
		appLogger.Fatal(fmt.Sprintf("Indexing failed: %v", err))
	}

	appLogger.Info(fmt.Sprintf("Index written to %s", cfg.Sommelier.IndexPath))
}
