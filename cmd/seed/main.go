package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/philippweder/wine-shop/internal/catalog"
	"github.com/philippweder/wine-shop/internal/config"
	"github.com/philippweder/wine-shop/internal/database/mysql"
	"github.com/philippweder/wine-shop/internal/models"
	"github.com/philippweder/wine-shop/pkg/logger"
)

// The seed command loads wine records from a JSON file into the catalog. It
// can be re-run: records whose name is already present are skipped.
func main() {
	_ = godotenv.Load()

	var cfgPath, dataPath string
	flag.StringVar(&cfgPath, "config", "config/config.yaml", "path to the YAML config file")
	flag.StringVar(&dataPath, "data", "data/sample_wines.json", "path to the JSON file with wine records")
	flag.Parse()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("seed")

	data, err := os.ReadFile(dataPath)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to read seed file %s: %v", dataPath, err))
	}
	var wines []models.Wine
	if err := json.Unmarshal(data, &wines); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to parse seed file %s: %v", dataPath, err))
	}

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to connect to MySQL: %v", err))
	}
	defer mysql.Close()

	if err := db.AutoMigrate(&models.Wine{}); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to migrate database schema: %v", err))
	}

	store := catalog.NewStore(db)
	ctx := context.Background()

	created, skipped := 0, 0
	for i := range wines {
		wine := wines[i]
		wine.ID = 0
		exists, err := store.ExistsByName(ctx, wine.Name)
		if err != nil {
			appLogger.Fatal(fmt.Sprintf("Failed to check for existing wine %q: %v", wine.Name, err))
		}
		if exists {
			skipped++
			continue
		}
		if err := store.Create(ctx, &wine); err != nil {
			appLogger.Fatal(fmt.Sprintf("Failed to create wine %q: %v", wine.Name, err))
		}
		created++
	}

	appLogger.WithPayload(map[string]interface{}{
		"created": created,
		"skipped": skipped,
	}).Info("Seeding finished")
}
