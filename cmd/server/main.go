package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/philippweder/wine-shop/internal/catalog"
	catalogapi "github.com/philippweder/wine-shop/internal/catalog/api"
	"github.com/philippweder/wine-shop/internal/config"
	"github.com/philippweder/wine-shop/internal/database/mysql"
	"github.com/philippweder/wine-shop/internal/embedding"
	"github.com/philippweder/wine-shop/internal/llm"
	"github.com/philippweder/wine-shop/internal/models"
	sommelierapi "github.com/philippweder/wine-shop/internal/sommelier/api"
	"github.com/philippweder/wine-shop/internal/sommelier/service"
	"github.com/philippweder/wine-shop/pkg/logger"
)

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
	appLogger := logger.New("server")
	appLogger.Info("Starting wine shop server...")

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to connect to MySQL: %v", err))
	}
	defer mysql.Close()

	if err := db.AutoMigrate(&models.Wine{}); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to migrate database schema: %v", err))
	}

	store := catalog.NewStore(db)

	embedder, err := embedding.NewOpenAIModel(os.Getenv(cfg.Embedding.OpenAI.APIKeyEnv), cfg.Embedding.OpenAI.Model)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create embedding client: %v", err))
	}

	// The generator is built lazily by the sommelier service so a missing LLM
	// credential degrades the sommelier endpoint instead of the whole server.
	newGenerator := func() (llm.LLM, error) {
		return llm.NewOpenAI(os.Getenv(cfg.LLM.OpenAI.APIKeyEnv), cfg.LLM.OpenAI.Model, cfg.LLM.Temperature)
	}
	sommelier := service.New(embedder, newGenerator, cfg.Sommelier.IndexPath, cfg.Sommelier.TopK, logger.New("sommelier"))

	if err := sommelier.Warmup(); err != nil {
		appLogger.Warn(fmt.Sprintf("Sommelier warm-up failed, first query will retry: %v", err))
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		if err := mysql.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api/v1")
	catalogapi.NewHandler(store).RegisterRoutes(api)
	sommelierapi.NewHandler(sommelier).RegisterRoutes(api)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening at %s", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(fmt.Sprintf("Failed to serve HTTP: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Server shutdown failed: %v", err))
	}
	appLogger.Info("Server stopped")
}
