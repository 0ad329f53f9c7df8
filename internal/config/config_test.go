package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: wine-shop
  environment: development
logger:
  level: debug
server:
  address: ":9090"
databases:
  mysql:
    address: "127.0.0.1:3306"
    username: wines
    password: secret
    database: wine_shop
    maxOpenConns: 20
embedding:
  openai:
    model: text-embedding-3-large
llm:
  openai:
    apiKeyEnv: SOMMELIER_API_KEY
  temperature: 0.7
sommelier:
  indexPath: /var/lib/wine-shop/index
  topK: 4
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.App.Name != "wine-shop" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Databases.MySQL.Username != "wines" || cfg.Databases.MySQL.MaxOpenConns != 20 {
		t.Errorf("Databases.MySQL = %+v", cfg.Databases.MySQL)
	}
	if cfg.Embedding.OpenAI.Model != "text-embedding-3-large" {
		t.Errorf("Embedding.OpenAI.Model = %q", cfg.Embedding.OpenAI.Model)
	}
	if cfg.LLM.OpenAI.APIKeyEnv != "SOMMELIER_API_KEY" {
		t.Errorf("LLM.OpenAI.APIKeyEnv = %q", cfg.LLM.OpenAI.APIKeyEnv)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("LLM.Temperature = %v", cfg.LLM.Temperature)
	}
	if cfg.Sommelier.IndexPath != "/var/lib/wine-shop/index" || cfg.Sommelier.TopK != 4 {
		t.Errorf("Sommelier = %+v", cfg.Sommelier)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app:\n  name: wine-shop\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "info" {
		t.Errorf("Default Logger.Level = %q", cfg.Logger.Level)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Default Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Embedding.OpenAI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("Default Embedding.OpenAI.APIKeyEnv = %q", cfg.Embedding.OpenAI.APIKeyEnv)
	}
	if cfg.Embedding.OpenAI.Model != "text-embedding-3-small" {
		t.Errorf("Default Embedding.OpenAI.Model = %q", cfg.Embedding.OpenAI.Model)
	}
	if cfg.LLM.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("Default LLM.OpenAI.Model = %q", cfg.LLM.OpenAI.Model)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("Default LLM.Temperature = %v", cfg.LLM.Temperature)
	}
	if cfg.Sommelier.IndexPath != "data/sommelier_index" {
		t.Errorf("Default Sommelier.IndexPath = %q", cfg.Sommelier.IndexPath)
	}
	if cfg.Sommelier.TopK != 10 {
		t.Errorf("Default Sommelier.TopK = %d", cfg.Sommelier.TopK)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected an error for a missing config file")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "app: [unclosed")); err == nil {
		t.Fatal("Expected an error for malformed YAML")
	}
}
