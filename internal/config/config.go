package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port                 int               `json:"port"`
	LogConfig            logger.LogConfig  `json:"log_config"`
	Database             DatabaseConfig    `json:"database"`
	VectorStore          VectorStoreConfig `json:"vector_store"`
	AI                   AIConfig          `json:"ai"`
	FileStore            FileStoreConfig   `json:"file_store"`
	StoreTimeoutSec      int               `json:"store_timeout_sec"`
	RetrievalTopK        int               `json:"retrieval_top_k"`
	UploadMaxBytes       int64             `json:"upload_max_bytes"`
	EmbedCacheMaxAgeDays int               `json:"embed_cache_max_age_days"`
	RateLimitWindowMS    int               `json:"rate_limit_window_ms"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type VectorStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Data          interface{} `json:"data"`
	Model         string      `json:"model"`
	EmbedModel    string      `json:"embed_model"`
	TimeoutSec    int         `json:"timeout_sec"`
	MaxInputChars int         `json:"max_input_chars"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "pgvector"
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.AI.TimeoutSec == 0 {
		cfg.AI.TimeoutSec = 60
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.StoreTimeoutSec == 0 {
		cfg.StoreTimeoutSec = 10
	}
	if cfg.RetrievalTopK == 0 {
		cfg.RetrievalTopK = 1
	}
	if cfg.UploadMaxBytes == 0 {
		cfg.UploadMaxBytes = 20 * 1024 * 1024
	}
	if cfg.EmbedCacheMaxAgeDays == 0 {
		cfg.EmbedCacheMaxAgeDays = 30
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		if cfg.FileStore.Data == nil {
			cfg.FileStore.Data = map[string]interface{}{"dir": "./uploads"}
		}
	}
	return &cfg, nil
}
