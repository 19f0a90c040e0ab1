package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"recipe-recommender/internal/pkg/common"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Generation  GenerationConfig `mapstructure:"generation"`
	Embedding   EmbeddingConfig  `mapstructure:"embedding"`
	Corpus      CorpusConfig     `mapstructure:"corpus"`
	Recommend   RecommendConfig  `mapstructure:"recommend"`
	Inventory   InventoryConfig  `mapstructure:"inventory"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
	LogDir      string           `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// GenerationConfig 文字生成模型設定
type GenerationConfig struct {
	Provider    string        `mapstructure:"provider"` // openrouter | huggingface
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig 句向量模型設定
type EmbeddingConfig struct {
	Provider  string        `mapstructure:"provider"` // tei | ollama
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	Dimension int           `mapstructure:"dimension"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CorpusConfig 食譜語料庫設定
type CorpusConfig struct {
	Backend      string `mapstructure:"backend"` // file | pgvector
	IndexPath    string `mapstructure:"index_path"`
	MetadataPath string `mapstructure:"metadata_path"`
	DatabaseURL  string `mapstructure:"database_url"`
	Table        string `mapstructure:"table"`
	SearchShards int    `mapstructure:"search_shards"`
}

// ScoreWeights 候選評分權重
type ScoreWeights struct {
	Ingredient float64 `mapstructure:"ingredient"`
	Preference float64 `mapstructure:"preference"`
	Similarity float64 `mapstructure:"similarity"`
}

// RecommendConfig 推薦流程設定
type RecommendConfig struct {
	TopK      int          `mapstructure:"top_k"`
	Weights   ScoreWeights `mapstructure:"weights"`
	NoteWidth int          `mapstructure:"note_width"`
}

// InventoryConfig 冰箱庫存設定
type InventoryConfig struct {
	Backend string `mapstructure:"backend"` // memory | redis
	Key     string `mapstructure:"key"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"` // memory | redis
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// QueueConfig 生成請求併發設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時僅使用環境變數與預設值
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"generation.provider":   "GENERATION_PROVIDER",
		"generation.model":      "GENERATION_MODEL",
		"generation.max_tokens": "MODEL_MAX_TOKENS",
		"embedding.base_url":    "EMBEDDING_URL",
		"embedding.model":       "EMBEDDING_MODEL",
		"corpus.backend":        "CORPUS_BACKEND",
		"corpus.index_path":     "CORPUS_INDEX_PATH",
		"corpus.metadata_path":  "CORPUS_METADATA_PATH",
		"corpus.database_url":   "DATABASE_URL",
		"inventory.backend":     "INVENTORY_BACKEND",
		"redis.addr":            "REDIS_ADDR",
		"redis.password":        "REDIS_PASSWORD",
		"cache.enabled":         "CACHE_ENABLED",
		"cache.backend":         "CACHE_BACKEND",
		"rate_limit.enabled":    "RATE_LIMIT_ENABLED",
		"rate_limit.requests":   "RATE_LIMIT_REQUESTS",
		"rate_limit.window":     "RATE_LIMIT_WINDOW",
		"dedup_window":          "DEDUP_WINDOW",
		"log_level":             "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	// 金鑰依提供者從不同環境變數讀取
	if err := v.BindEnv("generation.api_key", "GENERATION_API_KEY", "OPENROUTER_API_KEY", "HF_API_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind generation api key: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"generation_provider:", v.GetString("generation.provider"),
		"generation_model:", v.GetString("generation.model"),
		"generation_api_key:", common.MaskSecret(v.GetString("generation.api_key")),
	)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-recommender")

	// 伺服器設定
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 生成模型設定
	v.SetDefault("generation.provider", "huggingface")
	v.SetDefault("generation.model", "mistralai/Mistral-7B-Instruct-v0.1")
	v.SetDefault("generation.max_tokens", 1000)
	v.SetDefault("generation.temperature", 0.1)
	v.SetDefault("generation.timeout", "90s")

	// 句向量設定
	v.SetDefault("embedding.provider", "tei")
	v.SetDefault("embedding.base_url", "http://localhost:8080")
	v.SetDefault("embedding.model", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("embedding.dimension", 384)
	v.SetDefault("embedding.timeout", "30s")

	// 語料庫設定
	v.SetDefault("corpus.backend", "file")
	v.SetDefault("corpus.index_path", "data/recipes.fvecs")
	v.SetDefault("corpus.metadata_path", "data/recipes.csv")
	v.SetDefault("corpus.table", "recipes")
	v.SetDefault("corpus.search_shards", 4)

	// 推薦設定
	v.SetDefault("recommend.top_k", 5)
	v.SetDefault("recommend.weights.ingredient", 0.5)
	v.SetDefault("recommend.weights.preference", 0.3)
	v.SetDefault("recommend.weights.similarity", 0.2)
	v.SetDefault("recommend.note_width", 90)

	// 庫存設定
	v.SetDefault("inventory.backend", "memory")
	v.SetDefault("inventory.key", "fridge:inventory")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 隊列設定
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Generation.Provider {
	case "openrouter", "huggingface":
	default:
		return fmt.Errorf("unsupported generation provider %q", config.Generation.Provider)
	}
	if config.Generation.MaxTokens <= 0 {
		return fmt.Errorf("invalid generation max tokens")
	}
	if config.Generation.Temperature < 0 || config.Generation.Temperature > 2 {
		return fmt.Errorf("generation temperature must be within [0, 2]")
	}

	switch config.Embedding.Provider {
	case "tei", "ollama":
	default:
		return fmt.Errorf("unsupported embedding provider %q", config.Embedding.Provider)
	}

	switch config.Corpus.Backend {
	case "file":
		if config.Corpus.IndexPath == "" || config.Corpus.MetadataPath == "" {
			return fmt.Errorf("corpus index and metadata paths are required")
		}
	case "pgvector":
		if config.Corpus.DatabaseURL == "" {
			return fmt.Errorf("corpus database url is required")
		}
	default:
		return fmt.Errorf("unsupported corpus backend %q", config.Corpus.Backend)
	}

	if config.Recommend.TopK <= 0 {
		return fmt.Errorf("recommend top_k must be positive")
	}
	w := config.Recommend.Weights
	if w.Ingredient < 0 || w.Preference < 0 || w.Similarity < 0 {
		return fmt.Errorf("score weights must be non-negative")
	}
	if w.Ingredient+w.Preference+w.Similarity == 0 {
		return fmt.Errorf("score weights must not all be zero")
	}

	switch config.Inventory.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported inventory backend %q", config.Inventory.Backend)
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory", "redis":
		default:
			return fmt.Errorf("unsupported cache backend %q", config.Cache.Backend)
		}
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	return nil
}
