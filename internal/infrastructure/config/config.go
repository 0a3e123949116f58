package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	AI          AIConfig         `mapstructure:"ai"`
	RAG         RAGConfig        `mapstructure:"rag"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	OpenAI      OpenAIConfig     `mapstructure:"openai"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Guide       GuideConfig      `mapstructure:"guide"`
	Chat        ChatConfig       `mapstructure:"chat"`
	Upload      UploadConfig     `mapstructure:"upload"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
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
	AllowOrigins   []string      `mapstructure:"allow_origins"`
}

// AIConfig 回答生成後端設定
type AIConfig struct {
	// Provider: rag | openrouter | openai
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RAGConfig 外部 Python RAG 腳本設定
type RAGConfig struct {
	PythonPath         string   `mapstructure:"python_path"`
	Args               []string `mapstructure:"args"`
	ScriptDirectory    string   `mapstructure:"script_directory"`
	RecipeScript       string   `mapstructure:"recipe_script"`
	CookingGuideScript string   `mapstructure:"cooking_guide_script"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// OpenAIConfig OpenAI 配置
type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Backend: memory | redis
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	URL      string `mapstructure:"url"`
}

// QueueConfig 請求隊列設定
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

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	// Driver: sqlite | postgres
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// GuideConfig 食譜指南解析設定
type GuideConfig struct {
	DishKeywords   []string `mapstructure:"dish_keywords"`
	VocabularyFile string   `mapstructure:"vocabulary_file"`
}

// UploadConfig 封面圖片上傳設定
type UploadConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// ChatConfig 對話設定
type ChatConfig struct {
	HistorySize      int `mapstructure:"history_size"`
	QueryHistorySize int `mapstructure:"query_history_size"`
}

// DefaultDishKeywords 預設的菜名詞彙
var DefaultDishKeywords = []string{
	"김치찌개", "된장찌개", "비빔밥", "불고기", "떡볶이", "파스타", "스파게티", "리조또",
	"카레", "피자", "샐러드", "볶음밥", "김밥", "라면", "찜닭",
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"ai.provider":             "AI_PROVIDER",
		"rag.python_path":         "PYTHON_EXECUTABLE_PATH",
		"rag.script_directory":    "PYTHON_SCRIPT_DIRECTORY",
		"openrouter.api_key":      "OPENROUTER_API_KEY",
		"openrouter.model":        "OPENROUTER_MODEL",
		"openrouter.max_tokens":   "MODEL_MAX_TOKENS",
		"openai.api_key":          "OPENAI_API_KEY",
		"openai.model":            "OPENAI_MODEL",
		"cache.enabled":           "CACHE_ENABLED",
		"cache.backend":           "CACHE_BACKEND",
		"redis.addr":              "REDIS_ADDR",
		"redis.password":          "REDIS_PASSWORD",
		"redis.url":               "REDIS_URL",
		"database.driver":         "DB_DRIVER",
		"database.dsn":            "DB_DSN",
		"rate_limit.enabled":      "RATE_LIMIT_ENABLED",
		"rate_limit.requests":     "RATE_LIMIT_REQUESTS",
		"rate_limit.window":       "RATE_LIMIT_WINDOW",
		"guide.vocabulary_file":   "GUIDE_VOCABULARY_FILE",
		"dedup_window":            "DEDUP_WINDOW",
		"log_level":               "LOG_LEVEL",
		"server.port":             "PORT",
		"server.request_timeout":  "REQUEST_TIMEOUT",
		"queue.workers":           "QUEUE_WORKERS",
		"chat.history_size":       "CHAT_HISTORY_SIZE",
		"chat.query_history_size": "QUERY_HISTORY_SIZE",
		"upload.dir":              "FILE_PATH",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-assistant")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.allow_origins", []string{"*"})

	// 回答生成
	v.SetDefault("ai.provider", "rag")
	v.SetDefault("ai.timeout", "90s")

	v.SetDefault("rag.python_path", "python")
	v.SetDefault("rag.args", []string{"-u"})
	v.SetDefault("rag.script_directory", "./scripts")
	v.SetDefault("rag.recipe_script", "recipe_rag_script.py")
	v.SetDefault("rag.cooking_guide_script", "cooking_guide_script.py")

	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "qwen/qwen2.5-72b-instruct:free")
	v.SetDefault("openrouter.max_tokens", 1000)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 1000)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// 隊列設定
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 資料庫設定
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "recipe.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("guide.dish_keywords", DefaultDishKeywords)
	v.SetDefault("guide.vocabulary_file", "")

	v.SetDefault("chat.history_size", 10)
	v.SetDefault("chat.query_history_size", 10)

	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.max_bytes", 5<<20)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.AI.Provider {
	case "rag":
		if config.RAG.PythonPath == "" || config.RAG.ScriptDirectory == "" {
			return fmt.Errorf("rag python path and script directory are required")
		}
	case "openrouter":
		if config.OpenRouter.APIKey == "" {
			return fmt.Errorf("openrouter api key is required")
		}
	case "openai":
		if config.OpenAI.APIKey == "" {
			return fmt.Errorf("openai api key is required")
		}
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}

	if config.Cache.Enabled {
		if config.Cache.Backend != "memory" && config.Cache.Backend != "redis" {
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
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

	if config.Database.Driver != "sqlite" && config.Database.Driver != "postgres" {
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}

	if config.Upload.Dir == "" || config.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload dir and max bytes are required")
	}

	if config.Chat.HistorySize <= 0 || config.Chat.QueryHistorySize <= 0 {
		return fmt.Errorf("history sizes must be positive")
	}

	return nil
}
