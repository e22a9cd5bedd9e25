package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	OpenAI      LLMConfig      `mapstructure:"openai"`
	HuggingFace LLMConfig      `mapstructure:"huggingface"`
	Chat        ChatConfig     `mapstructure:"chat"`
	Extract     ExtractConfig  `mapstructure:"extract"`
	Ingest      IngestConfig   `mapstructure:"ingest"`
	Search      SearchConfig   `mapstructure:"search"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite or postgres
	Path            string        `mapstructure:"path"`   // sqlite file path
	DSN             string        `mapstructure:"dsn"`    // postgres connection string
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type ChatConfig struct {
	Model        string `mapstructure:"model"`
	MaxTokens    int    `mapstructure:"max_tokens"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

type ExtractConfig struct {
	Webpage WebpageConfig `mapstructure:"webpage"`
	YouTube YouTubeConfig `mapstructure:"youtube"`
}

type WebpageConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

type YouTubeConfig struct {
	TimedTextBaseURL string `mapstructure:"timedtext_base_url"`
	OEmbedBaseURL    string `mapstructure:"oembed_base_url"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

type IngestConfig struct {
	TempDir     string `mapstructure:"temp_dir"`      // empty uses os.TempDir()
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
}

type SearchConfig struct {
	SerpAPI        SerpAPIConfig   `mapstructure:"serpapi"`
	Google         GoogleCSEConfig `mapstructure:"google"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	MaxResults     int             `mapstructure:"max_results"`
}

type SerpAPIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type GoogleCSEConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
	BaseURL  string `mapstructure:"base_url"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/edumorph.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("openai.provider", "openai")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.max_tokens", 400)
	v.SetDefault("openai.temperature", 0.5)
	v.SetDefault("openai.timeout_seconds", 15)
	v.SetDefault("huggingface.provider", "huggingface")
	v.SetDefault("huggingface.model", "facebook/bart-large-cnn")
	v.SetDefault("huggingface.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("huggingface.timeout_seconds", 20)
	v.SetDefault("chat.model", "gpt-4o-mini")
	v.SetDefault("chat.max_tokens", 500)
	v.SetDefault("chat.history_limit", 50)
	v.SetDefault("extract.webpage.timeout_seconds", 10)
	v.SetDefault("extract.webpage.user_agent", "Mozilla/5.0 (compatible; EduMorphBot/1.0)")
	v.SetDefault("extract.youtube.timedtext_base_url", "https://video.google.com")
	v.SetDefault("extract.youtube.oembed_base_url", "https://www.youtube.com")
	v.SetDefault("extract.youtube.timeout_seconds", 10)
	v.SetDefault("ingest.temp_dir", "")
	v.SetDefault("ingest.max_upload_mb", 20)
	v.SetDefault("search.serpapi.base_url", "https://serpapi.com")
	v.SetDefault("search.google.base_url", "https://www.googleapis.com")
	v.SetDefault("search.timeout_seconds", 10)
	v.SetDefault("search.max_results", 5)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.path", "DB_PATH")
	v.BindEnv("database.dsn", "DATABASE_URL")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("openai.model", "OPENAI_MODEL")
	v.BindEnv("huggingface.api_key", "HUGGINGFACE_API_KEY")
	v.BindEnv("search.serpapi.api_key", "SERPAPI_API_KEY")
	v.BindEnv("search.google.api_key", "GOOGLE_API_KEY")
	v.BindEnv("search.google.engine_id", "GOOGLE_CSE_ID")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Resolve indirect env references on the LLM sections
	cfg.OpenAI.ResolveEnvVars()
	cfg.HuggingFace.ResolveEnvVars()

	return &cfg, nil
}
