package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig  `envconfig:"DB"`
	Redis     RedisConfig
	Storage   StorageConfig
	Groq      GroqConfig
	Anthropic AnthropicConfig
	Distiller DistillerConfig
	Assembly  AssemblyAIConfig `envconfig:"ASSEMBLYAI"`
	Analysis  AnalysisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled     bool   `envconfig:"ENABLED" default:"false"`
	Host        string `envconfig:"HOST" default:"localhost"`
	Port        string `envconfig:"PORT" default:"5432"`
	User        string `envconfig:"USER" default:"postgres"`
	Password    string `envconfig:"PASSWORD" default:"postgres"`
	Name        string `envconfig:"NAME" default:"meeting_insights"`
	SSLMode     string `envconfig:"SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool          `envconfig:"ENABLED" default:"false"`
	Host     string        `envconfig:"HOST" default:"localhost"`
	Port     string        `envconfig:"PORT" default:"6379"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	TTL      time.Duration `envconfig:"TTL" default:"24h"`
}

// StorageConfig holds report archive configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"ENABLED" default:"false"`
	Endpoint        string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"BUCKET" default:"meeting-insights"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
}

// GroqConfig holds the OpenAI-compatible distillation backend settings
type GroqConfig struct {
	APIKey  string `envconfig:"API_KEY"`
	BaseURL string `envconfig:"BASE_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"MODEL" default:"llama-3.1-8b-instant"`
}

// AnthropicConfig holds the Anthropic distillation backend settings
type AnthropicConfig struct {
	APIKey string `envconfig:"API_KEY"`
	Model  string `envconfig:"MODEL" default:"claude-3-5-haiku-latest"`
}

// DistillerConfig bounds calls to the distillation backends
type DistillerConfig struct {
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"15s"`
	MaxRetries int           `envconfig:"MAX_RETRIES" default:"0"`
}

// AssemblyAIConfig holds the upstream transcript source settings
type AssemblyAIConfig struct {
	APIKey        string `envconfig:"API_KEY"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
}

// AnalysisConfig selects the rule lexicon
type AnalysisConfig struct {
	Language    string `envconfig:"LANGUAGE" default:"en"`
	LexiconPath string `envconfig:"LEXICON_PATH"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Distiller.Timeout < time.Second || c.Distiller.Timeout > time.Minute {
		return fmt.Errorf("DISTILLER_TIMEOUT must be between 1s and 1m, got %s", c.Distiller.Timeout)
	}
	if c.Distiller.MaxRetries < 0 {
		return fmt.Errorf("DISTILLER_MAX_RETRIES must not be negative")
	}
	if c.Analysis.LexiconPath == "" {
		if _, ok := lexicon.NewRegistry().Get(c.Analysis.Language); !ok {
			return fmt.Errorf("ANALYSIS_LANGUAGE %q has no built-in lexicon; set ANALYSIS_LEXICON_PATH", c.Analysis.Language)
		}
	}
	return nil
}

// DistillersEnabled reports whether any distillation backend has credentials
func (c *Config) DistillersEnabled() bool {
	return c.Groq.APIKey != "" || c.Anthropic.APIKey != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
