package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Config is the mockagent configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Agent         AgentConfig         `mapstructure:"agent"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Mode               string        `mapstructure:"mode"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxRequestBodySize int           `mapstructure:"max_request_body_size"`
	AllowedOrigins     []string      `mapstructure:"allowed_origins"`
}

// LogConfig logging settings, shared with the CLI
type LogConfig struct {
	Level     string `mapstructure:"level" json:"level"`
	Format    string `mapstructure:"format" json:"format"`
	Output    string `mapstructure:"output" json:"output"`
	FilePath  string `mapstructure:"file_path" json:"file_path,omitempty"`
	AddSource bool   `mapstructure:"add_source" json:"add_source,omitempty"`
}

// ObservabilityConfig metrics settings
type ObservabilityConfig struct {
	EnableMetrics bool `mapstructure:"enable_metrics"`
	MetricsPort   int  `mapstructure:"metrics_port"`
}

// JWTConfig bearer token verification
type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"` // lifetime of tokens minted by `mockagent token`
}

// AgentConfig drives the simulated agent graph
type AgentConfig struct {
	// Supervisors maps supervisor id to role description
	Supervisors       map[string]string `mapstructure:"supervisors"`
	RiskKeywords      []string          `mapstructure:"risk_keywords"`
	SensitiveKeywords []string          `mapstructure:"sensitive_keywords"`
	FinanceKeywords   []string          `mapstructure:"finance_keywords"`
	RiskThreshold     int               `mapstructure:"risk_threshold"`       // score at which a draft needs review
	HighRiskWeight    int               `mapstructure:"high_risk_multiplier"` // score of one risk keyword
	ChunkOverlap      int               `mapstructure:"chunk_overlap"`
	TokenDelay        time.Duration     `mapstructure:"token_delay"`     // pause between answer fragments
	ChunkSize         int               `mapstructure:"chunk_size"`      // bytes per simulated ingest chunk
	MaxUploadSize     string            `mapstructure:"max_upload_size"` // e.g. "10MB"
	CostPerToken      float64           `mapstructure:"cost_per_token"`
}

// Load reads configPath (or ./configs/config.yaml, ./config.yaml) over built-in defaults.
// A missing default file is not an error; a missing explicit file is.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MOCKAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// viper lowercases map keys; supervisor ids are upper-case
	supervisors := make(map[string]string, len(cfg.Agent.Supervisors))
	for id, role := range cfg.Agent.Supervisors {
		supervisors[strings.ToUpper(id)] = role
	}
	cfg.Agent.Supervisors = supervisors

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Note: Don't log here, logger will be initialized after config is loaded

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.max_request_body_size", 20<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.metrics_port", 9100)

	v.SetDefault("jwt.secret", "fina-mockagent-development-secret-change-me")
	v.SetDefault("jwt.issuer", "fina-mockagent")
	v.SetDefault("jwt.token_ttl", "24h")

	v.SetDefault("agent.supervisors", map[string]string{
		"SUP-9988": "Senior Portfolio Manager - Area A",
		"SUP-1122": "Compliance Officer - Area B",
	})
	v.SetDefault("agent.risk_keywords", []string{"buy", "sell", "trade", "allocate", "invest"})
	v.SetDefault("agent.sensitive_keywords", []string{"risk", "recommendation", "portfolio", "assets", "advice"})
	v.SetDefault("agent.finance_keywords", []string{
		"stock", "share", "bond", "fund", "etf", "market", "portfolio", "invest", "buy", "sell",
		"trade", "allocate", "risk", "asset", "dividend", "interest", "inflation", "saving",
		"retirement", "tax", "budget", "loan", "mortgage", "crypto", "finance", "financial",
		"money", "price", "return", "diversif", "document", "report",
	})
	v.SetDefault("agent.token_delay", "20ms")
	v.SetDefault("agent.risk_threshold", 2)
	v.SetDefault("agent.high_risk_multiplier", 2)
	v.SetDefault("agent.chunk_size", 1000)
	v.SetDefault("agent.chunk_overlap", 100)
	v.SetDefault("agent.max_upload_size", "10MB")
	v.SetDefault("agent.cost_per_token", 0.0000006)
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server mode: %s, must be 'debug' or 'release'", c.Server.Mode)
	}

	if err := c.Log.Validate(); err != nil {
		return err
	}

	if c.Observability.EnableMetrics && (c.Observability.MetricsPort <= 0 || c.Observability.MetricsPort > 65535) {
		return fmt.Errorf("invalid metrics port: %d", c.Observability.MetricsPort)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters for security")
	}

	if len(c.Agent.Supervisors) == 0 {
		return fmt.Errorf("agent.supervisors must not be empty")
	}
	if c.Agent.ChunkSize <= 0 {
		return fmt.Errorf("agent.chunk_size must be positive")
	}
	if c.Agent.ChunkOverlap < 0 || c.Agent.ChunkOverlap >= c.Agent.ChunkSize {
		return fmt.Errorf("agent.chunk_overlap must be in [0, chunk_size)")
	}
	if c.Agent.RiskThreshold <= 0 {
		return fmt.Errorf("agent.risk_threshold must be positive")
	}
	if c.Agent.TokenDelay < 0 {
		return fmt.Errorf("agent.token_delay must not be negative")
	}
	if _, err := c.Agent.UploadLimit(); err != nil {
		return err
	}

	return nil
}

// Validate checks level, format and output
func (l LogConfig) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(l.Level)] {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", l.Format)
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file":
		if l.FilePath == "" {
			return fmt.Errorf("log.file_path is required when output is 'file'")
		}
	default:
		return fmt.Errorf("invalid log output: %s", l.Output)
	}
	return nil
}

// UploadLimit parses MaxUploadSize
func (a AgentConfig) UploadLimit() (int64, error) {
	if a.MaxUploadSize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(a.MaxUploadSize)
	if err != nil {
		return 0, fmt.Errorf("invalid agent.max_upload_size %q: %w", a.MaxUploadSize, err)
	}
	return int64(n), nil
}

// GetServerAddr returns host:port
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetMetricsAddr returns the metrics listen address
func (c *Config) GetMetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Observability.MetricsPort)
}
