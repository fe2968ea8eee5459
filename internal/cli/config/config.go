package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	logconfig "github.com/fina-agent/fina-console/internal/config"
)

// DefaultServer is used until the user logs in somewhere else
const DefaultServer = "http://localhost:8000"

// Config stores CLI configuration
type Config struct {
	Server       string              `json:"server" mapstructure:"server"`                         // agent backend base URL
	AccessToken  string              `json:"access_token" mapstructure:"access_token"`             // bearer token
	UserID       string              `json:"user_id" mapstructure:"user_id"`                       // requester identity sent with approvals
	SupervisorID string              `json:"supervisor_id,omitempty" mapstructure:"supervisor_id"` // identity used when deciding reviews
	Log          logconfig.LogConfig `json:"log" mapstructure:"log"`
}

// GetConfigDir returns ~/.finactl
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".finactl"), nil
}

// GetConfigPath returns the configuration file path (~/.finactl/config.json)
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file, then a .env file in the working directory, then FINA_*
// environment variables. A missing file yields the defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	configFile, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(configFile)

	v := viper.New()
	v.SetDefault("server", DefaultServer)
	// every key needs a default for FINA_* overrides to reach Unmarshal
	v.SetDefault("access_token", "")
	v.SetDefault("user_id", "")
	v.SetDefault("supervisor_id", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "file")
	v.SetDefault("log.file_path", filepath.Join(dir, "finactl.log"))

	v.SetConfigFile(configFile)
	v.SetConfigType("json")
	v.SetEnvPrefix("FINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "file"
	}
	if cfg.Log.Output == "file" && cfg.Log.FilePath == "" {
		cfg.Log.FilePath = filepath.Join(dir, "finactl.log")
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.finactl/config.json (0600)
func (c *Config) Save() error {
	configFile, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := sonic.ConfigStd.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsAuthenticated checks if a token is configured
func (c *Config) IsAuthenticated() bool {
	return c.AccessToken != ""
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.AccessToken != "" {
		c.AccessToken = redact(c.AccessToken)
	}
	return c
}

func redact(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
