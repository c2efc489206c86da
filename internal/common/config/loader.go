// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultBroadcastTitle = "📢 Announcement"

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// STORE_BASE_URL overrides store.base_url and so on
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional per-environment overlay

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so the keys that
// are commonly supplied purely through the environment are bound explicitly.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"app.environment",
		"server.address",
		"server.flash_secret",
		"server.request_timeout",
		"store.base_url",
		"store.auth_token",
		"store.timeout",
		"notifications.dedup.enabled",
		"notifications.dedup.ttl",
		"database.redis.address",
		"database.redis.password",
		"database.postgres.host",
		"database.postgres.port",
		"database.postgres.database",
		"database.postgres.user",
		"database.postgres.password",
		"audit.enabled",
		"logging.level",
		"logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// unset variables expand to "" so required-field validation sees them
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Store.BaseURL == "" {
		if val := os.Getenv("FIREBASE_URL"); val != "" {
			cfg.Store.BaseURL = val
		}
	}
	if cfg.Store.AuthToken == "" {
		if val := os.Getenv("FIREBASE_AUTH"); val != "" {
			cfg.Store.AuthToken = val
		}
	}
	if cfg.Server.FlashSecret == "" {
		if val := os.Getenv("FLASH_SECRET"); val != "" {
			cfg.Server.FlashSecret = val
		}
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "market-admin"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":5000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}

	if cfg.Store.BaseURL != "" && !strings.HasSuffix(cfg.Store.BaseURL, "/") {
		cfg.Store.BaseURL += "/"
	}
	if cfg.Server.RequestTimeout < 0 {
		cfg.Server.RequestTimeout = 0
	}
	if cfg.Store.Timeout < 0 {
		cfg.Store.Timeout = 0
	}

	if cfg.Notifications.BroadcastTitle == "" {
		cfg.Notifications.BroadcastTitle = defaultBroadcastTitle
	}
	if cfg.Notifications.Dedup.TTL == 0 {
		cfg.Notifications.Dedup.TTL = 86400
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}

	if cfg.Actions == nil {
		cfg.Actions = make(map[string]ActionConfig)
	}
	for key, action := range cfg.Actions {
		if action.Timeout == 0 {
			action.Timeout = 30000
		}
		cfg.Actions[key] = action
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Store.BaseURL == "" {
		return fmt.Errorf("store.base_url is required")
	}
	if !strings.HasPrefix(cfg.Store.BaseURL, "http://") && !strings.HasPrefix(cfg.Store.BaseURL, "https://") {
		return fmt.Errorf("store.base_url must be an http(s) URL, got %q", cfg.Store.BaseURL)
	}

	if cfg.Server.FlashSecret == "" {
		return fmt.Errorf("server.flash_secret is required")
	}

	if cfg.Notifications.Dedup.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when notifications.dedup.enabled is set")
	}

	if cfg.Audit.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required when audit.enabled is set")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required when audit.enabled is set")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required when audit.enabled is set")
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetActionConfig retrieves action-specific configuration with fallback to defaults
func GetActionConfig(cfg *Config, actionName string) ActionConfig {
	if action, exists := cfg.Actions[actionName]; exists {
		return action
	}

	return ActionConfig{
		Timeout: 30000,
	}
}

// IsActionEnabled checks if a specific action is enabled
func IsActionEnabled(cfg *Config, actionName string) bool {
	if action, exists := cfg.Actions[actionName]; exists {
		return !action.Disabled
	}
	return true
}
