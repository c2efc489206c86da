// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Store         StoreConfig             `mapstructure:"store"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Audit         AuditConfig             `mapstructure:"audit"`
	Actions       map[string]ActionConfig `mapstructure:"actions"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	ReadTimeout    int    `mapstructure:"read_timeout"`    // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"`   // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds, 0 = request context unbounded
	FlashSecret    string `mapstructure:"flash_secret"`
}

// StoreConfig points at the Realtime Database REST endpoint holding markets,
// submissions and notifications.
type StoreConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AuthToken string `mapstructure:"auth_token"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds, 0 = no client timeout
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Specific Configuration Sections ---

type NotificationConfig struct {
	BroadcastTitle string `mapstructure:"broadcast_title"`
	Dedup          struct {
		Enabled bool `mapstructure:"enabled"`
		TTL     int  `mapstructure:"ttl"` // seconds
	} `mapstructure:"dedup"`
}

type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ActionConfig holds the settings applicable to every moderation action.
// Actions are on unless explicitly disabled.
type ActionConfig struct {
	Disabled bool `mapstructure:"disabled"`
	Timeout  int  `mapstructure:"timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName string `mapstructure:"service_name"`
}
