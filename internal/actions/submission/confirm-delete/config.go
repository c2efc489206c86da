// internal/actions/submission/confirm-delete/config.go
package confirmdelete

import (
	"time"

	"market-admin/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetActionConfig(appCfg, ActionName).Timeout),
	}
}
