// internal/actions/market/reject-new/config.go
package rejectnew

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
