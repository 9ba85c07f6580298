package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// AppConfig holds global application configuration.
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName          string `mapstructure:"APP_NAME"`
	Port             string `mapstructure:"PORT"`
	Env              string `mapstructure:"APP_ENV"`
	Debug            bool   `mapstructure:"DEBUG"`
	TxWaitBudgetSec  int    `mapstructure:"TX_WAIT_BUDGET_SEC"`
	TxRunBudgetSec   int    `mapstructure:"TX_RUN_BUDGET_SEC"`
	StockCacheTTLSec int64  `mapstructure:"STOCK_CACHE_TTL_SEC"`
}

// LoadAppConfig initializes the global AppConfig from the environment.
// Unset numeric fields keep their zero value; consumers fall back to their
// own defaults.
func LoadAppConfig() {
	once.Do(func() {
		env := make(map[string]string, len(os.Environ()))
		for _, kv := range os.Environ() {
			if i := strings.IndexByte(kv, '='); i > 0 {
				env[kv[:i]] = kv[i+1:]
			}
		}
		cfg := &Config{}
		if err := mapstructure.WeakDecode(env, cfg); err != nil {
			log.Printf("app config decode: %v (using defaults)", err)
		}
		if cfg.Port == "" {
			cfg.Port = "8080"
		}
		AppConfig = cfg
	})
}
