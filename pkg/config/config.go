package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// App holds application configuration.
type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// Logger holds logger configuration.
type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Database holds database configuration.
type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// Redis holds Redis configuration.
type Redis struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"`
}

// API holds API server configuration.
type API struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Market holds the settings shared by every service that reasons about trading days.
type Market struct {
	IndexName        string  `mapstructure:"index_name"`
	IndexProxySymbol string  `mapstructure:"index_proxy_symbol"`
	IndexProxyScale  float64 `mapstructure:"index_proxy_scale"`
	Timezone         string  `mapstructure:"timezone"`
	CalendarMIC      string  `mapstructure:"calendar_mic"`
	TopMovers        int     `mapstructure:"top_movers"`
}

// Load reads a YAML file into cfg. Environment variables override file values
// using upper-cased keys with dots replaced by underscores (DATABASE_HOST).
// Keys listed in defaults are applied before the file is read.
func Load(path string, cfg interface{}, defaults ...map[string]interface{}) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, d := range defaults {
		for key, value := range d {
			v.SetDefault(key, value)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && path != "" {
			log.Printf("Failed to read config file %s, falling back to environment variables: %v", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// MarketDefaults mirrors the values used when the config file leaves market keys empty.
func MarketDefaults() map[string]interface{} {
	return map[string]interface{}{
		"market.index_name":         "S&P 500",
		"market.index_proxy_symbol": "SPY",
		"market.index_proxy_scale":  10.0,
		"market.timezone":           "America/New_York",
		"market.calendar_mic":       "xnys",
		"market.top_movers":         5,
	}
}
