package config

import (
	"time"

	"golang-market-movers/pkg/config"
)

// Scheduler holds scheduler-specific configuration.
type Scheduler struct {
	PollingInterval time.Duration `mapstructure:"polling_interval"`
	// TriggerJobName is the DAILY_REPORT job used by the generate-now endpoint.
	TriggerJobName string `mapstructure:"trigger_job_name"`
}

// Config holds the full configuration for the scheduler service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Market    config.Market   `mapstructure:"market"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

func defaults() map[string]interface{} {
	d := config.MarketDefaults()
	d["scheduler.polling_interval"] = "30s"
	d["scheduler.trigger_job_name"] = "daily-top-movers-report"
	d["api.port"] = 8080
	d["redis.stream_max_len"] = 1000
	return d
}

// Load loads the scheduler configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
