package main

import (
	"log"

	"github.com/hibiken/asynq"

	"plik-backend/internal/config"
	"plik-backend/pkg/container"
)

// Config is the worker's slice of the application config.
type Config struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	Jobs        config.JobsConfig
	HealthAddr  string
}

// loadConfig derives the worker settings from the container config.
func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisOpt:    container.RedisOpt(c.Config.Redis),
		Concurrency: c.Config.Jobs.Concurrency,
		Jobs:        c.Config.Jobs,
		HealthAddr:  ":9999",
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}

	log.Printf("[Config] Redis: %s, concurrency: %d, webhook retention: %dd",
		cfg.RedisOpt.Addr, cfg.Concurrency, cfg.Jobs.WebhookRetentionDays)

	return cfg
}
