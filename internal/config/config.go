package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"America/Bogota"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Holidays struct {
		URL          string        `env:"HOLIDAYS_URL" envDefault:"https://content.capta.co/Recruitment/WorkingDays.json"`
		FetchTimeout time.Duration `env:"HOLIDAYS_FETCH_TIMEOUT" envDefault:"8s"`
		CacheTTL     time.Duration `env:"HOLIDAYS_CACHE_TTL" envDefault:"12h"`
		RefreshCron  string        `env:"HOLIDAYS_REFRESH_CRON" envDefault:""`
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE"`
	}

	Cache struct {
		Enabled     bool `env:"CACHE_ENABLED" envDefault:"true"`
		ResultsSize int  `env:"CACHE_RESULTS_SIZE" envDefault:"1000"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
