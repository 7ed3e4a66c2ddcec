package config

import (
	"log"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		SentryDSN string `env:"SENTRY_DSN"`
	}
	Telegram struct {
		Token string `env:"TELEGRAM_TOKEN"`
	}
	Cache struct {
		Dir string `env:"CACHE_DIR" env-default:".cache"`
	}
	Download struct {
		Dir string `env:"DOWNLOAD_DIR" env-default:"."`
	}
	API struct {
		RequestsPerSecond float64 `env:"API_REQUESTS_PER_SECOND" env-default:"25"`
		Burst             int     `env:"API_BURST" env-default:"5"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if _, err := os.Stat(".env"); err == nil {
			if err := cleanenv.ReadConfig(".env", cfg); err != nil {
				help, _ := cleanenv.GetDescription(cfg, nil)
				log.Fatalf("Failed to read configuration: %v\n%v", err, help)
			}
			return
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
