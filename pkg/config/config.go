package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Scrapfly struct {
		Key     string `env:"SCRAPFLY_KEY"`
		TestKey string `env:"SCRAPFLY_TEST_KEY"`
		UseTest bool   `env:"SCRAPFLY_USE_TEST" env-default:"false"`
	}
	Ingest struct {
		Platform           string        `env:"INGEST_PLATFORM" env-default:"x"`
		MaxPostsPerAccount int           `env:"INGEST_MAX_POSTS_PER_ACCOUNT" env-default:"10"`
		Interval           time.Duration `env:"INGEST_INTERVAL" env-default:"6h"`
		RunOnStart         bool          `env:"INGEST_RUN_ON_START" env-default:"false"`
	}
	Telegram struct {
		Token  string `env:"TELEGRAM_TOKEN"`
		ChatID int64  `env:"TELEGRAM_CHAT_ID"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string in keyword form,
// suitable for database/sql with the pq driver.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// ScrapflyKey returns the live or test API key depending on the test-mode flag.
func (c *Config) ScrapflyKey() string {
	if c.Scrapfly.UseTest {
		return c.Scrapfly.TestKey
	}
	return c.Scrapfly.Key
}
