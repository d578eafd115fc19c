package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	RabbitUser string `env:"RABBITMQ_USER" envDefault:"guest"`
	RabbitPass string `env:"RABBITMQ_PASS" envDefault:"guest"`
	RabbitHost string `env:"RABBITMQ_HOST" envDefault:"localhost"`
	RabbitPort string `env:"RABBITMQ_PORT" envDefault:"5672"`

	SMTPHost string `env:"SMTP_HOST,notEmpty"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER,notEmpty"`
	SMTPPass string `env:"SMTP_PASS,notEmpty"`
	SMTPFrom string `env:"SMTP_FROM"`

	OpenAIKey     string `env:"OPENAI_API_KEY,notEmpty"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GmailToken    string `env:"GMAIL_ACCESS_TOKEN"`
	PipedriveKey  string `env:"PIPEDRIVE_API_TOKEN"`
	PipedriveHost string `env:"PIPEDRIVE_DOMAIN"`

	// Protege o endpoint /cron de disparo anônimo
	CronSecret string `env:"CRON_SECRET,notEmpty"`

	FollowUpThresholdDays int           `env:"FOLLOWUP_THRESHOLD_DAYS" envDefault:"6"`
	ScanInterval          time.Duration `env:"SCAN_INTERVAL" envDefault:"24h"`
	DrainBudget           int           `env:"DRAIN_BUDGET" envDefault:"25"`
}

func Load() Config {
	var c Config
	if err := env.Parse(&c); err != nil {
		log.Fatal(err)
	}
	return c
}
