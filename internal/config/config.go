package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/subtrack/reminder-gateway/pkg/logger"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every configuration value the scheduler reads. Only this
// struct may be used for configuration; no direct env access elsewhere.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	AppName  string `env:"APP_NAME" default:"reminder_gateway"`
	AppDebug bool   `env:"APP_DEBUG" default:"1"`

	// Timezone is the single process-wide IANA zone every scheduling
	// decision is made in.
	Timezone string `env:"TIMEZONE" default:"America/Sao_Paulo"`

	TickInterval time.Duration `env:"TICK_INTERVAL" default:"60s"`

	TrialDays int `env:"TRIAL_DAYS" default:"7"`

	DefaultMorningReminderTime string `env:"DEFAULT_MORNING_REMINDER_TIME" default:"09:00"`
	DefaultDailyReportTime     string `env:"DEFAULT_DAILY_REPORT_TIME" default:"08:00"`

	// OverdueGraceDays controls the daily sweep that suspends clients
	// whose due date slipped further than the reminder window.
	OverdueGraceDays int `env:"OVERDUE_GRACE_DAYS" default:"1"`

	CountryCode string        `env:"PHONE_COUNTRY_CODE" default:"55"`
	SendTimeout time.Duration `env:"SEND_TIMEOUT" default:"45s"`

	WhatsAppAPIURL string `env:"WHATSAPP_API_URL" default:"http://127.0.0.1:3001"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace     string `env:"PROM_NAMESPACE" default:"reminder_gateway"`
	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR" default:":9100"`

	LogLevel []string `env:"LOG_LEVEL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)
	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
