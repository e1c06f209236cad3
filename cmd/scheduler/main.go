package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/subtrack/reminder-gateway/internal/config"
	"github.com/subtrack/reminder-gateway/internal/engine"
	gateway "github.com/subtrack/reminder-gateway/internal/gateways"
	"github.com/subtrack/reminder-gateway/internal/notify"
	"github.com/subtrack/reminder-gateway/internal/repository"
	"github.com/subtrack/reminder-gateway/pkg/logger"
	"github.com/subtrack/reminder-gateway/pkg/pg"
	"github.com/subtrack/reminder-gateway/pkg/prom"
	"github.com/subtrack/reminder-gateway/pkg/redis"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := config.Get().AppEnv == "dev"
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	locks, err := redis.NewAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	whatsapp, err := gateway.NewClient(&gateway.Config{
		BaseURL: config.Get().WhatsAppAPIURL,
		Timeout: config.Get().SendTimeout,
	})
	if err != nil {
		logger.Error("failed to create whatsapp gateway", "error", err)
		return
	}

	telegram, err := notify.NewTelegramNotifier(config.Get().TelegramBotToken)
	if err != nil {
		logger.Error("failed to create telegram notifier", "error", err)
		return
	}

	clock, err := engine.NewClock(config.Get().Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", config.Get().Timezone, "error", err)
		return
	}

	eng, err := engine.New(engine.Options{
		Clock:       clock,
		Operators:   repository.NewOperatorRepository(db),
		Clients:     repository.NewClientRepository(db),
		Schedules:   repository.NewScheduleSettingsRepository(db),
		Templates:   repository.NewMessageTemplateRepository(db),
		DeliveryLog: repository.NewDeliveryLogRepository(db),
		Notices:     repository.NewOperatorNoticeRepository(db),
		Transport:   whatsapp,
		Notifier:    telegram,
		Locks:       locks,

		TickInterval:       config.Get().TickInterval,
		DefaultMorningTime: config.Get().DefaultMorningReminderTime,
		DefaultReportTime:  config.Get().DefaultDailyReportTime,
		TrialDays:          config.Get().TrialDays,
		OverdueGraceDays:   config.Get().OverdueGraceDays,
		SendTimeout:        config.Get().SendTimeout,
		CountryCode:        config.Get().CountryCode,
	})
	if err != nil {
		logger.Error("failed to create engine", "error", err)
		return
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	go func() {
		prom.ListenAndServer(config.Get().MetricsListenAddr, "/metrics")
	}()

	eng.Start()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	eng.Stop()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
