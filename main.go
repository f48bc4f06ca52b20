package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/turbekoff/deskcalc/pkg/calc"
	"github.com/turbekoff/deskcalc/pkg/env"
)

type Config struct {
	BotToken                string          `env:"CALCBOT_TELEGRAM_TOKEN,required"`
	BotOffset               int             `env:"CALCBOT_TELEGRAM_OFFSET" env-default:"20"`
	BotTimeout              int             `env:"CALCBOT_TELEGRAM_TIMEOUT" env-default:"60"`
	BotConnectAttempts      int             `env:"CALCBOT_TELEGRAM_CONNECT_ATTEMPTS" env-default:"5"`
	MemcachedTTLTimeout     time.Duration   `env:"CALCBOT_MEMCACHED_TTL_TIMEOUT" env-default:"20m"`
	MemcachedCleanupTimeout time.Duration   `env:"CALCBOT_MEMCACHED_CLEANUP_TIMEOUT" env-default:"1m"`
	ShutdownTimeout         time.Duration   `env:"CALCBOT_SHUTDOWN_TIMEOUT" env-default:"2m"`
	PressRate               float64         `env:"CALCBOT_PRESS_RATE" env-default:"20"`
	PressBurst              int             `env:"CALCBOT_PRESS_BURST" env-default:"10"`
	PresetsFile             string          `env:"CALCBOT_PRESETS_FILE"`
	AllowedChats            []int64         `env:"CALCBOT_ALLOWED_CHATS"`
	TaxRate                 calc.Number     `env:"CALCBOT_TAX_RATE" env-default:"10"`
	Debug                   bool            `env:"CALCBOT_DEBUG" env-default:"false"`
	Telemetry               TelemetryConfig `env-prefix:"CALCBOT_"`
}

const telemetryFlushTimeout = 5 * time.Second

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Read(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// baseSettings is the built-in preset: the engine defaults with the
// configured tax rate.
func (c *Config) baseSettings() calc.Settings {
	settings := calc.DefaultSettings()
	settings.TaxRate = c.TaxRate
	return settings
}

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config, error: %v\n", err)
	}

	presets, err := LoadPresets(config.PresetsFile, config.baseSettings())
	if err != nil {
		log.Fatalf("failed to load presets, error: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := InitTelemetry(ctx, config.Telemetry)
	if err != nil {
		log.Fatalf("failed to init telemetry, error: %v\n", err)
	}

	bot, err := LoadBot(ctx, config, presets, log.Default())
	if err != nil {
		log.Fatalf("failed to connect telegram, error: %v\n", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var lifecycle conc.WaitGroup
	lifecycle.Go(func() {
		log.Println("starting telegram bot")
		if err := bot.Run(); !errors.Is(err, ErrClosed) {
			log.Printf("failed to start telegram bot, error: %s\n", err)
		}
		select {
		case quit <- os.Interrupt:
		default:
		}
	})

	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	log.Println("stopping telegram bot")
	if err := bot.Shutdown(shutdownCtx); err != nil {
		log.Printf("failed to graceful shutdown telegram bot, error: %s\n", err)
		if err := bot.Close(); err != nil && !errors.Is(err, ErrClosed) {
			log.Printf("failed to close telegram bot, error: %s\n", err)
		}
	}
	lifecycle.Wait()

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancelFlush()
	if err := shutdownTelemetry(flushCtx); err != nil {
		log.Printf("failed to flush telemetry, error: %s\n", err)
	}
	log.Println("telegram bot stopped")
}
