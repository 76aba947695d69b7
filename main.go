package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"alpr-gate/internal/config"
	"alpr-gate/internal/ftp"
	"alpr-gate/internal/notify"
	"alpr-gate/internal/recognizer"
	"alpr-gate/internal/registry"
	"alpr-gate/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		os.Stderr.WriteString("warning: could not load .env file: " + err.Error() + "\n")
	}

	cfg := config.Load()
	log := newLogger(cfg.Log)

	reg := registry.Load(cfg.Plates.File, cfg.Plates.Inline, log)

	rec, err := recognizer.New(context.Background(), cfg.Recognizer, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize recognizer")
	}

	webhook := notify.NewWebhook(cfg.Webhook, reg, log)

	var publisher service.Publisher
	if cfg.MQTT.Broker != "" {
		mqttPub, err := notify.NewMQTTPublisher(cfg.MQTT, log)
		if err != nil {
			log.Error().Err(err).Msg("MQTT publisher disabled")
		} else {
			defer mqttPub.Close()
			publisher = mqttPub
		}
	}

	processor := service.NewUploadProcessor(rec, reg, webhook, publisher, log)

	srv, err := ftp.NewServer(cfg.FTP, processor, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start FTP server")
	}

	logStartup(log, cfg, reg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("FTP server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}

func logStartup(log zerolog.Logger, cfg *config.Config, reg *registry.Registry) {
	log.Info().
		Int("port", cfg.FTP.Port).
		Str("passive_ports", fmt.Sprintf("%d-%d", cfg.FTP.PasvMin, cfg.FTP.PasvMax)).
		Str("dir", cfg.FTP.Dir).
		Str("user", cfg.FTP.User).
		Str("password", strings.Repeat("*", len(cfg.FTP.Password))).
		Int("max_cons", cfg.FTP.MaxConns).
		Int("max_cons_per_ip", cfg.FTP.MaxConnsPerIP).
		Msg("FTP server starting")

	log.Info().Str("backend", cfg.Recognizer.Backend).Msg("recognizer ready")

	if cfg.Webhook.URL != "" {
		log.Info().
			Str("method", cfg.Webhook.Method).
			Str("url", cfg.Webhook.URL).
			Str("filter", cfg.Webhook.Filter).
			Msg("webhook enabled")
	} else {
		log.Info().Msg("webhook disabled")
	}

	if reg.Len() > 0 {
		log.Info().Int("count", reg.Len()).Msg("known plates configured")
	} else {
		log.Info().Msg("no known plates configured")
	}

	log.Info().Msg("ready to receive images")
}
