package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type FTPConfig struct {
	User          string
	Password      string
	Port          int
	PasvMin       int
	PasvMax       int
	Dir           string
	MaxConns      int
	MaxConnsPerIP int
}

type WebhookConfig struct {
	URL     string
	Filter  string
	Method  string
	Timeout time.Duration
}

type PlatesConfig struct {
	File   string
	Inline string
}

type RecognizerConfig struct {
	Backend      string
	OpenALPRBin  string
	Country      string
	AWSRegion    string
	PlatePattern string
}

type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type Config struct {
	FTP        FTPConfig
	Webhook    WebhookConfig
	Plates     PlatesConfig
	Recognizer RecognizerConfig
	MQTT       MQTTConfig
	Log        LogConfig
}

// Load reads configuration from the environment, applying defaults for
// everything that is unset. It never fails: a missing key means its
// default, validation of individual values happens where they are used.
func Load() *Config {
	v := viper.New()

	v.SetDefault("FTP_USER", "camera")
	v.SetDefault("FTP_PASS", "camera123")
	v.SetDefault("FTP_PORT", 21)
	v.SetDefault("PASV_MIN", 21000)
	v.SetDefault("PASV_MAX", 21010)
	v.SetDefault("FTP_DIR", "/ftp/uploads")
	v.SetDefault("MAX_CONS", 10)
	v.SetDefault("MAX_CONS_PER_IP", 5)

	v.SetDefault("WEBHOOK_URL", "")
	v.SetDefault("WEBHOOK_FILTER", "all")
	v.SetDefault("WEBHOOK_METHOD", "POST")
	v.SetDefault("WEBHOOK_TIMEOUT", "10s")

	v.SetDefault("KNOWN_PLATES_FILE", "")
	v.SetDefault("KNOWN_PLATES", "")

	v.SetDefault("ALPR_BACKEND", "openalpr")
	v.SetDefault("OPENALPR_BIN", "alpr")
	v.SetDefault("OPENALPR_COUNTRY", "eu")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("PLATE_PATTERN", "")

	v.SetDefault("MQTT_BROKER", "")
	v.SetDefault("MQTT_TOPIC", "alpr/detections")
	v.SetDefault("MQTT_CLIENT_ID", "alpr-gate")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.AutomaticEnv()

	return &Config{
		FTP: FTPConfig{
			User:          v.GetString("FTP_USER"),
			Password:      v.GetString("FTP_PASS"),
			Port:          v.GetInt("FTP_PORT"),
			PasvMin:       v.GetInt("PASV_MIN"),
			PasvMax:       v.GetInt("PASV_MAX"),
			Dir:           v.GetString("FTP_DIR"),
			MaxConns:      v.GetInt("MAX_CONS"),
			MaxConnsPerIP: v.GetInt("MAX_CONS_PER_IP"),
		},
		Webhook: WebhookConfig{
			URL:     v.GetString("WEBHOOK_URL"),
			Filter:  strings.ToLower(v.GetString("WEBHOOK_FILTER")),
			Method:  strings.ToUpper(v.GetString("WEBHOOK_METHOD")),
			Timeout: v.GetDuration("WEBHOOK_TIMEOUT"),
		},
		Plates: PlatesConfig{
			File:   v.GetString("KNOWN_PLATES_FILE"),
			Inline: v.GetString("KNOWN_PLATES"),
		},
		Recognizer: RecognizerConfig{
			Backend:      strings.ToLower(v.GetString("ALPR_BACKEND")),
			OpenALPRBin:  v.GetString("OPENALPR_BIN"),
			Country:      v.GetString("OPENALPR_COUNTRY"),
			AWSRegion:    v.GetString("AWS_REGION"),
			PlatePattern: v.GetString("PLATE_PATTERN"),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("MQTT_BROKER"),
			Topic:    v.GetString("MQTT_TOPIC"),
			ClientID: v.GetString("MQTT_CLIENT_ID"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}
}
