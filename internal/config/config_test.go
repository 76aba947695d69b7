package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "camera", cfg.FTP.User)
	assert.Equal(t, "camera123", cfg.FTP.Password)
	assert.Equal(t, 21, cfg.FTP.Port)
	assert.Equal(t, 21000, cfg.FTP.PasvMin)
	assert.Equal(t, 21010, cfg.FTP.PasvMax)
	assert.Equal(t, "/ftp/uploads", cfg.FTP.Dir)
	assert.Equal(t, 10, cfg.FTP.MaxConns)
	assert.Equal(t, 5, cfg.FTP.MaxConnsPerIP)

	assert.Empty(t, cfg.Webhook.URL)
	assert.Equal(t, "all", cfg.Webhook.Filter)
	assert.Equal(t, "POST", cfg.Webhook.Method)
	assert.Equal(t, 10*time.Second, cfg.Webhook.Timeout)

	assert.Equal(t, "openalpr", cfg.Recognizer.Backend)
	assert.Equal(t, "alpr", cfg.Recognizer.OpenALPRBin)
	assert.Equal(t, "eu", cfg.Recognizer.Country)

	assert.Empty(t, cfg.MQTT.Broker)
	assert.Equal(t, "alpr/detections", cfg.MQTT.Topic)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FTP_USER", "gatecam")
	t.Setenv("FTP_PORT", "2121")
	t.Setenv("WEBHOOK_URL", "http://relay.local/trigger")
	t.Setenv("WEBHOOK_FILTER", "KNOWN")
	t.Setenv("WEBHOOK_METHOD", "get")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("ALPR_BACKEND", "Rekognition")
	t.Setenv("MQTT_BROKER", "tcp://broker.local:1883")

	cfg := Load()

	assert.Equal(t, "gatecam", cfg.FTP.User)
	assert.Equal(t, 2121, cfg.FTP.Port)
	assert.Equal(t, "http://relay.local/trigger", cfg.Webhook.URL)
	assert.Equal(t, "known", cfg.Webhook.Filter, "filter is lowercased")
	assert.Equal(t, "GET", cfg.Webhook.Method, "method is uppercased")
	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, "rekognition", cfg.Recognizer.Backend)
	assert.Equal(t, "tcp://broker.local:1883", cfg.MQTT.Broker)
}
