package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"alpr-gate/internal/config"
	"alpr-gate/internal/domain/alpr"
)

const mqttTimeout = 5 * time.Second

// MQTTPublisher publishes every detection event to a broker topic at
// QoS 0. Same best-effort posture as the webhook: publish failures are
// logged and swallowed.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	log    zerolog.Logger
}

func NewMQTTPublisher(cfg config.MQTTConfig, log zerolog.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttTimeout) {
		return nil, fmt.Errorf("connect to MQTT broker %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", cfg.Broker, err)
	}

	log.Info().Str("broker", cfg.Broker).Str("topic", cfg.Topic).Msg("connected to MQTT broker")
	return &MQTTPublisher{client: client, topic: cfg.Topic, log: log}, nil
}

func (p *MQTTPublisher) Publish(ev alpr.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("plate", ev.Plate).Msg("failed to encode MQTT payload")
		return
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(mqttTimeout) {
		p.log.Error().Str("topic", p.topic).Str("plate", ev.Plate).Msg("MQTT publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		p.log.Error().Err(err).Str("topic", p.topic).Str("plate", ev.Plate).Msg("MQTT publish failed")
		return
	}
	p.log.Debug().Str("topic", p.topic).Str("plate", ev.Plate).Msg("published detection to MQTT")
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
