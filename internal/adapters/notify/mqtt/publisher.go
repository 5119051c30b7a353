// Package mqtt publica los recordatorios de vacunas en un broker MQTT.
package mqtt

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type Config struct {
	Broker   string // tcp://host:1883
	ClientID string
	Username string
	Password string
}

// qos 1, sin retained.
const (
	qos            = 1
	connectTimeout = 10 * time.Second
	disconnectWait = 250
)

type Publisher struct {
	client paho.Client
	log    *zap.Logger
}

func NewPublisher(cfg Config, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	})

	return newPublisher(paho.NewClient(opts), log)
}

func newPublisher(client paho.Client, log *zap.Logger) (*Publisher, error) {
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker: timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", err)
	}
	return &Publisher{client: client, log: log}, nil
}

// Publish espera el ack del broker o la cancelación de ctx.
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	token := p.client.Publish(topic, qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.log.Debug("mqtt published", zap.String("topic", topic), zap.Int("bytes", len(payload)))
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(disconnectWait)
}
