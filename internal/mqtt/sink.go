// Package mqtt publishes heater recommendations to an MQTT broker so that a
// smart socket (or a bridge script in front of it) can follow them.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"office_climate/internal/config"
	"office_climate/internal/logger"
	"office_climate/internal/models"
)

var ErrNotConnected = errors.New("mqtt client not connected")

// publisher is the subset of paho.Client the sink needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	IsConnected() bool
}

// Sink implements service.PowerSink on top of a paho client.
type Sink struct {
	client   publisher
	topic    string
	qos      byte
	retained bool
	log      *logger.Logger
}

// NewClientOptions maps the mqtt config section onto paho options.
func NewClientOptions(cfg config.MQTTConfig, log *logger.Logger) *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOnConnectHandler(func(paho.Client) {
		if log != nil {
			log.Infow("mqtt_connected", "broker", cfg.Broker)
		}
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		if log != nil {
			log.Warnw("mqtt_connection_lost", "err", err)
		}
	})
	return opts
}

// Connect dials the broker and returns a ready sink.
func Connect(cfg config.MQTTConfig, log *logger.Logger) (*Sink, paho.Client, error) {
	client := paho.NewClient(NewClientOptions(cfg, log))
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) {
		return nil, nil, fmt.Errorf("connect to mqtt broker %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}
	return newSink(client, cfg, log), client, nil
}

func newSink(client publisher, cfg config.MQTTConfig, log *logger.Logger) *Sink {
	return &Sink{client: client, topic: cfg.Topic, qos: cfg.QoS, retained: cfg.Retained, log: log}
}

// Publish sends u as JSON and waits for the broker acknowledgement or ctx.
func (s *Sink) Publish(ctx context.Context, u models.PowerUpdate) error {
	if !s.client.IsConnected() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal power update: %w", err)
	}

	token := s.client.Publish(s.topic, s.qos, s.retained, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.topic, err)
	}
	if s.log != nil {
		s.log.Debugw("mqtt_published", "topic", s.topic, "bytes", len(payload))
	}
	return nil
}
