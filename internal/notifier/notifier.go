// Package notifier emits alerts for critical sensor events. Emission is
// fire-and-forget: Notify never blocks the caller and never propagates
// failure back into the dispatch path.
package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"stark-security/internal/domain"
)

// Notifier is the one-way alert contract the dispatch service depends on.
type Notifier interface {
	Notify(event *domain.SensorEvent)
}

// MQTTPublisher is satisfied by mqtt.Client.
type MQTTPublisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// AlertNotifier logs every alert and fans it out to the optional sinks that
// were wired in (Redis stream, MQTT topic, webhook). Sink failures are logged
// and dropped.
type AlertNotifier struct {
	logger *zap.Logger

	redisClient *redis.Client
	alertStream string

	mqttClient MQTTPublisher
	alertTopic string

	webhookClient *resty.Client
	webhookURL    string

	// sinkTimeout bounds each sink attempt so a dead broker cannot pile up
	// goroutines forever.
	sinkTimeout time.Duration
}

// Option wires an optional sink into the notifier.
type Option func(*AlertNotifier)

func WithRedisStream(client *redis.Client, stream string) Option {
	return func(n *AlertNotifier) {
		n.redisClient = client
		n.alertStream = stream
	}
}

func WithMQTT(client MQTTPublisher, topic string) Option {
	return func(n *AlertNotifier) {
		n.mqttClient = client
		n.alertTopic = topic
	}
}

func WithWebhook(url string, timeout time.Duration) Option {
	return func(n *AlertNotifier) {
		n.webhookURL = url
		n.webhookClient = resty.New().
			SetTimeout(timeout).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond).
			SetHeader("Content-Type", "application/json")
	}
}

func NewAlertNotifier(logger *zap.Logger, opts ...Option) *AlertNotifier {
	n := &AlertNotifier{
		logger:      logger,
		sinkTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var _ Notifier = (*AlertNotifier)(nil)

// Notify emits an alert for the event on a separate goroutine. In production
// this would be email/SMS/push; here it is a structured log line plus the
// configured fan-out sinks.
func (n *AlertNotifier) Notify(event *domain.SensorEvent) {
	if event == nil {
		return
	}
	go n.emit(event)
}

func (n *AlertNotifier) emit(event *domain.SensorEvent) {
	location := ""
	if event.Sensor != nil {
		location = event.Sensor.Location
	}

	n.logger.Warn("CRITICAL ALERT",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("description", event.Description),
		zap.String("location", location),
	)

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to marshal alert payload", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.sinkTimeout)
	defer cancel()

	if n.redisClient != nil {
		err := n.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: n.alertStream,
			Values: map[string]interface{}{
				"data":      string(payload),
				"timestamp": time.Now().Unix(),
			},
		}).Err()
		if err != nil {
			n.logger.Warn("Failed to publish alert to redis stream",
				zap.String("stream", n.alertStream),
				zap.Error(err),
			)
		}
	}

	if n.mqttClient != nil {
		if err := n.mqttClient.Publish(n.alertTopic, 1, false, payload); err != nil {
			n.logger.Warn("Failed to publish alert to MQTT",
				zap.String("topic", n.alertTopic),
				zap.Error(err),
			)
		}
	}

	if n.webhookClient != nil {
		_, err := n.webhookClient.R().
			SetContext(ctx).
			SetBody(json.RawMessage(payload)).
			Post(n.webhookURL)
		if err != nil {
			n.logger.Warn("Failed to deliver alert webhook",
				zap.String("url", n.webhookURL),
				zap.Error(err),
			)
		}
	}
}
