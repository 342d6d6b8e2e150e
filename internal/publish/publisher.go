// Package publish forwards decoded messages to Redis pub/sub.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"goremoteid/pkg/remoteid"
)

// Options configures the Redis connection.
type Options struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	Channel     string
	History     int64
	DialTimeout time.Duration
}

// Event is the JSON payload published for every decoded message.
type Event struct {
	Source     string           `json:"source"`
	Counter    uint8            `json:"counter"`
	Type       string           `json:"type"`
	ReceivedAt time.Time        `json:"received_at"`
	Message    remoteid.Message `json:"message"`
}

// NewEvents returns one event per message in the frame; message packs
// are split into their members.
func NewEvents(source string, frame remoteid.Frame, at time.Time) []Event {
	msgs := []remoteid.Message{frame.Message}
	if p, ok := frame.Message.(*remoteid.MessagePack); ok && p != nil {
		msgs = p.Messages
	}

	events := make([]Event, 0, len(msgs))
	for _, msg := range msgs {
		events = append(events, Event{
			Source:     source,
			Counter:    frame.Counter,
			Type:       msg.Type().String(),
			ReceivedAt: at,
			Message:    msg,
		})
	}
	return events
}

// HistoryKey is the list holding the latest events of a source.
func HistoryKey(source string) string {
	if source == "" {
		source = "default"
	}
	return fmt.Sprintf("remoteid:%s:messages", source)
}

// Publisher sends events to a Redis channel and keeps a bounded
// per-source history list.
type Publisher struct {
	client  *redis.Client
	channel string
	history int64
	log     *logrus.Logger
}

// NewPublisher connects to Redis and checks the connection.
func NewPublisher(ctx context.Context, opts Options, log *logrus.Logger) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		PoolSize:    opts.PoolSize,
		DialTimeout: opts.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	log.WithFields(logrus.Fields{
		"addr":    opts.Addr,
		"channel": opts.Channel,
	}).Info("Connected to redis")

	return &Publisher{
		client:  client,
		channel: opts.Channel,
		history: opts.History,
		log:     log,
	}, nil
}

// Publish sends the events in one pipeline.
func (p *Publisher) Publish(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
		}

		pipe.Publish(ctx, p.channel, data)
		if p.history > 0 {
			key := HistoryKey(ev.Source)
			pipe.LPush(ctx, key, data)
			pipe.LTrim(ctx, key, 0, p.history-1)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}

	p.log.WithField("events", len(events)).Debug("Published events")
	return nil
}

// Close closes the Redis client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
