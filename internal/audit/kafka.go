package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink mirrors the audit log to a Kafka topic, keyed by user so per-user
// ordering survives partitioning. Events are buffered in an inbox channel and
// produced by Run; a full inbox drops the mirror copy rather than stalling a
// ledger operation (the store append remains the source of truth).
type KafkaSink struct {
	client *kgo.Client
	topic  string
	inbox  chan Event
	logger *slog.Logger
}

const defaultInboxSize = 1024

// NewKafkaSink connects to the brokers and ensures the topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		// Already-exists is the normal case after first boot.
		logger.DebugContext(ctx, "audit topic create skipped", "topic", topic, "reason", err)
	}

	return &KafkaSink{
		client: client,
		topic:  topic,
		inbox:  make(chan Event, defaultInboxSize),
		logger: logger,
	}, nil
}

func (s *KafkaSink) Enqueue(event Event) {
	select {
	case s.inbox <- event:
	default:
		s.logger.Warn("audit sink inbox full, dropping mirror copy", "event_id", event.ID)
	}
}

// Run drains the inbox until the context is cancelled. Intended to be run in
// the process group alongside the HTTP server.
func (s *KafkaSink) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.client.Close()
			return ctx.Err()
		case event := <-s.inbox:
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.ErrorContext(ctx, "marshal audit event", "error", err, "event_id", event.ID)
				continue
			}
			record := &kgo.Record{
				Topic: s.topic,
				Key:   []byte(event.User),
				Value: payload,
			}
			if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
				s.logger.ErrorContext(ctx, "produce audit event", "error", err, "event_id", event.ID)
			}
		}
	}
}
