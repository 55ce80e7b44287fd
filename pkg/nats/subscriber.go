package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"sales-assist-bff/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one event. A returned error redelivers it.
type EventHandler func(ctx context.Context, event events.Event) error

type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// decode accepts both the envelope form and bare payload maps.
func decode(msg jetstream.Msg) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(msg.Data(), &env); err != nil {
		return events.BaseEvent{}, err
	}

	if env.Type == "" {
		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Data(), &payload); err != nil {
			return events.BaseEvent{}, err
		}
		env.Type = strings.TrimPrefix(msg.Subject(), subjectPrefix)
		env.Data = payload
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now()
	}
	return events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}

// Subscribe attaches a durable consumer for eventType. Instances that must each
// see every event pass distinct durable names.
func (s *Subscriber) Subscribe(eventType string, durableName string, handler EventHandler) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:           durableName,
		FilterSubject:     subjectPrefix + eventType,
		AckPolicy:         jetstream.AckExplicitPolicy,
		DeliverPolicy:     jetstream.DeliverNewPolicy,
		InactiveThreshold: time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decode(msg)
		if err != nil {
			log.Printf("Error unmarshalling event data: %v", err)
			_ = msg.Term()
			return
		}

		if err := handler(context.Background(), event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.mu.Lock()
	s.consumes = append(s.consumes, cc)
	s.mu.Unlock()

	log.Printf("Subscribed to %s with durable %s", eventType, durableName)
	return nil
}

func (s *Subscriber) Close() {
	s.mu.Lock()
	for _, cc := range s.consumes {
		cc.Stop()
	}
	s.consumes = nil
	s.mu.Unlock()

	if s.nc != nil {
		s.nc.Close()
	}
}
