package service

import (
	"context"
	"encoding/json"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "DeskEventConsumer"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// DeskDelivery pushes a serialized desk event to the views of one desk and keeps
// the frame a newly attached view starts from. Typically implemented by the WebSocket Hub.
type DeskDelivery interface {
	Send(deskId string, data []byte)
	Remember(deskId string, frame []byte)
	Forget(deskId string)
}

// EventPublisher is the cross-instance bus. *nats.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   DeskDelivery
	events     EventPublisher
	logger     logger.ILogger
}

// NewConsumerService forwards desk events to the attached views and announces
// session lifecycle changes on the event bus. bus may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	delivery DeskDelivery,
	bus EventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		events:     bus,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Desk events are snapshots; a broken one is never worth redelivering.
	defer msg.Ack()

	var event dto.DeskEventMessage
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal desk event", map[string]interface{}{"error": err.Error()})
		return
	}

	cs.delivery.Send(event.DeskId, msg.Payload)
	cs.rememberState(event, msg.Payload)

	if cs.events == nil {
		return
	}

	var busEvent *events.BaseEvent
	switch event.Type {
	case constant.DeskEventSessionPromoted:
		busEvent = &events.BaseEvent{
			Type: events.TypeSessionPromoted,
			Data: map[string]interface{}{
				"desk_id":    event.DeskId,
				"session_id": event.SessionId,
				"temp_id":    event.PreviousId,
			},
			OccurredAt: time.Now(),
		}
	case constant.DeskEventSessionEnded:
		busEvent = &events.BaseEvent{
			Type: events.TypeSessionEnded,
			Data: map[string]interface{}{
				"desk_id":    event.DeskId,
				"session_id": event.SessionId,
			},
			OccurredAt: time.Now(),
		}
	default:
		return
	}

	if err := cs.events.Publish(ctx, busEvent); err != nil {
		cs.logger.Warn(consumerModule, "Failed to publish lifecycle event", map[string]interface{}{"type": busEvent.Type, "error": err.Error()})
	}
}

func (cs *consumerService) rememberState(event dto.DeskEventMessage, payload []byte) {
	switch event.Type {
	case constant.DeskEventStateChanged:
		cs.delivery.Remember(event.DeskId, payload)
	case constant.DeskEventSessionEnded:
		// The desk stays open without a session.
		frame, err := json.Marshal(dto.DeskEventMessage{DeskId: event.DeskId, Type: constant.DeskEventStateChanged})
		if err != nil {
			return
		}
		cs.delivery.Remember(event.DeskId, frame)
	case constant.DeskEventDeskClosed:
		cs.delivery.Forget(event.DeskId)
	}
}
