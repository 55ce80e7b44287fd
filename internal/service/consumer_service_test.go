package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "desk.events.test"

func startConsumer(t *testing.T, bus EventPublisher) (IPublisherService, *fakeDelivery) {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = pubSub.Close()
	})

	delivery := &fakeDelivery{}
	consumer := NewConsumerService(pubSub, testTopic, delivery, bus, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	return NewPublisherService(testTopic, pubSub), delivery
}

func TestConsumerService_ForwardsToDesk(t *testing.T) {
	bus := &fakeBus{}
	publisher, delivery := startConsumer(t, bus)
	ctx := context.Background()

	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{DeskId: "d-1", Type: constant.DeskEventStateChanged}))
	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{DeskId: "d-1", Type: constant.DeskEventStateChanged}))
	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{DeskId: "d-2", Type: constant.DeskEventStateChanged}))

	assert.Eventually(t, func() bool {
		return delivery.count("d-1") == 2 && delivery.count("d-2") == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, bus.types())
}

func TestConsumerService_AnnouncesLifecycle(t *testing.T) {
	bus := &fakeBus{}
	publisher, delivery := startConsumer(t, bus)
	ctx := context.Background()

	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{
		DeskId: "d-1", Type: constant.DeskEventSessionPromoted, SessionId: "s-1", PreviousId: "TEMP-1-abcde",
	}))
	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{
		DeskId: "d-1", Type: constant.DeskEventSessionEnded, SessionId: "s-1",
	}))

	assert.Eventually(t, func() bool { return delivery.count("d-1") == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{events.TypeSessionPromoted, events.TypeSessionEnded}, bus.types())

	bus.mu.Lock()
	promoted := bus.published[0].Payload()
	bus.mu.Unlock()
	assert.Equal(t, "TEMP-1-abcde", promoted["temp_id"])
}

func TestConsumerService_WithoutBus(t *testing.T) {
	publisher, delivery := startConsumer(t, nil)

	require.NoError(t, publisher.SendMessage(context.Background(), dto.DeskEventMessage{
		DeskId: "d-3", Type: constant.DeskEventSessionEnded, SessionId: "s-3",
	}))

	assert.Eventually(t, func() bool { return delivery.count("d-3") == 1 }, time.Second, 10*time.Millisecond)
}

func TestConsumerService_KeepsStateForOtherInstances(t *testing.T) {
	publisher, delivery := startConsumer(t, nil)
	ctx := context.Background()

	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{
		DeskId: "d-4", Type: constant.DeskEventStateChanged, Session: &dto.SessionResponse{Id: "s-4"},
	}))
	assert.Eventually(t, func() bool {
		frame, ok := delivery.stored("d-4")
		if !ok {
			return false
		}
		var event dto.DeskEventMessage
		return json.Unmarshal(frame, &event) == nil && event.Session != nil && event.Session.Id == "s-4"
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{
		DeskId: "d-4", Type: constant.DeskEventSessionEnded, SessionId: "s-4",
	}))
	assert.Eventually(t, func() bool {
		frame, ok := delivery.stored("d-4")
		if !ok {
			return false
		}
		var event dto.DeskEventMessage
		return json.Unmarshal(frame, &event) == nil && event.Type == constant.DeskEventStateChanged && event.Session == nil
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, publisher.SendMessage(ctx, dto.DeskEventMessage{DeskId: "d-4", Type: constant.DeskEventDeskClosed}))
	assert.Eventually(t, func() bool {
		_, ok := delivery.stored("d-4")
		return !ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, delivery.count("d-4"))
}
