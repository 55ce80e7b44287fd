package websocket

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"sales-assist-bff/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping integration test: redis unreachable: %v", err)
	}
	return client
}

func runHub(t *testing.T, hub *Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
}

func TestHub_Redis_ViewOnOtherInstance(t *testing.T) {
	client := redisClient(t)
	owner := NewHub(client, time.Minute, logger.NewNopLogger())
	other := NewHub(client, time.Minute, logger.NewNopLogger())
	runHub(t, owner)
	runHub(t, other)

	deskId := "test-desk-" + uuid.NewString()
	t.Cleanup(func() { owner.Forget(deskId) })

	owner.Remember(deskId, []byte(`{"type":"session_state"}`))
	frame, ok := other.LastState(context.Background(), deskId)
	require.True(t, ok)
	assert.JSONEq(t, `{"type":"session_state"}`, string(frame))

	view := &Client{Hub: other, DeskId: deskId, Send: make(chan []byte, 256)}
	require.True(t, other.attach(view))

	// The subscription of the other instance starts asynchronously.
	assert.Eventually(t, func() bool {
		owner.Send(deskId, []byte("event"))
		select {
		case msg := <-view.Send:
			return string(msg) == "event"
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	owner.Forget(deskId)
	_, ok = other.LastState(context.Background(), deskId)
	assert.False(t, ok)
}
