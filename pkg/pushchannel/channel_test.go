package pushchannel

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sales-assist-bff/internal/pkg/logger"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var upgrader = websocket.Upgrader{}

type recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *recorder) handle(sessionId string, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testConfig(srv *httptest.Server, attempts int) Config {
	return Config{
		BaseURL:              wsURL(srv) + "/ws",
		ReconnectBaseDelay:   5 * time.Millisecond,
		MaxReconnectAttempts: attempts,
	}
}

func isDone(ch *Channel) bool {
	select {
	case <-ch.Done():
		return true
	default:
		return false
	}
}

func TestChannel_DeliversFramesAndClosesNormally(t *testing.T) {
	closeCode := make(chan int, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/sessions/42", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"slow_path_progress","progress":40}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"slow_path_update","data":{"overall_confidence":80}}`))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if ce, ok := err.(*websocket.CloseError); ok {
					closeCode <- ce.Code
				}
				return
			}
		}
	}))
	defer srv.Close()

	rec := &recorder{}
	ch := Open(testConfig(srv, 3), "42", rec.handle, logger.NewNopLogger())

	assert.Eventually(t, func() bool { return len(rec.types()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"slow_path_progress", "slow_path_update"}, rec.types())
	assert.True(t, ch.Connected())

	ch.Close()
	assert.True(t, isDone(ch))
	assert.False(t, ch.Connected())

	select {
	case code := <-closeCode:
		assert.Equal(t, websocket.CloseNormalClosure, code)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw a close frame")
	}
}

func TestChannel_StopsOnServerNormalClose(t *testing.T) {
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "analysis finished")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	ch := Open(testConfig(srv, 3), "42", (&recorder{}).handle, logger.NewNopLogger())

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("channel kept running after a normal close")
	}
	assert.Equal(t, int32(1), dials.Load())
	ch.Close()
}

func TestChannel_GivesUpAfterReconnectCeiling(t *testing.T) {
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ch := Open(testConfig(srv, 2), "42", (&recorder{}).handle, logger.NewNopLogger())

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("channel never gave up")
	}
	// The first dial plus two retries.
	assert.Equal(t, int32(3), dials.Load())
	ch.Close()
}

func TestChannel_ReconnectsAfterAbnormalClose(t *testing.T) {
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if n == 1 {
			// Drop the TCP connection without a close frame.
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"slow_path_update","data":{}}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	rec := &recorder{}
	ch := Open(testConfig(srv, 3), "42", rec.handle, logger.NewNopLogger())
	defer ch.Close()

	assert.Eventually(t, func() bool { return len(rec.types()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), dials.Load())
	assert.False(t, isDone(ch))
}

func TestSessionURL(t *testing.T) {
	assert.Equal(t, "ws://host/ws/sessions/42", SessionURL("ws://host/ws/", "42"))
	assert.Equal(t, "ws://host/ws/sessions/a%2Fb", SessionURL("ws://host/ws", "a/b"))
}

func TestMessage_ErrorText(t *testing.T) {
	assert.Equal(t, "boom", Message{Message: "boom", Error: "other"}.ErrorText())
	assert.Equal(t, "other", Message{Error: "other"}.ErrorText())
	assert.NotEmpty(t, Message{}.ErrorText())
	assert.True(t, Message{Type: "slow_path_update"}.IsUpdate())
	assert.False(t, Message{Type: "slow_path_progress"}.IsUpdate())
}
