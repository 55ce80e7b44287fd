package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"sales-assist-bff/internal/pkg/serverutils"
	"sales-assist-bff/internal/session"
	"sales-assist-bff/pkg/analysis"
	"sales-assist-bff/pkg/pushchannel"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type stubCollaborator struct {
	mu     sync.Mutex
	sendFn func(req analysis.SendRequest) (*analysis.SendResponse, error)
}

func (s *stubCollaborator) Send(ctx context.Context, req analysis.SendRequest) (*analysis.SendResponse, error) {
	s.mu.Lock()
	fn := s.sendFn
	s.mu.Unlock()
	if fn == nil {
		return &analysis.SendResponse{SessionId: "s-1", SuggestedResponse: "Zapytaj o termin"}, nil
	}
	return fn(req)
}

func (s *stubCollaborator) RetrySlowPath(ctx context.Context, sessionId string) error { return nil }

func (s *stubCollaborator) EndSession(ctx context.Context, sessionId, finalStatus string) error {
	return nil
}

func (s *stubCollaborator) SendFeedback(ctx context.Context, req analysis.FeedbackRequest) error {
	return nil
}

func (s *stubCollaborator) Refine(ctx context.Context, req analysis.RefineRequest) (string, error) {
	return "Krótsza wersja", nil
}

func (s *stubCollaborator) GetSession(ctx context.Context, sessionId string) (*analysis.SessionSnapshot, error) {
	if sessionId == "missing" {
		return nil, &analysis.APIError{Op: "get session", StatusCode: http.StatusNotFound, Message: "Session not found"}
	}
	stage := "Analysis"
	return &analysis.SessionSnapshot{
		ConversationLog: []analysis.ConversationLogEntry{
			{LogId: 1, SessionId: sessionId, Role: "Sprzedawca", Content: "Klient wraca", Language: "pl", JourneyStage: &stage},
		},
		CurrentStage: "Analiza",
	}, nil
}

type stubChannel struct {
	once sync.Once
	done chan struct{}
}

func (c *stubChannel) Close() { c.once.Do(func() { close(c.done) }) }

func (c *stubChannel) Done() <-chan struct{} { return c.done }

type stubOpener struct{}

func (stubOpener) Open(sessionId string, handler pushchannel.Handler) session.Channel {
	return &stubChannel{done: make(chan struct{})}
}

type nopPublisher struct{}

func (nopPublisher) SendMessage(ctx context.Context, payload any) error { return nil }

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	return app
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
