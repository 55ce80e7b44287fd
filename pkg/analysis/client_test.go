package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, code int, env map[string]interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func TestClient_SendDecodesEnvelope(t *testing.T) {
	var got SendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sessions/send", r.URL.Path)
		assert.Empty(t, r.Header.Get(adminKeyHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		writeEnvelope(t, w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]interface{}{
				"session_id":          "42",
				"suggested_response":  "Zapytaj o budżet",
				"suggested_questions": []string{"Jaki budżet?"},
				"confidence_score":    0.8,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1/", "key", 5*time.Second)
	res, err := c.Send(context.Background(), SendRequest{SessionId: "TEMP-1", UserInput: "Dzień dobry", JourneyStage: "Odkrywanie", Language: "pl"})
	require.NoError(t, err)

	assert.Equal(t, "TEMP-1", got.SessionId)
	assert.Equal(t, "Dzień dobry", got.UserInput)
	assert.Equal(t, "42", res.SessionId)
	assert.Equal(t, "Zapytaj o budżet", res.SuggestedResponse)
	assert.Equal(t, []string{"Jaki budżet?"}, res.SuggestedQuestions)
	require.NotNil(t, res.ConfidenceScore)
	assert.InDelta(t, 0.8, *res.ConfidenceScore, 1e-9)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		env     map[string]interface{}
		status  int
		message string
	}{
		{"http error with message", http.StatusNotFound, map[string]interface{}{"status": "fail", "message": "Session not found"}, http.StatusNotFound, "Session not found"},
		{"http error with detail", http.StatusUnprocessableEntity, map[string]interface{}{"detail": "bad input"}, http.StatusUnprocessableEntity, "bad input"},
		{"success code with error status", http.StatusOK, map[string]interface{}{"status": "error", "message": "LLM timeout"}, http.StatusOK, "LLM timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, tt.code, tt.env)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", time.Second).GetSession(context.Background(), "7")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, UserMessage(err))
			assert.False(t, IsTransport(err))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewClient(url, "", time.Second).RetrySlowPath(context.Background(), "7")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, connectivityMessage, UserMessage(err))
}

func TestClient_AdminCallsCarryKeyAndLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/rag/list", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(adminKeyHeader))
		assert.Equal(t, "en", r.URL.Query().Get("language"))

		writeEnvelope(t, w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]interface{}{
				"nuggets": []map[string]interface{}{
					{"id": "n-1", "payload": map[string]interface{}{"title": "Free delivery", "content": "Over 500", "language": "en"}},
				},
			},
		})
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL, "secret", time.Second).ListNuggets(context.Background(), "en")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n-1", list[0].Id)
	assert.Equal(t, "Free delivery", list[0].Payload.Title)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).CreateSession(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "malformed response")
}
