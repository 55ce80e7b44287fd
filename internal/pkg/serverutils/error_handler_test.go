package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sales-assist-bff/pkg/analysis"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Language string `json:"language" validate:"omitempty,oneof=pl en"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		status  string
		message string
	}{
		{"fiber error", fiber.NewError(fiber.StatusConflict, "busy"), http.StatusConflict, StatusFail, "busy"},
		{"validation", ValidateRequest(&loginForm{Language: "de"}), http.StatusBadRequest, StatusFail, "validation failed: Language failed on oneof, Username failed on required"},
		{"upstream not found", fmt.Errorf("load: %w", &analysis.APIError{Op: "get", StatusCode: 404, Message: "Session not found"}), http.StatusNotFound, StatusFail, "Session not found"},
		{"upstream failure", &analysis.APIError{Op: "refine", StatusCode: 500, Message: "LLM down"}, http.StatusBadGateway, StatusError, "LLM down"},
		{"transport", &analysis.TransportError{Op: "send", Err: errors.New("dial tcp")}, http.StatusServiceUnavailable, StatusError, analysis.UserMessage(&analysis.TransportError{})},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, StatusError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(ctx *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body Response[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestSuccessResponse(t *testing.T) {
	data, err := json.Marshal(SuccessResponse("ok", map[string]int{"n": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","message":"ok","data":{"n":1}}`, string(data))
}
