package controller

import (
	"context"
	"net/http"
	"testing"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/internal/service"
	"sales-assist-bff/pkg/analysis"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminSecret = "controller-test-secret"

type stubKnowledgeBase struct {
	added []analysis.AddNuggetRequest
}

func (s *stubKnowledgeBase) ListNuggets(ctx context.Context, language string) ([]analysis.Nugget, error) {
	return []analysis.Nugget{
		{Id: "n-1", Payload: analysis.NuggetPayload{Title: "Raty 0%", Content: "Finansowanie", Language: language}},
	}, nil
}

func (s *stubKnowledgeBase) AddNugget(ctx context.Context, req analysis.AddNuggetRequest) error {
	s.added = append(s.added, req)
	return nil
}

func (s *stubKnowledgeBase) DeleteNugget(ctx context.Context, nuggetId string) error { return nil }

func (s *stubKnowledgeBase) ListGoldenStandards(ctx context.Context, language string) ([]analysis.GoldenStandard, error) {
	return nil, nil
}

func (s *stubKnowledgeBase) CreateGoldenStandard(ctx context.Context, req analysis.CreateGoldenStandardRequest) error {
	return nil
}

func (s *stubKnowledgeBase) FeedbackGrouped(ctx context.Context, language string) ([]analysis.FeedbackGroup, error) {
	return nil, nil
}

func (s *stubKnowledgeBase) FeedbackDetails(ctx context.Context, note, language string) ([]analysis.FeedbackDetail, error) {
	return nil, nil
}

func (s *stubKnowledgeBase) AnalyticsDashboard(ctx context.Context, query analysis.AnalyticsQuery) (analysis.AnalyticsDashboard, error) {
	return analysis.AnalyticsDashboard{}, nil
}

func setupAdminApp(t *testing.T, kb service.KnowledgeBase) *fiber.App {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := service.NewAdminService(service.AdminConfig{
		Username:     "admin",
		PasswordHash: string(hash),
		JwtSecret:    adminSecret,
	}, kb, nil, nil, logger.NewNopLogger())

	app := newTestApp()
	NewAdminController(svc, adminSecret).RegisterRoutes(app.Group("/api"))
	return app
}

func signToken(t *testing.T, secret, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()

	code, env := doRequest(t, app, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, code)

	var res dto.AdminLoginResponse
	decodeData(t, env, &res)
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func TestAdminController_Login(t *testing.T) {
	app := setupAdminApp(t, &stubKnowledgeBase{})

	t.Run("valid credentials", func(t *testing.T) {
		token := login(t, app)
		code, _ := doRequest(t, app, http.MethodGet, "/api/admin/nuggets", "", "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("wrong password", func(t *testing.T) {
		code, env := doRequest(t, app, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, service.ErrInvalidCredentials.Error(), env.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		code, _ := doRequest(t, app, http.MethodPost, "/api/admin/login", `{"username":"admin"}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestAdminController_TokenGuard(t *testing.T) {
	app := setupAdminApp(t, &stubKnowledgeBase{})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic YWRtaW46czNjcmV0", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + signToken(t, "other-secret", constant.RoleAdmin), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signToken(t, adminSecret, "seller"), http.StatusForbidden},
		{"admin token", "Bearer " + signToken(t, adminSecret, constant.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.header != "" {
				headers = []string{"Authorization", tt.header}
			}
			code, _ := doRequest(t, app, http.MethodGet, "/api/admin/logs", "", headers...)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestAdminController_Nuggets(t *testing.T) {
	kb := &stubKnowledgeBase{}
	app := setupAdminApp(t, kb)
	auth := "Bearer " + login(t, app)

	code, env := doRequest(t, app, http.MethodGet, "/api/admin/nuggets?language=en", "", "Authorization", auth)
	require.Equal(t, http.StatusOK, code)

	var nuggets []dto.NuggetResponse
	decodeData(t, env, &nuggets)
	require.Len(t, nuggets, 1)
	assert.Equal(t, "n-1", nuggets[0].Id)
	assert.Equal(t, "en", nuggets[0].Language)

	code, _ = doRequest(t, app, http.MethodGet, "/api/admin/nuggets?language=de", "", "Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doRequest(t, app, http.MethodPost, "/api/admin/nuggets",
		`{"title":"Dostawa","content":"Darmowa dostawa od 500 zł","language":"pl"}`, "Authorization", auth)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, kb.added, 1)
	assert.Equal(t, "Dostawa", kb.added[0].Title)
}

func TestAdminController_LogsWithoutReader(t *testing.T) {
	app := setupAdminApp(t, &stubKnowledgeBase{})
	auth := "Bearer " + login(t, app)

	code, _ := doRequest(t, app, http.MethodGet, "/api/admin/logs?level=TRACE", "", "Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := doRequest(t, app, http.MethodGet, "/api/admin/logs/abc123", "", "Authorization", auth)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, service.ErrLogNotFound.Error(), env.Message)
}
