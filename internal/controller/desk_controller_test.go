package controller

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/internal/repository/memory"
	"sales-assist-bff/internal/service"
	"sales-assist-bff/internal/session"
	"sales-assist-bff/pkg/analysis"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDeskApp(t *testing.T, collab *stubCollaborator) *fiber.App {
	t.Helper()

	cfg := service.DeskConfig{
		Session: session.Config{Poll: session.PollConfig{IdleThreshold: time.Hour}},
	}
	svc := service.NewDeskService(cfg, collab, stubOpener{}, memory.NewRecentSessionRepository(), nopPublisher{}, logger.NewNopLogger())
	t.Cleanup(svc.Shutdown)

	app := newTestApp()
	NewDeskController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func openDesk(t *testing.T, app *fiber.App) dto.OpenDeskResponse {
	t.Helper()

	code, env := doRequest(t, app, http.MethodPost, "/api/desks", "")
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "success", env.Status)

	var res dto.OpenDeskResponse
	decodeData(t, env, &res)
	require.NotEmpty(t, res.DeskId)
	return res
}

func TestDeskController_OpenAndShow(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})

	desk := openDesk(t, app)
	assert.True(t, session.IsTempId(desk.Session.Id))
	assert.Equal(t, constant.SessionStatusIdle, desk.Session.Status)
	assert.Empty(t, desk.Session.Entries)

	code, env := doRequest(t, app, http.MethodGet, "/api/desks/"+desk.DeskId, "")
	require.Equal(t, http.StatusOK, code)

	var shown dto.SessionResponse
	decodeData(t, env, &shown)
	assert.Equal(t, desk.Session.Id, shown.Id)
}

func TestDeskController_UnknownDesk(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})

	code, env := doRequest(t, app, http.MethodGet, "/api/desks/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "fail", env.Status)
	assert.Equal(t, service.ErrDeskNotFound.Error(), env.Message)

	code, _ = doRequest(t, app, http.MethodDelete, "/api/desks/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeskController_SendMessagePromotesSession(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})
	desk := openDesk(t, app)

	code, env := doRequest(t, app, http.MethodPost, "/api/desks/"+desk.DeskId+"/messages",
		`{"text":"Klient pyta o cenę","language":"pl"}`)
	require.Equal(t, http.StatusOK, code)

	var s dto.SessionResponse
	decodeData(t, env, &s)
	assert.Equal(t, "s-1", s.Id)
	require.Len(t, s.Entries, 2)
	assert.Equal(t, constant.ConversationRoleSeller, s.Entries[0].Role)
	assert.Equal(t, "Zapytaj o termin", s.Entries[1].Content)

	code, env = doRequest(t, app, http.MethodPost, "/api/desks/"+desk.DeskId+"/refine",
		`{"entry_index":1,"comment":"krócej"}`)
	require.Equal(t, http.StatusOK, code)

	var refined dto.RefineResponse
	decodeData(t, env, &refined)
	assert.Equal(t, "Krótsza wersja", refined.RefinedSuggestion)
}

func TestDeskController_UpstreamFailureIsReportedInState(t *testing.T) {
	collab := &stubCollaborator{sendFn: func(req analysis.SendRequest) (*analysis.SendResponse, error) {
		return nil, &analysis.TransportError{Op: "send", Err: errors.New("connection refused")}
	}}
	app := setupDeskApp(t, collab)
	desk := openDesk(t, app)

	code, env := doRequest(t, app, http.MethodPost, "/api/desks/"+desk.DeskId+"/messages", `{"text":"Dzień dobry"}`)
	require.Equal(t, http.StatusOK, code)

	var s dto.SessionResponse
	decodeData(t, env, &s)
	assert.Equal(t, constant.SessionStatusError, s.Status)
	assert.NotEmpty(t, s.LastError)
}

func TestDeskController_RequestValidation(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})
	desk := openDesk(t, app)
	base := "/api/desks/" + desk.DeskId

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"malformed body", http.MethodPost, base + "/messages", `{"text":`, http.StatusBadRequest},
		{"missing text", http.MethodPost, base + "/messages", `{}`, http.StatusBadRequest},
		{"unsupported language", http.MethodPost, base + "/messages", `{"text":"hi","language":"de"}`, http.StatusBadRequest},
		{"unknown stage", http.MethodPut, base + "/stage", `{"stage":"Negotiation"}`, http.StatusBadRequest},
		{"invalid outcome", http.MethodPost, base + "/end", `{"outcome":"maybe"}`, http.StatusBadRequest},
		{"feedback without index", http.MethodPost, base + "/feedback", `{"sentiment":"positive"}`, http.StatusBadRequest},
		{"retry on temporary session", http.MethodPost, base + "/retry", "", http.StatusConflict},
		{"resume with temporary id", http.MethodPost, base + "/session/resume", `{"session_id":"TEMP-1700000000000-abcde"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := doRequest(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, "fail", env.Status)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestDeskController_SetStageAcceptsEitherLanguage(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})
	desk := openDesk(t, app)

	code, env := doRequest(t, app, http.MethodPut, "/api/desks/"+desk.DeskId+"/stage", `{"stage":"Decision"}`)
	require.Equal(t, http.StatusOK, code)

	var s dto.SessionResponse
	decodeData(t, env, &s)
	assert.Equal(t, constant.JourneyStageDecision, s.CurrentStage)
}

func TestDeskController_EndSessionThenConflict(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})
	desk := openDesk(t, app)
	base := "/api/desks/" + desk.DeskId

	code, _ := doRequest(t, app, http.MethodPost, base+"/messages", `{"text":"Klient zainteresowany modelem"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, app, http.MethodPost, base+"/end", `{"outcome":"success"}`)
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, app, http.MethodPost, base+"/messages", `{"text":"Jeszcze jedno"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, session.ErrNoSession.Error(), env.Message)

	code, env = doRequest(t, app, http.MethodGet, "/api/desks/recent", "")
	require.Equal(t, http.StatusOK, code)

	var recent []dto.RecentSessionResponse
	decodeData(t, env, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, "s-1", recent[0].Id)
	assert.Equal(t, constant.SessionOutcomeSuccess, recent[0].FinalStatus)
}

func TestDeskController_ResumeSession(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})
	desk := openDesk(t, app)
	base := "/api/desks/" + desk.DeskId

	code, env := doRequest(t, app, http.MethodPost, base+"/session/resume", `{"session_id":"s-42"}`)
	require.Equal(t, http.StatusOK, code)

	var s dto.SessionResponse
	decodeData(t, env, &s)
	assert.Equal(t, "s-42", s.Id)
	assert.Equal(t, constant.JourneyStageAnalysis, s.CurrentStage)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, "Klient wraca", s.Entries[0].Content)

	code, env = doRequest(t, app, http.MethodPost, base+"/session/resume", `{"session_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "fail", env.Status)
}

func TestDeskController_CloseReleasesDesk(t *testing.T) {
	app := setupDeskApp(t, &stubCollaborator{})
	desk := openDesk(t, app)

	code, _ := doRequest(t, app, http.MethodDelete, "/api/desks/"+desk.DeskId, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, app, http.MethodGet, "/api/desks/"+desk.DeskId, "")
	assert.Equal(t, http.StatusNotFound, code)
}
