package analysis

import (
	"encoding/json"
	"strings"
)

// Envelope is the response wrapper used by every analysis service endpoint.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Detail  string          `json:"detail,omitempty"`
}

const (
	EnvelopeStatusSuccess = "success"
	EnvelopeStatusFail    = "fail"
	EnvelopeStatusError   = "error"
)

// --- Sessions ---

type NewSessionResponse struct {
	SessionId string `json:"session_id"`
}

type SendRequest struct {
	SessionId    string `json:"session_id"`
	UserInput    string `json:"user_input"`
	JourneyStage string `json:"journey_stage"`
	Language     string `json:"language"`
}

type SendResponse struct {
	SessionId          string   `json:"session_id"`
	SuggestedResponse  string   `json:"suggested_response,omitempty"`
	SuggestedQuestions []string `json:"suggested_questions,omitempty"`
	OptionalFollowup   *string  `json:"optional_followup,omitempty"`
	SellerQuestions    []string `json:"seller_questions,omitempty"`
	ClientStyle        string   `json:"client_style,omitempty"`
	ConfidenceScore    *float64 `json:"confidence_score,omitempty"`
	ConfidenceReason   string   `json:"confidence_reason,omitempty"`
}

type RetrySlowPathRequest struct {
	SessionId string `json:"session_id"`
}

type EndSessionRequest struct {
	SessionId   string `json:"session_id"`
	FinalStatus string `json:"final_status"`
}

type FeedbackRequest struct {
	SessionId    string `json:"session_id"`
	MessageIndex int    `json:"message_index"`
	Sentiment    string `json:"sentiment"`
	UserComment  string `json:"user_comment"`
	Context      string `json:"context"`
}

type RefineRequest struct {
	SessionId    string `json:"session_id"`
	MessageIndex int    `json:"message_index"`
	UserComment  string `json:"user_comment"`
	Language     string `json:"language"`
}

type RefineResponse struct {
	RefinedSuggestion string `json:"refined_suggestion"`
}

type ConversationLogEntry struct {
	LogId        int64   `json:"log_id"`
	SessionId    string  `json:"session_id"`
	Timestamp    string  `json:"timestamp"`
	Role         string  `json:"role"`
	Content      string  `json:"content"`
	Language     string  `json:"language"`
	JourneyStage *string `json:"journey_stage,omitempty"`
}

type SlowPathLog struct {
	LogId      int64           `json:"log_id"`
	SessionId  string          `json:"session_id"`
	Timestamp  string          `json:"timestamp"`
	JsonOutput json.RawMessage `json:"json_output"`
	Status     string          `json:"status"`
}

const SlowPathStatusSuccess = "Success"

// Failed reports whether the row records a failed analysis. Rows without a status
// count as successful.
func (l *SlowPathLog) Failed() bool {
	return l.Status != "" && !strings.EqualFold(l.Status, SlowPathStatusSuccess)
}

type SessionSnapshot struct {
	ConversationLog []ConversationLogEntry `json:"conversation_log"`
	CurrentStage    string                 `json:"current_stage,omitempty"`
	SlowPathLog     *SlowPathLog           `json:"slow_path_log,omitempty"`
}

// --- Admin ---

type NuggetPayload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Keywords        string   `json:"keywords"`
	Language        string   `json:"language"`
	Type            string   `json:"type,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	ArchetypeFilter []string `json:"archetype_filter,omitempty"`
}

type Nugget struct {
	Id      string        `json:"id"`
	Payload NuggetPayload `json:"payload"`
}

type NuggetList struct {
	Nuggets []Nugget `json:"nuggets"`
}

type AddNuggetRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Keywords string `json:"keywords"`
	Language string `json:"language"`
}

type GoldenStandard struct {
	Id             json.RawMessage `json:"id,omitempty"`
	TriggerContext string          `json:"trigger_context"`
	GoldenResponse string          `json:"golden_response"`
	Category       string          `json:"category"`
	Language       string          `json:"language"`
	Tags           []string        `json:"tags,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}

type GoldenStandardList struct {
	Standards []GoldenStandard `json:"standards"`
}

type CreateGoldenStandardRequest struct {
	TriggerContext string `json:"trigger_context"`
	GoldenResponse string `json:"golden_response"`
	Language       string `json:"language"`
	Category       string `json:"category"`
}

type FeedbackGroup struct {
	ThemeName          string `json:"theme_name"`
	Count              int    `json:"count"`
	RepresentativeNote string `json:"representative_note"`
}

type FeedbackGrouping struct {
	Groups []FeedbackGroup `json:"groups"`
}

type FeedbackDetail struct {
	FeedbackId    int64  `json:"feedback_id"`
	OriginalInput string `json:"original_input"`
	BadSuggestion string `json:"bad_suggestion"`
	FeedbackNote  string `json:"feedback_note"`
}

type FeedbackDetails struct {
	Details []FeedbackDetail `json:"details"`
}

// AnalyticsDashboard is passed through untouched; chart rendering lives in the view.
type AnalyticsDashboard map[string]interface{}

type AnalyticsQuery struct {
	DateFrom string
	DateTo   string
	Language string
}
