package dto

import "time"

type OpenDeskResponse struct {
	DeskId  string           `json:"desk_id"`
	Session *SessionResponse `json:"session"`
}

type SendMessageRequest struct {
	Text     string `json:"text" validate:"required"`
	Stage    string `json:"stage"`
	Language string `json:"language" validate:"omitempty,oneof=pl en"`
}

type AnswerQuestionRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type FeedbackRequest struct {
	EntryIndex *int   `json:"entry_index" validate:"required,min=0"`
	Sentiment  string `json:"sentiment" validate:"required"`
	Comment    string `json:"comment"`
}

type RefineRequest struct {
	EntryIndex *int   `json:"entry_index" validate:"required,min=0"`
	Comment    string `json:"comment"`
}

type RefineResponse struct {
	RefinedSuggestion string `json:"refined_suggestion"`
}

type SetStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type EndSessionRequest struct {
	Outcome string `json:"outcome" validate:"required"`
}

type ResumeSessionRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type RecentSessionResponse struct {
	Id          string    `json:"id"`
	Context     string    `json:"context"`
	FinalStatus string    `json:"final_status"`
	Timestamp   time.Time `json:"timestamp"`
}

// DeskEventMessage is what the view WebSocket receives and what travels on the desk event topic.
type DeskEventMessage struct {
	DeskId     string           `json:"desk_id"`
	Type       string           `json:"type"`
	SessionId  string           `json:"session_id,omitempty"`
	PreviousId string           `json:"previous_id,omitempty"`
	Session    *SessionResponse `json:"session,omitempty"`
}

// --- Session view ---

type SessionResponse struct {
	Id             string                  `json:"id"`
	Status         string                  `json:"status"`
	CurrentStage   string                  `json:"current_stage"`
	SuggestedStage string                  `json:"suggested_stage,omitempty"`
	Language       string                  `json:"language"`
	LastError      string                  `json:"last_error,omitempty"`
	Progress       int                     `json:"progress"`
	Entries        []ConversationEntryView `json:"entries"`
	FastPath       *FastPathMetadataView   `json:"fast_path,omitempty"`
	Enrichment     *EnrichmentResultView   `json:"enrichment,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

type FeedbackView struct {
	Sentiment string    `json:"sentiment"`
	Comment   string    `json:"comment,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationEntryView struct {
	Index        int           `json:"index"`
	Role         string        `json:"role"`
	Content      string        `json:"content"`
	Timestamp    time.Time     `json:"timestamp"`
	Language     string        `json:"language"`
	JourneyStage string        `json:"journey_stage"`
	Optimistic   bool          `json:"optimistic,omitempty"`
	Feedback     *FeedbackView `json:"feedback,omitempty"`
}

type FastPathMetadataView struct {
	SuggestedQuestions []string `json:"suggested_questions"`
	OptionalFollowup   string   `json:"optional_followup,omitempty"`
	SellerQuestions    []string `json:"seller_questions"`
	ClientStyle        string   `json:"client_style"`
	ConfidenceScore    float64  `json:"confidence_score"`
	ConfidenceReason   string   `json:"confidence_reason,omitempty"`
}

type EnrichmentResultView struct {
	Sequence          int64                 `json:"sequence"`
	ProducedAt        time.Time             `json:"produced_at"`
	OverallConfidence float64               `json:"overall_confidence"`
	SuggestedStage    string                `json:"suggested_stage,omitempty"`
	Modules           EnrichmentModulesView `json:"modules"`
}

type EnrichmentModulesView struct {
	DnaClient           DnaClientView           `json:"dna_client"`
	TacticalIndicators  TacticalIndicatorsView  `json:"tactical_indicators"`
	PsychometricProfile PsychometricProfileView `json:"psychometric_profile"`
	DeepMotivation      DeepMotivationView      `json:"deep_motivation"`
	PredictivePaths     PredictivePathsView     `json:"predictive_paths"`
	StrategicPlaybook   StrategicPlaybookView   `json:"strategic_playbook"`
	DecisionVectors     DecisionVectorsView     `json:"decision_vectors"`
}

type KeyLeverView struct {
	Argument  string `json:"argument"`
	Rationale string `json:"rationale"`
}

type DnaClientView struct {
	ConfidenceScore    float64        `json:"confidence_score"`
	HolisticSummary    string         `json:"holistic_summary"`
	MainMotivation     string         `json:"main_motivation"`
	CommunicationStyle string         `json:"communication_style"`
	KeyLevers          []KeyLeverView `json:"key_levers"`
	RedFlags           []string       `json:"red_flags"`
}

type RiskView struct {
	Level      string  `json:"level"`
	Percentage float64 `json:"percentage"`
	Reason     string  `json:"reason"`
}

type TacticalIndicatorsView struct {
	ConfidenceScore     float64  `json:"confidence_score"`
	PurchaseTemperature float64  `json:"purchase_temperature"`
	TemperatureLabel    string   `json:"temperature_label"`
	ChurnRisk           RiskView `json:"churn_risk"`
	FunDriveRisk        RiskView `json:"fun_drive_risk"`
}

type TraitView struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

type RationaleValueView struct {
	Value     string `json:"value"`
	Rationale string `json:"rationale"`
}

type PsychometricProfileView struct {
	ConfidenceScore   float64              `json:"confidence_score"`
	DiscType          string               `json:"disc_type"`
	DiscRationale     string               `json:"disc_rationale"`
	Openness          TraitView            `json:"openness"`
	Conscientiousness TraitView            `json:"conscientiousness"`
	Extraversion      TraitView            `json:"extraversion"`
	Agreeableness     TraitView            `json:"agreeableness"`
	Neuroticism       TraitView            `json:"neuroticism"`
	SchwartzValues    []RationaleValueView `json:"schwartz_values"`
}

type DeepMotivationView struct {
	ConfidenceScore float64  `json:"confidence_score"`
	KeyInsight      string   `json:"key_insight"`
	EvidenceQuotes  []string `json:"evidence_quotes"`
	TeslaHook       string   `json:"tesla_hook"`
}

type PredictedPathView struct {
	Path            string   `json:"path"`
	Probability     float64  `json:"probability"`
	Recommendations []string `json:"recommendations"`
}

type PredictivePathsView struct {
	ConfidenceScore float64             `json:"confidence_score"`
	Paths           []PredictedPathView `json:"paths"`
}

type PlayView struct {
	Title           string   `json:"title"`
	Trigger         string   `json:"trigger"`
	Content         []string `json:"content"`
	ConfidenceScore float64  `json:"confidence_score"`
}

type StrategicPlaybookView struct {
	ConfidenceScore float64    `json:"confidence_score"`
	Plays           []PlayView `json:"plays"`
}

type DecisionVectorView struct {
	Stakeholder     string  `json:"stakeholder"`
	Influence       string  `json:"influence"`
	Vector          string  `json:"vector"`
	Focus           string  `json:"focus"`
	Strategy        string  `json:"strategy"`
	ConfidenceScore float64 `json:"confidence_score"`
}

type DecisionVectorsView struct {
	ConfidenceScore float64              `json:"confidence_score"`
	Vectors         []DecisionVectorView `json:"vectors"`
}
