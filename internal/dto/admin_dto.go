package dto

import "time"

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// --- Knowledge base ---

type LanguageQuery struct {
	Language string `query:"language" validate:"omitempty,oneof=pl en"`
}

type NuggetResponse struct {
	Id              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Keywords        string   `json:"keywords"`
	Language        string   `json:"language"`
	Type            string   `json:"type,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	ArchetypeFilter []string `json:"archetype_filter,omitempty"`
}

type AddNuggetRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Keywords string `json:"keywords"`
	Language string `json:"language" validate:"required,oneof=pl en"`
}

type GoldenStandardResponse struct {
	Id             string     `json:"id"`
	TriggerContext string     `json:"trigger_context"`
	GoldenResponse string     `json:"golden_response"`
	Category       string     `json:"category"`
	Language       string     `json:"language"`
	Tags           []string   `json:"tags,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

type CreateGoldenStandardRequest struct {
	TriggerContext string `json:"trigger_context" validate:"required"`
	GoldenResponse string `json:"golden_response" validate:"required"`
	Category       string `json:"category"`
	Language       string `json:"language" validate:"required,oneof=pl en"`
}

// --- Feedback & analytics ---

type FeedbackGroupResponse struct {
	ThemeName          string `json:"theme_name"`
	Count              int    `json:"count"`
	RepresentativeNote string `json:"representative_note"`
}

type FeedbackDetailsQuery struct {
	Note     string `query:"note" validate:"required"`
	Language string `query:"language" validate:"omitempty,oneof=pl en"`
}

type FeedbackDetailResponse struct {
	FeedbackId    int64  `json:"feedback_id"`
	OriginalInput string `json:"original_input"`
	BadSuggestion string `json:"bad_suggestion"`
	FeedbackNote  string `json:"feedback_note"`
}

type AnalyticsQuery struct {
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	Language string `query:"language" validate:"omitempty,oneof=pl en"`
}
