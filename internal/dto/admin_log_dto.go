package dto

import "time"

// Note: LogListResponse uses string for Id because log IDs are MD5 hashes of the log line

type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}

type LogListQuery struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Level string `query:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
}
