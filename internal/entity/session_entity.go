package entity

import "time"

type Feedback struct {
	Sentiment string
	Comment   string
	UpdatedAt time.Time
}

type ConversationEntry struct {
	LogId        int64
	Role         string
	Content      string
	Timestamp    time.Time
	Language     string
	JourneyStage string
	Feedback     *Feedback

	// Optimistic is true while the seller entry's fast-path request is in flight
	Optimistic bool
}

// FastPathMetadata is the non-conversational part of a fast-path answer.
type FastPathMetadata struct {
	SuggestedQuestions []string
	OptionalFollowup   string
	SellerQuestions    []string
	ClientStyle        string
	ConfidenceScore    float64
	ConfidenceReason   string
}

type Session struct {
	Id             string
	Status         string
	CurrentStage   string
	SuggestedStage string
	Language       string
	Entries        []ConversationEntry
	Enrichment     *EnrichmentResult
	LastError      string
	Progress       int
	FastPath       *FastPathMetadata
	CreatedAt      time.Time
}

type RecentSession struct {
	Id          string
	Context     string
	FinalStatus string
	Timestamp   time.Time
}
