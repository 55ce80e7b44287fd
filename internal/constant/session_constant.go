package constant

import "time"

// Session identifiers
const (
	TempSessionPrefix = "TEMP-"
)

// Journey stages (canonical values sent to the analysis service)
const (
	JourneyStageDiscovery = "Odkrywanie"
	JourneyStageAnalysis  = "Analiza"
	JourneyStageDecision  = "Decyzja"
)

// Conversation roles as stored by the analysis service
const (
	ConversationRoleSeller    = "Sprzedawca"
	ConversationRoleFastPath  = "FastPath"
	ConversationRoleQuestions = "FastPath-Questions"
)

// Session status
const (
	SessionStatusIdle                 = "idle"
	SessionStatusAwaitingFastResponse = "fast_path_loading"
	SessionStatusAwaitingEnrichment   = "slow_path_loading"
	SessionStatusError                = "error"
)

// Languages
const (
	LanguagePolish  = "pl"
	LanguageEnglish = "en"
)

// Feedback sentiment
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
)

// Final session outcomes
const (
	SessionOutcomeSuccess = "success"
	SessionOutcomeFail    = "fail"
)

// Push channel message types
const (
	PushMessageSlowPathUpdate   = "slow_path_update"
	PushMessageSlowPathComplete = "slow_path_complete" // legacy alias of slow_path_update
	PushMessageSlowPathError    = "slow_path_error"
	PushMessageSlowPathProgress = "slow_path_progress"
)

// Desk (view) event types
const (
	DeskEventStateChanged    = "session_state"
	DeskEventSessionPromoted = "session_promoted"
	DeskEventSessionEnded    = "session_ended"
	DeskEventDeskClosed      = "desk_closed"
)

// Recent sessions
const (
	RecentSessionsLimit      = 10
	RecentSessionContextSize = 50
	RecentSessionDefaultText = "New session"
)

// Defaults for the asynchronous enrichment delivery
const (
	DefaultReconnectBaseDelay   = 2 * time.Second
	DefaultMaxReconnectAttempts = 5
	DefaultPollIdleThreshold    = 60 * time.Second
	DefaultPollInterval         = 5 * time.Second
	DefaultPollMaxDuration      = 2 * time.Minute
)

const DefaultSlowPathErrorMessage = "Slow Path analysis failed"

// Admin
const (
	RoleAdmin = "admin"
)
