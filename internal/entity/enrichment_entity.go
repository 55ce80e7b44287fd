package entity

import "time"

// EnrichmentResult is the slow-path analysis of a session. Newer results replace
// older ones wholesale. Round is the local request round the result answers;
// Sequence is the upstream ordering key, when the upstream sends one.
type EnrichmentResult struct {
	Round             uint64
	Sequence          int64
	ProducedAt        time.Time
	OverallConfidence float64
	SuggestedStage    string
	Modules           EnrichmentModules
}

type EnrichmentModules struct {
	DnaClient           DnaClientModule
	TacticalIndicators  TacticalIndicatorsModule
	PsychometricProfile PsychometricProfileModule
	DeepMotivation      DeepMotivationModule
	PredictivePaths     PredictivePathsModule
	StrategicPlaybook   StrategicPlaybookModule
	DecisionVectors     DecisionVectorsModule
}

type KeyLever struct {
	Argument  string
	Rationale string
}

type DnaClientModule struct {
	ConfidenceScore    float64
	HolisticSummary    string
	MainMotivation     string
	CommunicationStyle string
	KeyLevers          []KeyLever
	RedFlags           []string
}

type RiskIndicator struct {
	Level      string
	Percentage float64
	Reason     string
}

type TacticalIndicatorsModule struct {
	ConfidenceScore     float64
	PurchaseTemperature float64
	TemperatureLabel    string
	ChurnRisk           RiskIndicator
	FunDriveRisk        RiskIndicator
}

type TraitScore struct {
	Level string
	Score float64
}

type RationaleValue struct {
	Value     string
	Rationale string
}

type PsychometricProfileModule struct {
	ConfidenceScore   float64
	DiscType          string
	DiscRationale     string
	Openness          TraitScore
	Conscientiousness TraitScore
	Extraversion      TraitScore
	Agreeableness     TraitScore
	Neuroticism       TraitScore
	SchwartzValues    []RationaleValue
}

type DeepMotivationModule struct {
	ConfidenceScore float64
	KeyInsight      string
	EvidenceQuotes  []string
	TeslaHook       string
}

type PredictedPath struct {
	Path            string
	Probability     float64
	Recommendations []string
}

type PredictivePathsModule struct {
	ConfidenceScore float64
	Paths           []PredictedPath
}

type Play struct {
	Title           string
	Trigger         string
	Content         []string
	ConfidenceScore float64
}

type StrategicPlaybookModule struct {
	ConfidenceScore float64
	Plays           []Play
}

type DecisionVector struct {
	Stakeholder     string
	Influence       string
	Vector          string
	Focus           string
	Strategy        string
	ConfidenceScore float64
}

type DecisionVectorsModule struct {
	ConfidenceScore float64
	Vectors         []DecisionVector
}

// NewerThan reports whether r should replace cur. A later round always wins. Within
// a round, sequences decide when both results carry one and production times when
// neither does. A sequenced and an unsequenced result of the same round are the same
// analysis delivered twice, so the second one is not newer.
func (r *EnrichmentResult) NewerThan(cur *EnrichmentResult) bool {
	if cur == nil {
		return true
	}
	if r.Round != cur.Round {
		return r.Round > cur.Round
	}
	switch {
	case r.Sequence > 0 && cur.Sequence > 0:
		return r.Sequence > cur.Sequence
	case r.Sequence == 0 && cur.Sequence == 0:
		return r.ProducedAt.After(cur.ProducedAt)
	}
	return false
}
