package analysis

// EnrichmentPayload is the slow-path analysis document. The analysis service emits
// either the full seven-module format or the compact analysis-engine format; both
// sets of fields are decoded here and folded together by the caller.
type EnrichmentPayload struct {
	Sequence          int64              `json:"sequence,omitempty"`
	Timestamp         string             `json:"timestamp,omitempty"`
	OverallConfidence float64            `json:"overall_confidence"`
	SuggestedStage    string             `json:"suggested_stage,omitempty"`
	Modules           *EnrichmentModules `json:"modules,omitempty"`

	Summary       string                `json:"summary,omitempty"`
	Psychometrics *CompactPsychometrics `json:"psychometrics,omitempty"`
	SalesMetrics  *CompactSalesMetrics  `json:"sales_metrics,omitempty"`
	NextMove      *CompactNextMove      `json:"next_move,omitempty"`
	JourneyStage  *CompactJourneyStage  `json:"journey_stage,omitempty"`
}

// IsCompact reports whether the payload uses the compact analysis-engine format.
func (p *EnrichmentPayload) IsCompact() bool {
	return p.Modules == nil && (p.Summary != "" || p.Psychometrics != nil || p.SalesMetrics != nil)
}

type EnrichmentModules struct {
	DnaClient           DnaClient           `json:"dna_client"`
	TacticalIndicators  TacticalIndicators  `json:"tactical_indicators"`
	PsychometricProfile PsychometricProfile `json:"psychometric_profile"`
	DeepMotivation      DeepMotivation      `json:"deep_motivation"`
	PredictivePaths     PredictivePaths     `json:"predictive_paths"`
	StrategicPlaybook   StrategicPlaybook   `json:"strategic_playbook"`
	DecisionVectors     DecisionVectors     `json:"decision_vectors"`
}

type DnaClient struct {
	ConfidenceScore    float64 `json:"confidence_score"`
	HolisticSummary    string  `json:"holistic_summary"`
	MainMotivation     string  `json:"main_motivation"`
	CommunicationStyle string  `json:"communication_style"`
	KeyLevers          []struct {
		Argument  string `json:"argument"`
		Rationale string `json:"rationale"`
	} `json:"key_levers"`
	RedFlags []string `json:"red_flags"`
}

type Risk struct {
	Level      string  `json:"level"`
	Percentage float64 `json:"percentage"`
	Reason     string  `json:"reason"`
}

type TacticalIndicators struct {
	ConfidenceScore     float64 `json:"confidence_score"`
	PurchaseTemperature struct {
		Value float64 `json:"value"`
		Label string  `json:"label"`
	} `json:"purchase_temperature"`
	ChurnRisk    Risk `json:"churn_risk"`
	FunDriveRisk Risk `json:"fun_drive_risk"`
}

type Trait struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

type PsychometricProfile struct {
	ConfidenceScore float64 `json:"confidence_score"`
	DominantDisc    struct {
		Type      string `json:"type"`
		Rationale string `json:"rationale"`
	} `json:"dominant_disc"`
	BigFiveTraits struct {
		Openness          Trait `json:"openness"`
		Conscientiousness Trait `json:"conscientiousness"`
		Extraversion      Trait `json:"extraversion"`
		Agreeableness     Trait `json:"agreeableness"`
		Neuroticism       Trait `json:"neuroticism"`
	} `json:"big_five_traits"`
	SchwartzValues []struct {
		Value     string `json:"value"`
		Rationale string `json:"rationale"`
	} `json:"schwartz_values"`
}

type DeepMotivation struct {
	ConfidenceScore float64  `json:"confidence_score"`
	KeyInsight      string   `json:"key_insight"`
	EvidenceQuotes  []string `json:"evidence_quotes"`
	TeslaHook       string   `json:"tesla_hook"`
}

type PredictivePaths struct {
	ConfidenceScore float64 `json:"confidence_score"`
	Paths           []struct {
		Path            string   `json:"path"`
		Probability     float64  `json:"probability"`
		Recommendations []string `json:"recommendations"`
	} `json:"paths"`
}

type StrategicPlaybook struct {
	ConfidenceScore float64 `json:"confidence_score"`
	Plays           []struct {
		Title           string   `json:"title"`
		Trigger         string   `json:"trigger"`
		Content         []string `json:"content"`
		ConfidenceScore float64  `json:"confidence_score"`
	} `json:"plays"`
}

type DecisionVectors struct {
	ConfidenceScore float64 `json:"confidence_score"`
	Vectors         []struct {
		Stakeholder     string  `json:"stakeholder"`
		Influence       string  `json:"influence"`
		Vector          string  `json:"vector"`
		Focus           string  `json:"focus"`
		Strategy        string  `json:"strategy"`
		ConfidenceScore float64 `json:"confidence_score"`
	} `json:"vectors"`
}

// --- compact format ---

type CompactPsychometrics struct {
	DiscType           string  `json:"disc_type,omitempty"`
	DiscConfidence     float64 `json:"disc_confidence,omitempty"`
	MainMotivation     string  `json:"main_motivation,omitempty"`
	CommunicationStyle string  `json:"communication_style,omitempty"`
	EmotionalState     string  `json:"emotional_state,omitempty"`
}

type CompactSalesMetrics struct {
	PurchaseProbability float64  `json:"purchase_probability,omitempty"`
	SalesTemperature    string   `json:"sales_temperature,omitempty"`
	Objections          []string `json:"objections,omitempty"`
	BuyingSignals       []string `json:"buying_signals,omitempty"`
	PainPoints          []string `json:"pain_points,omitempty"`
}

type CompactNextMove struct {
	StrategicAdvice   string `json:"strategic_advice,omitempty"`
	RecommendedTactic string `json:"recommended_tactic,omitempty"`
	KeyPhrase         string `json:"key_phrase,omitempty"`
}

type CompactJourneyStage struct {
	CurrentStage string  `json:"current_stage,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	Reasoning    string  `json:"reasoning,omitempty"`
}
