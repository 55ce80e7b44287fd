package mapper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/pkg/analysis"
)

// AnalysisMapper converts analysis service payloads into domain entities.
type AnalysisMapper struct {
	now func() time.Time
}

func NewAnalysisMapper() *AnalysisMapper {
	return &AnalysisMapper{now: time.Now}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05.999999",
}

// ParseTimestamp accepts the ISO variants the analysis service emits. Values without
// a zone are read as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (m *AnalysisMapper) DecodeEnrichment(raw json.RawMessage) (*analysis.EnrichmentPayload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("empty enrichment payload")
	}

	// Some rows store the document as a JSON string.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}

	var payload analysis.EnrichmentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode enrichment: %w", err)
	}
	return &payload, nil
}

// PushEnrichment maps a slow_path_update payload. Without an upstream timestamp the
// receipt time orders the result.
func (m *AnalysisMapper) PushEnrichment(raw json.RawMessage) (*entity.EnrichmentResult, error) {
	payload, err := m.DecodeEnrichment(raw)
	if err != nil {
		return nil, err
	}

	producedAt, ok := ParseTimestamp(payload.Timestamp)
	if !ok {
		producedAt = m.now()
	}
	return m.EnrichmentToEntity(payload, payload.Sequence, producedAt), nil
}

// StoredEnrichment maps the persisted slow-path record of a session snapshot. Failed
// records carry no analysis and map to nil.
func (m *AnalysisMapper) StoredEnrichment(log *analysis.SlowPathLog) (*entity.EnrichmentResult, error) {
	if log == nil || log.Failed() || len(log.JsonOutput) == 0 {
		return nil, nil
	}

	payload, err := m.DecodeEnrichment(log.JsonOutput)
	if err != nil {
		return nil, err
	}

	sequence := payload.Sequence
	if sequence == 0 {
		sequence = log.LogId
	}

	producedAt, ok := ParseTimestamp(log.Timestamp)
	if !ok {
		producedAt, ok = ParseTimestamp(payload.Timestamp)
	}
	if !ok {
		producedAt = m.now()
	}
	return m.EnrichmentToEntity(payload, sequence, producedAt), nil
}

// StoredError extracts the failure text of a failed slow-path record.
func (m *AnalysisMapper) StoredError(log *analysis.SlowPathLog) string {
	if log == nil {
		return ""
	}

	raw := log.JsonOutput
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}

// RowFollowsConversation reports whether a slow-path record was written after the
// last conversation entry of the same snapshot, i.e. whether it answers the latest
// message. Both times come from the analysis service. Unparseable times are skipped.
func RowFollowsConversation(log *analysis.SlowPathLog, conversation []analysis.ConversationLogEntry) bool {
	if log == nil || len(conversation) == 0 {
		return true
	}
	written, ok := ParseTimestamp(log.Timestamp)
	if !ok {
		return true
	}
	for _, e := range conversation {
		if at, ok := ParseTimestamp(e.Timestamp); ok && at.After(written) {
			return false
		}
	}
	return true
}

func (m *AnalysisMapper) EnrichmentToEntity(p *analysis.EnrichmentPayload, sequence int64, producedAt time.Time) *entity.EnrichmentResult {
	result := &entity.EnrichmentResult{
		Sequence:          sequence,
		ProducedAt:        producedAt,
		OverallConfidence: p.OverallConfidence,
		SuggestedStage:    p.SuggestedStage,
	}

	if p.IsCompact() {
		m.foldCompact(p, result)
		return result
	}

	if p.Modules != nil {
		result.Modules = modulesToEntity(p.Modules)
	}
	return result
}

func modulesToEntity(src *analysis.EnrichmentModules) entity.EnrichmentModules {
	var out entity.EnrichmentModules

	dna := src.DnaClient
	out.DnaClient = entity.DnaClientModule{
		ConfidenceScore:    dna.ConfidenceScore,
		HolisticSummary:    dna.HolisticSummary,
		MainMotivation:     dna.MainMotivation,
		CommunicationStyle: dna.CommunicationStyle,
		RedFlags:           dna.RedFlags,
	}
	for _, lever := range dna.KeyLevers {
		out.DnaClient.KeyLevers = append(out.DnaClient.KeyLevers, entity.KeyLever{Argument: lever.Argument, Rationale: lever.Rationale})
	}

	tac := src.TacticalIndicators
	out.TacticalIndicators = entity.TacticalIndicatorsModule{
		ConfidenceScore:     tac.ConfidenceScore,
		PurchaseTemperature: tac.PurchaseTemperature.Value,
		TemperatureLabel:    tac.PurchaseTemperature.Label,
		ChurnRisk:           entity.RiskIndicator(tac.ChurnRisk),
		FunDriveRisk:        entity.RiskIndicator(tac.FunDriveRisk),
	}

	psy := src.PsychometricProfile
	out.PsychometricProfile = entity.PsychometricProfileModule{
		ConfidenceScore:   psy.ConfidenceScore,
		DiscType:          psy.DominantDisc.Type,
		DiscRationale:     psy.DominantDisc.Rationale,
		Openness:          entity.TraitScore(psy.BigFiveTraits.Openness),
		Conscientiousness: entity.TraitScore(psy.BigFiveTraits.Conscientiousness),
		Extraversion:      entity.TraitScore(psy.BigFiveTraits.Extraversion),
		Agreeableness:     entity.TraitScore(psy.BigFiveTraits.Agreeableness),
		Neuroticism:       entity.TraitScore(psy.BigFiveTraits.Neuroticism),
	}
	for _, v := range psy.SchwartzValues {
		out.PsychometricProfile.SchwartzValues = append(out.PsychometricProfile.SchwartzValues, entity.RationaleValue{Value: v.Value, Rationale: v.Rationale})
	}

	mot := src.DeepMotivation
	out.DeepMotivation = entity.DeepMotivationModule{
		ConfidenceScore: mot.ConfidenceScore,
		KeyInsight:      mot.KeyInsight,
		EvidenceQuotes:  mot.EvidenceQuotes,
		TeslaHook:       mot.TeslaHook,
	}

	out.PredictivePaths.ConfidenceScore = src.PredictivePaths.ConfidenceScore
	for _, p := range src.PredictivePaths.Paths {
		out.PredictivePaths.Paths = append(out.PredictivePaths.Paths, entity.PredictedPath{
			Path:            p.Path,
			Probability:     p.Probability,
			Recommendations: p.Recommendations,
		})
	}

	out.StrategicPlaybook.ConfidenceScore = src.StrategicPlaybook.ConfidenceScore
	for _, p := range src.StrategicPlaybook.Plays {
		out.StrategicPlaybook.Plays = append(out.StrategicPlaybook.Plays, entity.Play{
			Title:           p.Title,
			Trigger:         p.Trigger,
			Content:         p.Content,
			ConfidenceScore: p.ConfidenceScore,
		})
	}

	out.DecisionVectors.ConfidenceScore = src.DecisionVectors.ConfidenceScore
	for _, v := range src.DecisionVectors.Vectors {
		out.DecisionVectors.Vectors = append(out.DecisionVectors.Vectors, entity.DecisionVector{
			Stakeholder:     v.Stakeholder,
			Influence:       v.Influence,
			Vector:          v.Vector,
			Focus:           v.Focus,
			Strategy:        v.Strategy,
			ConfidenceScore: v.ConfidenceScore,
		})
	}

	return out
}

// SnapshotEntries maps the persisted conversation log.
func (m *AnalysisMapper) SnapshotEntries(log []analysis.ConversationLogEntry) []entity.ConversationEntry {
	entries := make([]entity.ConversationEntry, 0, len(log))
	for _, e := range log {
		ts, ok := ParseTimestamp(e.Timestamp)
		if !ok {
			ts = m.now()
		}
		stage := ""
		if e.JourneyStage != nil {
			stage = *e.JourneyStage
		}
		lang := e.Language
		if lang == "" {
			lang = constant.LanguagePolish
		}
		entries = append(entries, entity.ConversationEntry{
			LogId:        e.LogId,
			Role:         e.Role,
			Content:      e.Content,
			Timestamp:    ts,
			Language:     lang,
			JourneyStage: stage,
		})
	}
	return entries
}

func (m *AnalysisMapper) FastPathMetadata(res *analysis.SendResponse) *entity.FastPathMetadata {
	meta := &entity.FastPathMetadata{
		SuggestedQuestions: res.SuggestedQuestions,
		SellerQuestions:    res.SellerQuestions,
		ClientStyle:        res.ClientStyle,
		ConfidenceReason:   res.ConfidenceReason,
		ConfidenceScore:    0.5,
	}
	if meta.ClientStyle == "" {
		meta.ClientStyle = "spontaneous"
	}
	if res.OptionalFollowup != nil {
		meta.OptionalFollowup = *res.OptionalFollowup
		if len(meta.SuggestedQuestions) == 0 && meta.OptionalFollowup != "" {
			meta.SuggestedQuestions = []string{meta.OptionalFollowup}
		}
	}
	if res.ConfidenceScore != nil {
		meta.ConfidenceScore = *res.ConfidenceScore
	}
	return meta
}
