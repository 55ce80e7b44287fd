package mapper

import (
	"fmt"
	"strings"

	"sales-assist-bff/internal/entity"
	"sales-assist-bff/pkg/analysis"
)

var discStyles = map[string]string{
	"D": "Driver",
	"I": "Expressive",
	"S": "Amiable",
	"C": "Analytical",
}

type bigFiveProfile struct {
	openness, conscientiousness, extraversion, agreeableness, neuroticism float64
}

var discBigFive = map[string]bigFiveProfile{
	"D": {60, 70, 80, 30, 40},
	"I": {80, 40, 90, 70, 30},
	"S": {40, 60, 30, 90, 50},
	"C": {50, 90, 20, 50, 60},
}

var neutralBigFive = bigFiveProfile{50, 50, 50, 50, 50}

func traitLevel(score float64) entity.TraitScore {
	level := "medium"
	switch {
	case score >= 70:
		level = "high"
	case score <= 35:
		level = "low"
	}
	return entity.TraitScore{Level: level, Score: score}
}

func churnRisk(temperature string) string {
	switch temperature {
	case "Cold":
		return "High"
	case "Warm", "":
		return "Medium"
	default:
		return "Low"
	}
}

func funDriveRisk(objections int) string {
	switch {
	case objections > 2:
		return "High"
	case objections > 0:
		return "Medium"
	default:
		return "Low"
	}
}

// foldCompact spreads the compact analysis-engine format across the seven modules.
// Percentages arrive as 0-100 and confidences are stored as 0-1.
func (m *AnalysisMapper) foldCompact(p *analysis.EnrichmentPayload, out *entity.EnrichmentResult) {
	discType := "C"
	if p.Psychometrics != nil && p.Psychometrics.DiscType != "" {
		discType = strings.ToUpper(strings.TrimSpace(p.Psychometrics.DiscType))
	}

	if p.Summary != "" || p.Psychometrics != nil {
		dna := &out.Modules.DnaClient
		dna.HolisticSummary = p.Summary
		if dna.HolisticSummary == "" {
			dna.HolisticSummary = "Analysis in progress..."
		}
		dna.MainMotivation = "Unknown"
		dna.CommunicationStyle = discStyles["C"]
		if style, ok := discStyles[discType]; ok {
			dna.CommunicationStyle = style
		}
		if p.Psychometrics != nil {
			if p.Psychometrics.MainMotivation != "" {
				dna.MainMotivation = p.Psychometrics.MainMotivation
			}
			dna.ConfidenceScore = p.Psychometrics.DiscConfidence / 100
		}
	}

	if p.Psychometrics != nil {
		profile, ok := discBigFive[discType]
		if !ok {
			profile = neutralBigFive
		}
		out.Modules.PsychometricProfile = entity.PsychometricProfileModule{
			ConfidenceScore:   p.Psychometrics.DiscConfidence / 100,
			DiscType:          discType,
			DiscRationale:     p.Psychometrics.CommunicationStyle,
			Openness:          traitLevel(profile.openness),
			Conscientiousness: traitLevel(profile.conscientiousness),
			Extraversion:      traitLevel(profile.extraversion),
			Agreeableness:     traitLevel(profile.agreeableness),
			Neuroticism:       traitLevel(profile.neuroticism),
		}
	}

	if sm := p.SalesMetrics; sm != nil {
		out.Modules.TacticalIndicators = entity.TacticalIndicatorsModule{
			PurchaseTemperature: sm.PurchaseProbability,
			TemperatureLabel:    sm.SalesTemperature,
			ChurnRisk:           entity.RiskIndicator{Level: churnRisk(sm.SalesTemperature)},
			FunDriveRisk:        entity.RiskIndicator{Level: funDriveRisk(len(sm.Objections))},
		}
		out.Modules.DeepMotivation = entity.DeepMotivationModule{
			KeyInsight:     strings.Join(sm.PainPoints, "; "),
			EvidenceQuotes: sm.BuyingSignals,
		}
		out.Modules.DnaClient.RedFlags = sm.Objections
	}

	if p.NextMove != nil || p.SalesMetrics != nil {
		out.Modules.StrategicPlaybook.Plays = compactPlays(p)
	}

	if js := p.JourneyStage; js != nil {
		if stage, ok := NormalizeStage(js.CurrentStage); ok && out.SuggestedStage == "" {
			out.SuggestedStage = stage
		}
		if out.OverallConfidence == 0 {
			out.OverallConfidence = js.Confidence / 100
		}
	}
}

func compactPlays(p *analysis.EnrichmentPayload) []entity.Play {
	var plays []entity.Play

	if nm := p.NextMove; nm != nil {
		var content []string
		if nm.StrategicAdvice != "" {
			content = append(content, nm.StrategicAdvice)
		}
		if nm.KeyPhrase != "" {
			content = append(content, fmt.Sprintf("Użyj frazy: %q", nm.KeyPhrase))
		}
		if len(content) > 0 {
			plays = append(plays, entity.Play{Title: nm.RecommendedTactic, Content: content})
		}
	}

	if p.SalesMetrics == nil {
		return plays
	}

	implication := "Wymaga uwagi"
	if p.Psychometrics != nil && p.Psychometrics.EmotionalState != "" {
		implication = p.Psychometrics.EmotionalState
	}
	solution, action := "Addressuj tę obiekcję", "Kontynuuj dialog"
	if nm := p.NextMove; nm != nil {
		if nm.StrategicAdvice != "" {
			solution = nm.StrategicAdvice
		}
		if nm.KeyPhrase != "" {
			action = nm.KeyPhrase
		}
	}
	for _, objection := range p.SalesMetrics.Objections {
		plays = append(plays, entity.Play{
			Title:   objection,
			Trigger: implication,
			Content: []string{solution, action},
		})
	}
	return plays
}
