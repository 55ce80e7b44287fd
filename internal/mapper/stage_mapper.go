package mapper

import (
	"strings"

	"sales-assist-bff/internal/constant"
)

// stageSynonyms maps both language variants of a journey stage to its canonical value.
var stageSynonyms = map[string]string{
	"Odkrywanie": constant.JourneyStageDiscovery,
	"Discovery":  constant.JourneyStageDiscovery,
	"Analiza":    constant.JourneyStageAnalysis,
	"Analysis":   constant.JourneyStageAnalysis,
	"Decyzja":    constant.JourneyStageDecision,
	"Decision":   constant.JourneyStageDecision,
}

var foldedStageSynonyms = func() map[string]string {
	folded := make(map[string]string, len(stageSynonyms))
	for k, v := range stageSynonyms {
		folded[strings.ToLower(k)] = v
	}
	return folded
}()

// NormalizeStage returns the canonical journey stage for raw, or false when raw is
// not a known synonym. Upper-case variants ("DISCOVERY") are accepted.
func NormalizeStage(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if stage, ok := stageSynonyms[raw]; ok {
		return stage, true
	}
	stage, ok := foldedStageSynonyms[strings.ToLower(raw)]
	return stage, ok
}
