package mapper

import (
	"testing"

	"sales-assist-bff/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStage(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOk bool
	}{
		{name: "polish discovery", raw: "Odkrywanie", want: constant.JourneyStageDiscovery, wantOk: true},
		{name: "english discovery", raw: "Discovery", want: constant.JourneyStageDiscovery, wantOk: true},
		{name: "polish analysis", raw: "Analiza", want: constant.JourneyStageAnalysis, wantOk: true},
		{name: "english analysis", raw: "Analysis", want: constant.JourneyStageAnalysis, wantOk: true},
		{name: "polish decision", raw: "Decyzja", want: constant.JourneyStageDecision, wantOk: true},
		{name: "english decision", raw: "Decision", want: constant.JourneyStageDecision, wantOk: true},
		{name: "upper case compact format", raw: "DECISION", want: constant.JourneyStageDecision, wantOk: true},
		{name: "surrounding whitespace", raw: "  Analiza ", want: constant.JourneyStageAnalysis, wantOk: true},
		{name: "unknown stage", raw: "Negotiation", wantOk: false},
		{name: "empty", raw: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeStage(tt.raw)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
