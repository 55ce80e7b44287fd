package mapper

import (
	"bytes"
	"encoding/json"

	"sales-assist-bff/internal/entity"
	"sales-assist-bff/pkg/analysis"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) NuggetToEntity(n *analysis.Nugget) *entity.KnowledgeNugget {
	if n == nil {
		return nil
	}

	return &entity.KnowledgeNugget{
		Id:              n.Id,
		Title:           n.Payload.Title,
		Content:         n.Payload.Content,
		Keywords:        n.Payload.Keywords,
		Language:        n.Payload.Language,
		Type:            n.Payload.Type,
		Tags:            n.Payload.Tags,
		ArchetypeFilter: n.Payload.ArchetypeFilter,
	}
}

func (m *KnowledgeMapper) NuggetsToEntities(list []analysis.Nugget) []entity.KnowledgeNugget {
	out := make([]entity.KnowledgeNugget, 0, len(list))
	for i := range list {
		out = append(out, *m.NuggetToEntity(&list[i]))
	}
	return out
}

// rawId renders an upstream id that may be a JSON string or number.
func rawId(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (m *KnowledgeMapper) GoldenStandardToEntity(gs *analysis.GoldenStandard) *entity.GoldenStandard {
	if gs == nil {
		return nil
	}

	out := &entity.GoldenStandard{
		Id:             rawId(gs.Id),
		TriggerContext: gs.TriggerContext,
		GoldenResponse: gs.GoldenResponse,
		Category:       gs.Category,
		Language:       gs.Language,
		Tags:           gs.Tags,
	}
	if t, ok := ParseTimestamp(gs.CreatedAt); ok {
		out.CreatedAt = &t
	}
	return out
}

func (m *KnowledgeMapper) GoldenStandardsToEntities(list []analysis.GoldenStandard) []entity.GoldenStandard {
	out := make([]entity.GoldenStandard, 0, len(list))
	for i := range list {
		out = append(out, *m.GoldenStandardToEntity(&list[i]))
	}
	return out
}

func (m *KnowledgeMapper) FeedbackGroupsToEntities(list []analysis.FeedbackGroup) []entity.FeedbackGroup {
	out := make([]entity.FeedbackGroup, 0, len(list))
	for _, g := range list {
		out = append(out, entity.FeedbackGroup{
			ThemeName:          g.ThemeName,
			Count:              g.Count,
			RepresentativeNote: g.RepresentativeNote,
		})
	}
	return out
}
