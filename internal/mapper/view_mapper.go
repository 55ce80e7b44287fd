package mapper

import (
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/entity"
)

// ViewMapper renders entities as the JSON the browser views consume.
type ViewMapper struct{}

func NewViewMapper() *ViewMapper {
	return &ViewMapper{}
}

func (m *ViewMapper) Session(s *entity.Session) *dto.SessionResponse {
	if s == nil {
		return nil
	}

	res := &dto.SessionResponse{
		Id:             s.Id,
		Status:         s.Status,
		CurrentStage:   s.CurrentStage,
		SuggestedStage: s.SuggestedStage,
		Language:       s.Language,
		LastError:      s.LastError,
		Progress:       s.Progress,
		Entries:        make([]dto.ConversationEntryView, 0, len(s.Entries)),
		Enrichment:     m.Enrichment(s.Enrichment),
		CreatedAt:      s.CreatedAt,
	}

	for i, e := range s.Entries {
		view := dto.ConversationEntryView{
			Index:        i,
			Role:         e.Role,
			Content:      e.Content,
			Timestamp:    e.Timestamp,
			Language:     e.Language,
			JourneyStage: e.JourneyStage,
			Optimistic:   e.Optimistic,
		}
		if e.Feedback != nil {
			view.Feedback = &dto.FeedbackView{
				Sentiment: e.Feedback.Sentiment,
				Comment:   e.Feedback.Comment,
				UpdatedAt: e.Feedback.UpdatedAt,
			}
		}
		res.Entries = append(res.Entries, view)
	}

	if fp := s.FastPath; fp != nil {
		res.FastPath = &dto.FastPathMetadataView{
			SuggestedQuestions: nonNil(fp.SuggestedQuestions),
			OptionalFollowup:   fp.OptionalFollowup,
			SellerQuestions:    nonNil(fp.SellerQuestions),
			ClientStyle:        fp.ClientStyle,
			ConfidenceScore:    fp.ConfidenceScore,
			ConfidenceReason:   fp.ConfidenceReason,
		}
	}

	return res
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (m *ViewMapper) Enrichment(r *entity.EnrichmentResult) *dto.EnrichmentResultView {
	if r == nil {
		return nil
	}
	mod := r.Modules

	levers := make([]dto.KeyLeverView, 0, len(mod.DnaClient.KeyLevers))
	for _, l := range mod.DnaClient.KeyLevers {
		levers = append(levers, dto.KeyLeverView(l))
	}
	values := make([]dto.RationaleValueView, 0, len(mod.PsychometricProfile.SchwartzValues))
	for _, v := range mod.PsychometricProfile.SchwartzValues {
		values = append(values, dto.RationaleValueView(v))
	}
	paths := make([]dto.PredictedPathView, 0, len(mod.PredictivePaths.Paths))
	for _, p := range mod.PredictivePaths.Paths {
		paths = append(paths, dto.PredictedPathView{Path: p.Path, Probability: p.Probability, Recommendations: nonNil(p.Recommendations)})
	}
	plays := make([]dto.PlayView, 0, len(mod.StrategicPlaybook.Plays))
	for _, p := range mod.StrategicPlaybook.Plays {
		plays = append(plays, dto.PlayView{Title: p.Title, Trigger: p.Trigger, Content: nonNil(p.Content), ConfidenceScore: p.ConfidenceScore})
	}
	vectors := make([]dto.DecisionVectorView, 0, len(mod.DecisionVectors.Vectors))
	for _, v := range mod.DecisionVectors.Vectors {
		vectors = append(vectors, dto.DecisionVectorView(v))
	}

	psy := mod.PsychometricProfile
	tac := mod.TacticalIndicators

	return &dto.EnrichmentResultView{
		Sequence:          r.Sequence,
		ProducedAt:        r.ProducedAt,
		OverallConfidence: r.OverallConfidence,
		SuggestedStage:    r.SuggestedStage,
		Modules: dto.EnrichmentModulesView{
			DnaClient: dto.DnaClientView{
				ConfidenceScore:    mod.DnaClient.ConfidenceScore,
				HolisticSummary:    mod.DnaClient.HolisticSummary,
				MainMotivation:     mod.DnaClient.MainMotivation,
				CommunicationStyle: mod.DnaClient.CommunicationStyle,
				KeyLevers:          levers,
				RedFlags:           nonNil(mod.DnaClient.RedFlags),
			},
			TacticalIndicators: dto.TacticalIndicatorsView{
				ConfidenceScore:     tac.ConfidenceScore,
				PurchaseTemperature: tac.PurchaseTemperature,
				TemperatureLabel:    tac.TemperatureLabel,
				ChurnRisk:           dto.RiskView(tac.ChurnRisk),
				FunDriveRisk:        dto.RiskView(tac.FunDriveRisk),
			},
			PsychometricProfile: dto.PsychometricProfileView{
				ConfidenceScore:   psy.ConfidenceScore,
				DiscType:          psy.DiscType,
				DiscRationale:     psy.DiscRationale,
				Openness:          dto.TraitView(psy.Openness),
				Conscientiousness: dto.TraitView(psy.Conscientiousness),
				Extraversion:      dto.TraitView(psy.Extraversion),
				Agreeableness:     dto.TraitView(psy.Agreeableness),
				Neuroticism:       dto.TraitView(psy.Neuroticism),
				SchwartzValues:    values,
			},
			DeepMotivation: dto.DeepMotivationView{
				ConfidenceScore: mod.DeepMotivation.ConfidenceScore,
				KeyInsight:      mod.DeepMotivation.KeyInsight,
				EvidenceQuotes:  nonNil(mod.DeepMotivation.EvidenceQuotes),
				TeslaHook:       mod.DeepMotivation.TeslaHook,
			},
			PredictivePaths: dto.PredictivePathsView{
				ConfidenceScore: mod.PredictivePaths.ConfidenceScore,
				Paths:           paths,
			},
			StrategicPlaybook: dto.StrategicPlaybookView{
				ConfidenceScore: mod.StrategicPlaybook.ConfidenceScore,
				Plays:           plays,
			},
			DecisionVectors: dto.DecisionVectorsView{
				ConfidenceScore: mod.DecisionVectors.ConfidenceScore,
				Vectors:         vectors,
			},
		},
	}
}

func (m *ViewMapper) RecentSessions(list []*entity.RecentSession) []dto.RecentSessionResponse {
	res := make([]dto.RecentSessionResponse, 0, len(list))
	for _, r := range list {
		res = append(res, dto.RecentSessionResponse(*r))
	}
	return res
}

func (m *ViewMapper) Nuggets(list []entity.KnowledgeNugget) []dto.NuggetResponse {
	res := make([]dto.NuggetResponse, 0, len(list))
	for _, n := range list {
		res = append(res, dto.NuggetResponse(n))
	}
	return res
}

func (m *ViewMapper) GoldenStandards(list []entity.GoldenStandard) []dto.GoldenStandardResponse {
	res := make([]dto.GoldenStandardResponse, 0, len(list))
	for _, gs := range list {
		res = append(res, dto.GoldenStandardResponse(gs))
	}
	return res
}

func (m *ViewMapper) FeedbackGroups(list []entity.FeedbackGroup) []dto.FeedbackGroupResponse {
	res := make([]dto.FeedbackGroupResponse, 0, len(list))
	for _, g := range list {
		res = append(res, dto.FeedbackGroupResponse(g))
	}
	return res
}
