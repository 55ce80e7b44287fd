package mapper

import (
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/model"
)

type RecentSessionMapper struct{}

func NewRecentSessionMapper() *RecentSessionMapper {
	return &RecentSessionMapper{}
}

func (m *RecentSessionMapper) ToEntity(r *model.RecentSession) *entity.RecentSession {
	if r == nil {
		return nil
	}

	return &entity.RecentSession{
		Id:          r.SessionId,
		Context:     r.Context,
		FinalStatus: r.FinalStatus,
		Timestamp:   r.EndedAt,
	}
}

func (m *RecentSessionMapper) ToModel(r *entity.RecentSession) *model.RecentSession {
	if r == nil {
		return nil
	}

	return &model.RecentSession{
		SessionId:   r.Id,
		Context:     r.Context,
		FinalStatus: r.FinalStatus,
		EndedAt:     r.Timestamp,
	}
}
