package memory

import (
	"context"
	"sync"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/repository/contract"
)

type RecentSessionRepository struct {
	mu       sync.RWMutex
	sessions []*entity.RecentSession
}

func NewRecentSessionRepository() contract.RecentSessionRepository {
	return &RecentSessionRepository{}
}

func (r *RecentSessionRepository) Add(ctx context.Context, session *entity.RecentSession) error {
	cp := *session

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append([]*entity.RecentSession{&cp}, r.sessions...)
	if len(r.sessions) > constant.RecentSessionsLimit {
		r.sessions = r.sessions[:constant.RecentSessionsLimit]
	}
	return nil
}

func (r *RecentSessionRepository) List(ctx context.Context) ([]*entity.RecentSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.RecentSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}
