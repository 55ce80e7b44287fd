package contract

import (
	"context"

	"sales-assist-bff/internal/entity"
)

// RecentSessionRepository keeps the most recently ended sessions, newest first.
// Implementations never hold more than constant.RecentSessionsLimit entries.
type RecentSessionRepository interface {
	Add(ctx context.Context, session *entity.RecentSession) error
	List(ctx context.Context) ([]*entity.RecentSession, error)
}
