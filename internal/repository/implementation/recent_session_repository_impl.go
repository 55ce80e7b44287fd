package implementation

import (
	"context"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/mapper"
	"sales-assist-bff/internal/model"
	"sales-assist-bff/internal/repository/contract"

	"gorm.io/gorm"
)

type RecentSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecentSessionMapper
}

func NewRecentSessionRepository(db *gorm.DB) contract.RecentSessionRepository {
	return &RecentSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecentSessionMapper(),
	}
}

// Add inserts the session and drops everything beyond the newest ten in one transaction.
func (r *RecentSessionRepositoryImpl) Add(ctx context.Context, session *entity.RecentSession) error {
	m := r.mapper.ToModel(session)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		keep := tx.Model(&model.RecentSession{}).
			Select("id").
			Order("ended_at DESC, created_at DESC").
			Limit(constant.RecentSessionsLimit)

		return tx.Where("id NOT IN (?)", keep).Delete(&model.RecentSession{}).Error
	})
}

func (r *RecentSessionRepositoryImpl) List(ctx context.Context) ([]*entity.RecentSession, error) {
	var rows []*model.RecentSession
	err := r.db.WithContext(ctx).
		Order("ended_at DESC, created_at DESC").
		Limit(constant.RecentSessionsLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.RecentSession, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapper.ToEntity(row))
	}
	return out, nil
}
