package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const recentSessionsKey = "recent_sessions"

type recentSessionRecord struct {
	Id          string    `json:"id"`
	Context     string    `json:"context"`
	FinalStatus string    `json:"final_status"`
	Timestamp   time.Time `json:"timestamp"`
}

type RecentSessionRedisRepository struct {
	client *redis.Client
	key    string
}

func NewRecentSessionRedisRepository(client *redis.Client) contract.RecentSessionRepository {
	return &RecentSessionRedisRepository{client: client, key: recentSessionsKey}
}

func (r *RecentSessionRedisRepository) Add(ctx context.Context, session *entity.RecentSession) error {
	payload, err := json.Marshal(recentSessionRecord{
		Id:          session.Id,
		Context:     session.Context,
		FinalStatus: session.FinalStatus,
		Timestamp:   session.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("encode recent session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, payload)
		pipe.LTrim(ctx, r.key, 0, constant.RecentSessionsLimit-1)
		return nil
	})
	return err
}

func (r *RecentSessionRedisRepository) List(ctx context.Context) ([]*entity.RecentSession, error) {
	items, err := r.client.LRange(ctx, r.key, 0, constant.RecentSessionsLimit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*entity.RecentSession, 0, len(items))
	for _, item := range items {
		var rec recentSessionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		out = append(out, &entity.RecentSession{
			Id:          rec.Id,
			Context:     rec.Context,
			FinalStatus: rec.FinalStatus,
			Timestamp:   rec.Timestamp,
		})
	}
	return out, nil
}
