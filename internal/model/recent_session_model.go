package model

import (
	"time"

	"github.com/google/uuid"
)

type RecentSession struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   string    `gorm:"type:varchar(64);not null;index"`
	Context     string    `gorm:"type:text;not null"`
	FinalStatus string    `gorm:"type:varchar(20);not null"`
	EndedAt     time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (RecentSession) TableName() string {
	return "recent_sessions"
}
