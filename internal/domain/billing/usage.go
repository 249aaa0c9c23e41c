package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageCounter counts metered feature calls per user per calendar month.
type UsageCounter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex:idx_usage_user_feature_period,priority:1" json:"user_id"`
	Feature   string    `gorm:"column:feature;not null;uniqueIndex:idx_usage_user_feature_period,priority:2" json:"feature"`
	Period    string    `gorm:"column:period;not null;uniqueIndex:idx_usage_user_feature_period,priority:3" json:"period"`
	Count     int64     `gorm:"column:count;not null;default:0" json:"count"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UsageCounter) TableName() string { return "usage_counter" }

func (u *UsageCounter) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Period formats t as the counter bucket, e.g. "2026-10".
func Period(t time.Time) string {
	return t.UTC().Format("2006-01")
}
