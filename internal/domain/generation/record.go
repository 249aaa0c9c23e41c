package generation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Record is one persisted model output. Rows are written after a successful
// generation for an authenticated caller and are never written for
// anonymous requests.
type Record struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string         `gorm:"column:user_id;not null;index:idx_generation_user_created,priority:1" json:"user_id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	ContentType   string         `gorm:"column:content_type;not null;index" json:"content_type"`
	Prompt        string         `gorm:"column:prompt;type:text" json:"prompt"`
	GeneratedText string         `gorm:"column:generated_text;type:text;not null" json:"generated_text"`
	Model         string         `gorm:"column:model" json:"model"`
	Tokens        *int           `gorm:"column:tokens" json:"tokens,omitempty"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Visibility    string         `gorm:"column:visibility;not null;default:'private'" json:"visibility"`
	CreatedAt     time.Time      `gorm:"not null;index:idx_generation_user_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (Record) TableName() string { return "generation_record" }

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Visibility == "" {
		r.Visibility = VisibilityPrivate
	}
	return nil
}
