package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GeneratedPost is a content-creation output written in a company's voice.
type GeneratedPost struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyURL string         `gorm:"index;not null;column:company_url" json:"company_url"`
	Topic      string         `gorm:"column:topic" json:"topic"`
	Content    string         `gorm:"column:content" json:"content"`
	Model      string         `gorm:"column:model" json:"model"`
	Params     datatypes.JSON `gorm:"type:jsonb;column:params" json:"params,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (GeneratedPost) TableName() string {
	return "generated_posts"
}
