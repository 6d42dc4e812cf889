package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LinkedinPost stores one raw fetch of a company's recent posts.
type LinkedinPost struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	URL       string         `gorm:"index;not null;column:url" json:"url"`
	PostData  datatypes.JSON `gorm:"type:jsonb;column:post_data" json:"post_data"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (LinkedinPost) TableName() string {
	return "linkedin_posts"
}
