package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken is one issued dashboard session. A row here is what makes a
// signed token accepted; logout deletes the row so the token dies immediately.
type SessionToken struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccessToken string    `gorm:"uniqueIndex;not null;column:access_token" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (SessionToken) TableName() string {
	return "session_token"
}
