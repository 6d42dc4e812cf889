package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Keyword is one researched keyword with its fetched metrics and the derived
// scores computed at lookup time.
type Keyword struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Keyword          string         `gorm:"uniqueIndex;not null;column:keyword" json:"keyword"`
	SearchVolume     int            `gorm:"column:search_volume" json:"search_volume"`
	Competition      float64        `gorm:"column:competition" json:"competition"`
	CompetitionLevel string         `gorm:"column:competition_level" json:"competition_level"`
	CPC              float64        `gorm:"column:cpc" json:"cpc"`
	OpportunityScore float64        `gorm:"column:opportunity_score" json:"opportunity_score"`
	GrowthRate       float64        `gorm:"column:growth_rate" json:"growth_rate"`
	MonthlySearches  datatypes.JSON `gorm:"type:jsonb;column:monthly_searches" json:"monthly_searches,omitempty"`
	RawResponse      datatypes.JSON `gorm:"type:jsonb;column:raw_response" json:"raw_response,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (Keyword) TableName() string {
	return "keywords"
}
