package types

import (
	"time"

	"github.com/google/uuid"
)

// UserAnalysisState holds the last analyzed onboarding reflection per user.
// At most one row per user; every successful analysis overwrites it.
type UserAnalysisState struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	User                     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	OnboardingSelfReflection string    `gorm:"type:text;column:onboarding_self_reflection" json:"-"`
	ThemesAnalyzedAt         time.Time `gorm:"column:themes_analyzed_at" json:"themes_analyzed_at"`
	CreatedAt                time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt                time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (UserAnalysisState) TableName() string {
	return "user_analysis_state"
}
