package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Theme is a catalog entry used to classify journal reflections. Identity is
// Name; the keyword order matters for scoring output, so keywords are kept as
// an ordered JSON list rather than a join table.
type Theme struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string                      `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Title     string                      `gorm:"not null;column:title" json:"title"`
	Summary   string                      `gorm:"column:summary" json:"summary"`
	Keywords  datatypes.JSONSlice[string] `gorm:"column:keywords" json:"keywords"`
	Emoji     string                      `gorm:"column:emoji" json:"emoji"`
	Category  string                      `gorm:"index;column:category" json:"category"`
	CreatedAt time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Theme) TableName() string {
	return "theme"
}
