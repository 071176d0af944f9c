package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/types"
)

type UserAnalysisStateRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserAnalysisState, error)
	Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, reflection string, analyzedAt time.Time) error
}

type userAnalysisStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAnalysisStateRepo(db *gorm.DB, baseLog *logger.Logger) UserAnalysisStateRepo {
	repoLog := baseLog.With("repo", "UserAnalysisStateRepo")
	return &userAnalysisStateRepo{db: db, log: repoLog}
}

// GetByUserID returns nil without error when the user has no analysis state.
func (ar *userAnalysisStateRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserAnalysisState, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.UserAnalysisState
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Upsert keeps at most one row per user: the reflection text and analysis
// timestamp are written together, overwriting any prior row.
func (ar *userAnalysisStateRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, reflection string, analyzedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	state := types.UserAnalysisState{
		ID:                       uuid.New(),
		UserID:                   userID,
		OnboardingSelfReflection: reflection,
		ThemesAnalyzedAt:         analyzedAt,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"onboarding_self_reflection",
				"themes_analyzed_at",
				"updated_at",
			}),
		}).
		Create(&state).Error
}
