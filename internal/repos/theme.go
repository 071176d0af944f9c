package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/types"
)

type ThemeRepo interface {
	// ListAll returns every theme ordered by name. Catalog order is part of
	// the scoring contract (ties keep this order), so the ordering is fixed
	// here rather than left to callers.
	ListAll(ctx context.Context) ([]types.Theme, error)
}

type themeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThemeRepo(db *gorm.DB, baseLog *logger.Logger) ThemeRepo {
	repoLog := baseLog.With("repo", "ThemeRepo")
	return &themeRepo{db: db, log: repoLog}
}

func (tr *themeRepo) ListAll(ctx context.Context) ([]types.Theme, error) {
	var results []types.Theme
	if err := tr.db.WithContext(ctx).
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
