package db

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/types"
)

type themeCatalogFile struct {
	Themes []struct {
		Name     string   `yaml:"name"`
		Title    string   `yaml:"title"`
		Summary  string   `yaml:"summary"`
		Emoji    string   `yaml:"emoji"`
		Category string   `yaml:"category"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"themes"`
}

// SeedThemes loads the theme catalog file into the theme table when the
// table is empty. Existing rows are left alone; the catalog is reference
// data managed out-of-band once deployed.
func SeedThemes(gdb *gorm.DB, log *logger.Logger, path string) error {
	seedLog := log.With("component", "ThemeSeed")

	var count int64
	if err := gdb.Model(&types.Theme{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count themes: %w", err)
	}
	if count > 0 {
		seedLog.Debug("Theme table already populated, skipping seed", "count", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read theme catalog %s: %w", path, err)
	}
	var file themeCatalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse theme catalog %s: %w", path, err)
	}
	if len(file.Themes) == 0 {
		return fmt.Errorf("theme catalog %s contains no themes", path)
	}

	rows := make([]*types.Theme, 0, len(file.Themes))
	for _, t := range file.Themes {
		if t.Name == "" || len(t.Keywords) == 0 {
			return fmt.Errorf("theme catalog %s: entry missing name or keywords", path)
		}
		rows = append(rows, &types.Theme{
			ID:       uuid.New(),
			Name:     t.Name,
			Title:    t.Title,
			Summary:  t.Summary,
			Keywords: datatypes.NewJSONSlice(t.Keywords),
			Emoji:    t.Emoji,
			Category: t.Category,
		})
	}
	if err := gdb.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert themes: %w", err)
	}
	seedLog.Info("Seeded theme catalog", "themes", len(rows), "path", path)
	return nil
}
