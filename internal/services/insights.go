package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/solacehq/solace-backend/internal/apierr"
	"github.com/solacehq/solace-backend/internal/insight"
	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/observability"
	"github.com/solacehq/solace-backend/internal/repos"
	"github.com/solacehq/solace-backend/internal/types"
)

// AnalysisResult is the client-facing outcome of analyzing a reflection.
type AnalysisResult struct {
	Themes           []types.Theme `json:"themes"`
	RecommendedCount int           `json:"recommendedCount"`
	AnalyzedAt       time.Time     `json:"analyzedAt"`
	ThemeCount       int           `json:"themeCount"`
}

type InsightsService interface {
	AnalyzeReflection(ctx context.Context, userID uuid.UUID, rawText string) (*AnalysisResult, error)
	Themes(ctx context.Context) ([]types.Theme, error)
}

type insightsService struct {
	log       *logger.Logger
	catalog   *insight.Catalog
	stateRepo repos.UserAnalysisStateRepo

	// rateLimitWindow gates unchanged resubmissions. Zero disables the gate
	// (unchanged submissions are then only logged); the check itself always
	// runs so re-enabling is a config change, not a code change.
	rateLimitWindow time.Duration
}

func NewInsightsService(
	log *logger.Logger,
	catalog *insight.Catalog,
	stateRepo repos.UserAnalysisStateRepo,
	rateLimitWindow time.Duration,
) InsightsService {
	serviceLog := log.With("service", "InsightsService")
	return &insightsService{
		log:             serviceLog,
		catalog:         catalog,
		stateRepo:       stateRepo,
		rateLimitWindow: rateLimitWindow,
	}
}

func (is *insightsService) AnalyzeReflection(ctx context.Context, userID uuid.UUID, rawText string) (*AnalysisResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "InsightsService.AnalyzeReflection")
	defer span.End()

	clean, err := insight.SanitizeReflection(rawText)
	if err != nil {
		return nil, err
	}

	themes, err := is.catalog.Themes(ctx)
	if err != nil {
		return nil, err
	}

	prior, stErr := is.stateRepo.GetByUserID(ctx, nil, userID)
	if stErr != nil {
		// Prior state only informs the resubmission check; analysis can
		// proceed without it.
		is.log.Warn("Could not load prior analysis state", "user_id", userID, "error", stErr)
		prior = nil
	}
	priorText := ""
	if prior != nil {
		priorText = prior.OnboardingSelfReflection
	}
	if !insight.Changed(clean, priorText) {
		if is.rateLimitWindow > 0 && prior != nil && time.Since(prior.ThemesAnalyzedAt) < is.rateLimitWindow {
			return nil, apierr.New(http.StatusTooManyRequests, "RATE_LIMITED",
				errors.New("this reflection was analyzed recently; try again later"))
		}
		is.log.Info("Reflection materially unchanged since last analysis", "user_id", userID)
	}

	scores := insight.ScoreThemes(clean, themes)
	selected, themeCount, recommendedCount := insight.SelectThemes(scores)

	analyzedAt := time.Now().UTC()
	if pErr := is.stateRepo.Upsert(ctx, nil, userID, clean, analyzedAt); pErr != nil {
		// Best-effort durability: the themes are already computed and the
		// client gets them either way.
		is.log.Error("Could not persist analysis state", "user_id", userID, "error", pErr)
	}

	out := make([]types.Theme, 0, len(selected))
	for _, s := range selected {
		out = append(out, s.Theme)
	}
	return &AnalysisResult{
		Themes:           out,
		RecommendedCount: recommendedCount,
		AnalyzedAt:       analyzedAt,
		ThemeCount:       themeCount,
	}, nil
}

func (is *insightsService) Themes(ctx context.Context) ([]types.Theme, error) {
	return is.catalog.Themes(ctx)
}
