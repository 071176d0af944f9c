package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/solacehq/solace-backend/internal/db"
	"github.com/solacehq/solace-backend/internal/handlers"
	"github.com/solacehq/solace-backend/internal/insight"
	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/middleware"
	"github.com/solacehq/solace-backend/internal/observability"
	"github.com/solacehq/solace-backend/internal/repos"
	"github.com/solacehq/solace-backend/internal/server"
	"github.com/solacehq/solace-backend/internal/services"
	"github.com/solacehq/solace-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	rateLimitHours := utils.GetEnvAsInt("RATE_LIMIT_HOURS", 0, log)
	themeCatalogPath := utils.GetEnv("THEME_CATALOG_PATH", "config/themes.yaml", log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "media", log)
	avatarFont := utils.GetEnv("AVATAR_FONT", "", log)

	// Tracing
	ctx := context.Background()
	if shutdown := observability.InitTracing(ctx, log, observability.OtelConfig{
		ServiceName: "solace-backend",
		Environment: logMode,
	}); shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	if err := db.SeedThemes(thePG, log, themeCatalogPath); err != nil {
		log.Error("Theme catalog seed failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	themeRepo := repos.NewThemeRepo(thePG, log)
	analysisStateRepo := repos.NewUserAnalysisStateRepo(thePG, log)

	// Theme catalog (owned here, shared by reference)
	themeCatalog := insight.NewCatalog(themeRepo, log)

	// Services
	log.Info("Setting up Services from main...")
	avatarService, err := services.NewAvatarService(log, mediaDir, avatarFont)
	if err != nil {
		log.Warn("Could not init AvatarService, registrations proceed without avatars", "error", err)
		avatarService = nil
	}
	authService := services.NewAuthService(
		thePG,
		log,
		userRepo,
		userTokenRepo,
		avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(thePG, log, userRepo)
	insightsService := services.NewInsightsService(
		log,
		themeCatalog,
		analysisStateRepo,
		time.Duration(rateLimitHours)*time.Hour,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	userHandler := handlers.NewUserHandler(log, userService)
	insightsHandler := handlers.NewInsightsHandler(log, insightsService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		UserHandler:     userHandler,
		InsightsHandler: insightsHandler,
		MediaDir:        mediaDir,
		TracingEnabled:  observability.Enabled(),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
