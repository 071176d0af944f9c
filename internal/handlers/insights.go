package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/requestdata"
	"github.com/solacehq/solace-backend/internal/services"
)

type InsightsHandler struct {
	log             *logger.Logger
	insightsService services.InsightsService
}

func NewInsightsHandler(log *logger.Logger, insightsService services.InsightsService) *InsightsHandler {
	return &InsightsHandler{log: log.With("handler", "InsightsHandler"), insightsService: insightsService}
}

// AnalyzeReflection scores the submitted self-reflection against the theme
// catalog and returns the selected themes.
func (ih *InsightsHandler) AnalyzeReflection(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", "missing caller identity")
		return
	}

	var req struct {
		SelfReflectionText *string `json:"selfReflectionText"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.SelfReflectionText == nil || strings.TrimSpace(*req.SelfReflectionText) == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_TEXT", "selfReflectionText is required")
		return
	}

	result, err := ih.insightsService.AnalyzeReflection(c.Request.Context(), rd.UserID, *req.SelfReflectionText)
	if err != nil {
		RespondServiceError(c, ih.log, err)
		return
	}
	RespondOK(c, result)
}

func (ih *InsightsHandler) ListThemes(c *gin.Context) {
	themes, err := ih.insightsService.Themes(c.Request.Context())
	if err != nil {
		RespondServiceError(c, ih.log, err)
		return
	}
	RespondOK(c, gin.H{"themes": themes})
}
