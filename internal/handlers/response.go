package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solacehq/solace-backend/internal/apierr"
	"github.com/solacehq/solace-backend/internal/logger"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func RespondError(c *gin.Context, status int, code string, msg string) {
	if msg == "" {
		msg = "unknown error"
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondServiceError maps a service error to the wire. Coded client errors
// keep their message; anything uncoded or server-side becomes a generic 500
// so internal detail never reaches the caller.
func RespondServiceError(c *gin.Context, log *logger.Logger, err error) {
	if ae := apierr.From(err); ae != nil {
		if ae.Status >= http.StatusInternalServerError {
			log.Error("Request failed", "code", ae.Code, "error", err)
			RespondError(c, ae.Status, ae.Code, "something went wrong, please try again")
			return
		}
		RespondError(c, ae.Status, ae.Code, ae.Error())
		return
	}
	log.Error("Unclassified request failure", "error", err)
	RespondError(c, http.StatusInternalServerError, "INTERNAL", "something went wrong, please try again")
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
