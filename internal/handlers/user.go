package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		RespondServiceError(c, uh.log, err)
		return
	}
	RespondOK(c, gin.H{"me": me})
}
