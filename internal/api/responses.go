package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Code  string `json:"code,omitempty" example:"NOT_FOUND"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// RespondError maps a domain error to its HTTP status and stable code.
// Anything that is not an apperr.Error is logged and hidden behind a 500.
func RespondError(c *gin.Context, err error) {
	if appErr := apperr.As(err); appErr != nil {
		c.JSON(appErr.Status, ErrorResponse{Error: appErr.Message, Code: appErr.Code})
		return
	}

	logger.Errorf("unexpected error on %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
