package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString(requestIDKey)
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 409:
		resp = response.Conflict(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleServiceError maps sentinel errors from the service/storage layers to
// HTTP statuses.
func HandleServiceError(c *gin.Context, logger internal.Logger, err error, msg string) {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		HandleError(c, logger, err, 404, msg)
	case errors.Is(err, internal.ErrInsufficientPoints):
		HandleError(c, logger, err, 400, msg)
	case errors.Is(err, internal.ErrConflict):
		HandleError(c, logger, err, 409, msg)
	default:
		HandleError(c, logger, err, 500, msg)
	}
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString(requestIDKey)
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(200, response.Success(data, meta))
}

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet("user").(*internal.User)
}

func errFieldRequired(field string) error {
	return fmt.Errorf("'%s' must be a positive integer", field)
}
