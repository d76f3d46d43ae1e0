package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"marketplace-api/internal/domain"
)

type errorResponse struct {
	Message string `json:"message"`
}

func errorBody(msg string) errorResponse {
	return errorResponse{Message: msg}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status of its domain cause. Unexpected
// errors are logged and answered with a generic body.
func writeError(c *gin.Context, lg *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		lg.Error("request failed",
			zap.String("request_id", requestIDFrom(c.Request.Context())),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, errorBody("internal error"))
		return
	}
	c.JSON(status, errorBody(err.Error()))
}

func (h *handler) fail(c *gin.Context, err error) {
	writeError(c, h.logger, err)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody(msg))
}

// idParam parses the named path parameter as a positive id.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
