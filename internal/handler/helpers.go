package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgvault/internal/middleware"
	appErr "github.com/xxxsen/imgvault/internal/pkg/errors"
	"github.com/xxxsen/imgvault/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	return middleware.UserID(c)
}

// handleError logs err with request context and writes the mapped response.
// upstreamCode is the code reported when an external collaborator failed.
func handleError(c *gin.Context, err error, upstreamCode string) {
	if err == nil {
		return
	}
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		logger.Debug("request rejected")
		response.Error(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, appErr.ErrUnsupportedType):
		logger.Debug("request rejected")
		response.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "unsupported media type")
	case errors.Is(err, appErr.ErrInvalidImage):
		logger.Debug("request rejected")
		response.Error(c, http.StatusUnsupportedMediaType, "invalid_image", "invalid image format")
	case errors.Is(err, appErr.ErrEmptyBody):
		response.Error(c, http.StatusBadRequest, "invalid_body", "request body is empty")
	case errors.Is(err, appErr.ErrTooLarge):
		response.Error(c, http.StatusBadRequest, "invalid_body", "request body is too large")
	case errors.Is(err, appErr.ErrInvalid):
		logger.Info("request rejected")
		response.Error(c, http.StatusBadRequest, "invalid_body", "invalid request body")
	case errors.Is(err, appErr.ErrUpstream):
		logger.Error("upstream call failed")
		response.Error(c, http.StatusBadRequest, upstreamCode, "request could not be completed")
	default:
		logger.Error("unexpected error")
		response.Error(c, http.StatusBadRequest, "internal", "request could not be completed")
	}
}
