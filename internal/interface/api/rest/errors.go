package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "upload-server/internal/domain/upload"
	"upload-server/internal/interface/api/rest/dto/upload"
)

const (
	msgValidation        = "Validation error"
	msgInvalidFileFormat = "Invalid file format"
	msgFileTooLarge      = "File size limit reached"
	msgFileNotFound      = "File not found"
	msgInternal          = "Internal server error"
)

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, upload.ErrorResponse{Message: msg})
}

func abortWithIssues(c *gin.Context, issues map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, upload.ErrorResponse{Message: msgValidation, Issues: issues})
}

// abortWithError maps a service error to its response. Unexpected errors are
// logged and hidden behind a generic message.
func abortWithError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var de *domain.Error
	switch {
	case errors.As(err, &de) && de.Kind == domain.KindValidation:
		abortWithIssues(c, de.Fields)
	case errors.Is(err, domain.ErrInvalidFileFormat):
		abortWithMessage(c, http.StatusBadRequest, msgInvalidFileFormat)
	default:
		logger.Error(op+" error", zap.Error(err))
		abortWithMessage(c, http.StatusInternalServerError, msgInternal)
	}
}
