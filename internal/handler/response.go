package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error:   errType,
		Message: message,
	})
}

// respondDomainError maps domain sentinels onto HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, domain.ErrMalformedPayload):
		respondError(c, http.StatusBadRequest, "malformed_payload", err.Error())
	case errors.Is(err, domain.ErrPinNotFound):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrEpisodeNotFound):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		slog.ErrorContext(ctx, "store unavailable",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusServiceUnavailable, "store_unavailable", "storage backend unavailable")
	default:
		slog.ErrorContext(ctx, "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to process request")
	}
}
