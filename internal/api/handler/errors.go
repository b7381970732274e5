package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/albapepper/scoracle-baseball/internal/api/respond"
	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/career"
	"github.com/albapepper/scoracle-baseball/internal/embedding"
	"github.com/albapepper/scoracle-baseball/internal/search"
	"github.com/albapepper/scoracle-baseball/internal/tools"
)

// writeError maps tool-layer errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var reqErr *embedding.RequestError
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		respond.Error(w, http.StatusBadRequest, respond.CodeEmptyQuery, "query must not be empty")
	case errors.Is(err, search.ErrInvalidFilters):
		respond.ErrorDetail(w, http.StatusBadRequest, respond.CodeInvalidFilters, "Invalid search filters", err.Error())
	case errors.Is(err, tools.ErrEmptyName):
		respond.Error(w, http.StatusBadRequest, respond.CodeMissingPlayer, "player name is required")
	case errors.Is(err, career.ErrNoStats):
		respond.ErrorDetail(w, http.StatusNotFound, respond.CodeNotFound, "No stats found for player", err.Error())
	case errors.Is(err, baseball.ErrSeasonNotFound):
		respond.ErrorDetail(w, http.StatusNotFound, respond.CodeNotFound, "Season not found", err.Error())
	case errors.As(err, &reqErr),
		errors.Is(err, embedding.ErrEmptyVector),
		errors.Is(err, embedding.ErrDimensionMismatch):
		h.logger.Error("Embedding backend failed", "error", err)
		respond.Error(w, http.StatusBadGateway, respond.CodeEmbeddingFailed, "Embedding service request failed")
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(w, http.StatusGatewayTimeout, respond.CodeTimeout, "Request timed out")
	default:
		h.logger.Error("Request failed", "error", err)
		respond.Error(w, http.StatusServiceUnavailable, respond.CodeUnavailable, "Service temporarily unavailable")
	}
}
