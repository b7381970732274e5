package handler

import (
	"encoding/json"
	"net/http"

	"github.com/albapepper/scoracle-baseball/internal/api/respond"
	"github.com/albapepper/scoracle-baseball/internal/tools"
)

const maxSearchBody = 64 << 10

// SearchResponse wraps hybrid search results.
type SearchResponse struct {
	Query   string `json:"query"`
	Count   int    `json:"count"`
	Results any    `json:"results"`
}

// SearchSimilarPlayers runs a hybrid search.
// @Summary Search similar player seasons
// @Description Embeds the query text and returns the most similar season summaries that satisfy every filter.
// @Tags search
// @Accept json
// @Produce json
// @Param request body tools.SearchRequest true "Query, filters and limit"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /search [post]
func (h *Handler) SearchSimilarPlayers(w http.ResponseWriter, r *http.Request) {
	var req tools.SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.ErrorDetail(w, http.StatusBadRequest, respond.CodeInvalidBody, "Request body must be a search request", err.Error())
		return
	}

	results, err := h.svc.Search(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Count:   len(results),
		Results: results,
	})
}
