package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-baseball/internal/api/respond"
	"github.com/albapepper/scoracle-baseball/internal/cache"
	"github.com/albapepper/scoracle-baseball/internal/config"
)

// GetPlayerSeasons returns every season of players matching a name.
// @Summary Get player seasons
// @Description Case-insensitive partial name match, newest season first. An unknown name returns an empty list.
// @Tags players
// @Produce json
// @Param name path string true "Player name or part of it"
// @Param year query int false "Restrict to one season"
// @Success 200 {array} baseball.Season
// @Failure 400 {object} respond.ErrorResponse
// @Router /players/{name}/seasons [get]
func (h *Handler) GetPlayerSeasons(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	var year *int
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeInvalidYear, "year must be an integer")
			return
		}
		if y < config.FirstIndexedYear || y > time.Now().Year() {
			respond.Error(w, http.StatusBadRequest, respond.CodeInvalidYear,
				fmt.Sprintf("year must be between %d and %d", config.FirstIndexedYear, time.Now().Year()))
			return
		}
		year = &y
	}

	seasons, err := h.svc.PlayerStats(r.Context(), name, year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, seasons)
}

// GetCareerSummary returns a player's seasons and career totals.
// @Summary Get career summary
// @Description Resolves the name to one player (exact match first, then most career WAR) and aggregates totals, peak WAR, best-7 peak and JAWS.
// @Tags players
// @Produce json
// @Param name path string true "Player name"
// @Success 200 {object} tools.CareerSummary
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{name}/career [get]
func (h *Handler) GetCareerSummary(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	key := cache.Key("career", name)
	h.serveCached(w, r, key, cache.TTLCareer, func() (any, error) {
		return h.svc.CareerSummary(r.Context(), name)
	})
}

// ComparePlayers compares two careers.
// @Summary Compare players
// @Description Career totals for both players and the differences player1 minus player2.
// @Tags players
// @Produce json
// @Param player1 query string true "First player"
// @Param player2 query string true "Second player"
// @Success 200 {object} career.Comparison
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /compare [get]
func (h *Handler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	p1 := strings.TrimSpace(r.URL.Query().Get("player1"))
	p2 := strings.TrimSpace(r.URL.Query().Get("player2"))
	if p1 == "" || p2 == "" {
		respond.Error(w, http.StatusBadRequest, respond.CodeMissingPlayer, "player1 and player2 query parameters are required")
		return
	}

	key := cache.Key("compare", p1, p2)
	h.serveCached(w, r, key, cache.TTLCareer, func() (any, error) {
		return h.svc.Compare(r.Context(), p1, p2)
	})
}

// GetSeasonSummary returns one season's grade card and paragraph.
// @Summary Get season summary
// @Description Grades the season on the 20-80 scale and renders the same paragraph that is embedded for search.
// @Tags seasons
// @Produce json
// @Param playerSeasonID path string true "Player season ID"
// @Success 200 {object} tools.SeasonSummary
// @Failure 404 {object} respond.ErrorResponse
// @Router /seasons/{playerSeasonID}/summary [get]
func (h *Handler) GetSeasonSummary(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "playerSeasonID")
	key := cache.Key("summary", id)
	h.serveCached(w, r, key, cache.TTLSummary, func() (any, error) {
		return h.svc.SeasonSummary(r.Context(), id)
	})
}

// pathParam returns a decoded URL parameter. chi hands back the raw segment
// when the path contains escaped slashes.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
