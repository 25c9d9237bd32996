package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pbfed/ranking-engine/services"
)

type RankingsHandler struct {
	recalcService services.RecalcService
	queryService  services.RankingsQueryService
	periodService services.PeriodService
}

func NewRankingsHandler(
	recalcService services.RecalcService,
	queryService services.RankingsQueryService,
	periodService services.PeriodService,
) *RankingsHandler {
	return &RankingsHandler{
		recalcService: recalcService,
		queryService:  queryService,
		periodService: periodService,
	}
}

// RecalculateHandler handles POST /rankings/recalculate. Per-player
// failures still yield 200 with the errors enumerated in the body; only a
// total failure becomes a 5xx.
func (h *RankingsHandler) RecalculateHandler(w http.ResponseWriter, r *http.Request) {
	state, err := parseStateParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.recalcService.RecalculateAll(r.Context(), state)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"recalculation": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LeaderboardHandler handles GET /rankings/leaderboard.
func (h *RankingsHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	periodID, err := h.resolvePeriodID(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	state, err := parseStateParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, offset, err := parsePageParams(r, 50)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	leaderboard, err := h.queryService.Leaderboard(r.Context(), periodID, state, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"period_id": periodID, "leaderboard": leaderboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayerRankingHandler handles GET /players/{playerID}/ranking.
func (h *RankingsHandler) PlayerRankingHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	periodID, err := h.resolvePeriodID(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	ranking, err := h.queryService.PlayerRanking(r.Context(), playerID, periodID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ranking": ranking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayerPointsHistoryHandler handles GET /players/{playerID}/points-history.
func (h *RankingsHandler) PlayerPointsHistoryHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var periodID *int
	if periodIDStr := r.URL.Query().Get("period_id"); periodIDStr != "" {
		id, convErr := strconv.Atoi(periodIDStr)
		if convErr != nil || id <= 0 {
			badRequestResponse(w, r, errors.New("invalid period_id query parameter"))
			return
		}
		periodID = &id
	}
	limit, _, err := parsePageParams(r, 20)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.queryService.PlayerPointsHistory(r.Context(), playerID, periodID, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"points_history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// resolvePeriodID reads period_id from the query string, defaulting to the
// active period.
func (h *RankingsHandler) resolvePeriodID(r *http.Request) (int, error) {
	if periodIDStr := r.URL.Query().Get("period_id"); periodIDStr != "" {
		id, err := strconv.Atoi(periodIDStr)
		if err != nil || id <= 0 {
			return 0, services.ErrPeriodNotFound
		}
		return id, nil
	}
	period, err := h.periodService.GetActivePeriod(r.Context())
	if err != nil {
		return 0, err
	}
	return period.ID, nil
}

func parseStateParam(r *http.Request) (*string, error) {
	stateStr := r.URL.Query().Get("state")
	if stateStr == "" {
		return nil, nil
	}
	if len(stateStr) > 64 {
		return nil, errors.New("invalid state query parameter")
	}
	return &stateStr, nil
}

func parsePageParams(r *http.Request, defaultLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	query := r.URL.Query()

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 500 {
			return 0, 0, errors.New("invalid limit query parameter")
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("invalid offset query parameter")
		}
	}
	return limit, offset, nil
}
