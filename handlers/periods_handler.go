package handlers

import (
	"net/http"

	"github.com/pbfed/ranking-engine/services"
)

type PeriodsHandler struct {
	periodService services.PeriodService
}

func NewPeriodsHandler(periodService services.PeriodService) *PeriodsHandler {
	return &PeriodsHandler{periodService: periodService}
}

// ListHandler handles GET /periods.
func (h *PeriodsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodService.ListPeriods(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"periods": periods}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ActiveHandler handles GET /periods/active.
func (h *PeriodsHandler) ActiveHandler(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodService.GetActivePeriod(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"period": period}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /periods/{periodID}.
func (h *PeriodsHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "periodID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	period, err := h.periodService.GetPeriod(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"period": period}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CloseHandler handles POST /periods/{periodID}/close.
func (h *PeriodsHandler) CloseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "periodID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	period, err := h.periodService.ClosePeriod(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"period": period}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
