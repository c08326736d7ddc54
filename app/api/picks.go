package api

import (
	"net/http"

	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
)

// GetRoundView returns the caller's pick page for a round.
func (h *Handlers) GetRoundView(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.picks.GetRoundView(r.Context(), userID, round)
	writeResult(h, w, r, http.StatusOK, res, err)
}

// SubmitPick stores the caller's 450 and 250 picks for a round.
func (h *Handlers) SubmitPick(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var sel pickservice.Selection
	if err := decodeJSON(w, r, &sel); err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.picks.SubmitPick(r.Context(), userID, round, sel)
	writeResult(h, w, r, http.StatusOK, res, err)
}

// RunAutoPickSweep backfills missing picks for a locked round.
func (h *Handlers) RunAutoPickSweep(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.picks.RunAutoPickSweep(r.Context(), round)
	writeResult(h, w, r, http.StatusOK, res, err)
}
