package api

import (
	"errors"
	"net/http"
	"strconv"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	leaderboardchart "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/infrastructure/chart"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

func viewQuery(r *http.Request) sharedtypes.ViewType {
	if v := r.URL.Query().Get("view"); v != "" {
		return sharedtypes.ViewType(v)
	}
	return sharedtypes.ViewOverall
}

// GetLeaderboard serves a cached standings view.
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.leaderboard.GetLeaderboard(r.Context(), viewQuery(r))
	writeResult(h, w, r, http.StatusOK, res, err)
}

// GetProgressionChart renders cumulative points for the top users as a PNG.
func (h *Handlers) GetProgressionChart(w http.ResponseWriter, r *http.Request) {
	top := 5
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, errors.New("top must be a non-negative integer"))
			return
		}
		top = n
	}

	p, err := h.leaderboard.StandingsProgression(r.Context(), viewQuery(r), top)
	if errors.Is(err, leaderboardservice.ErrInvalidView) {
		badRequest(w, err)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	png, err := leaderboardchart.RenderProgression(p, leaderboardchart.DefaultPalette)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// TriggerRecalculation rebuilds the leaderboard cache.
func (h *Handlers) TriggerRecalculation(w http.ResponseWriter, r *http.Request) {
	res, err := h.leaderboard.TriggerRecalculation(r.Context())
	writeResult(h, w, r, http.StatusOK, res, err)
}
