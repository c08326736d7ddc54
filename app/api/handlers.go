package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
	scheduleservice "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/application"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handlers serves the JSON API over the module services.
type Handlers struct {
	schedule    scheduleservice.Service
	picks       pickservice.Service
	results     resultservice.Service
	leaderboard leaderboardservice.Service
	users       userservice.Service
	clock       clock.Clock
	logger      *slog.Logger
}

func NewHandlers(
	schedule scheduleservice.Service,
	picks pickservice.Service,
	results resultservice.Service,
	leaderboard leaderboardservice.Service,
	users userservice.Service,
	clk clock.Clock,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		schedule:    schedule,
		picks:       picks,
		results:     results,
		leaderboard: leaderboard,
		users:       users,
		clock:       clk,
		logger:      logger,
	}
}

func roundParam(r *http.Request) (sharedtypes.RoundNumber, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid round %q", chi.URLParam(r, "round"))
	}
	return sharedtypes.RoundNumber(n), nil
}

func classParam(r *http.Request) (sharedtypes.PickClass, error) {
	c := sharedtypes.PickClass(chi.URLParam(r, "class"))
	if !c.Valid() {
		return "", fmt.Errorf("invalid class %q", c)
	}
	return c, nil
}

func userParam(r *http.Request) (sharedtypes.UserID, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid user id %q", chi.URLParam(r, "id"))
	}
	return sharedtypes.UserID(id), nil
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
