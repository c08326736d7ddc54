package api

import (
	"encoding/json"
	"errors"
	"net/http"

	leaderboardservice "github.com/Black-And-White-Club/moto-pickem/app/modules/leaderboard/application"
	pickservice "github.com/Black-And-White-Club/moto-pickem/app/modules/pick/application"
	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
	scheduleservice "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/application"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

var failureStatus = []struct {
	target error
	status int
}{
	{pickservice.ErrRoundNotFound, http.StatusNotFound},
	{pickservice.ErrUserNotFound, http.StatusNotFound},
	{resultservice.ErrRoundNotFound, http.StatusNotFound},
	{resultservice.ErrRiderNotFound, http.StatusNotFound},
	{scheduleservice.ErrRoundNotFound, http.StatusNotFound},
	{scheduleservice.ErrRiderNotFound, http.StatusNotFound},
	{userservice.ErrUserNotFound, http.StatusNotFound},

	{userservice.ErrInvalidCredentials, http.StatusUnauthorized},

	{pickservice.ErrDeadlinePassed, http.StatusConflict},
	{pickservice.ErrRepeatRule, http.StatusConflict},
	{pickservice.ErrRoundStillOpen, http.StatusConflict},
	{userservice.ErrUserAlreadyExists, http.StatusConflict},

	{pickservice.ErrEligibility, http.StatusUnprocessableEntity},
	{pickservice.ErrValidation, http.StatusUnprocessableEntity},
	{resultservice.ErrValidation, http.StatusUnprocessableEntity},
	{resultservice.ErrDuplicatePosition, http.StatusUnprocessableEntity},
	{scheduleservice.ErrInvalidRound, http.StatusUnprocessableEntity},
	{scheduleservice.ErrInvalidRider, http.StatusUnprocessableEntity},
	{userservice.ErrInvalidUsername, http.StatusUnprocessableEntity},
	{userservice.ErrInvalidEmail, http.StatusUnprocessableEntity},
	{userservice.ErrWeakPassword, http.StatusUnprocessableEntity},

	{leaderboardservice.ErrInvalidView, http.StatusBadRequest},
	{resultservice.ErrImportUnavailable, http.StatusBadGateway},
}

// statusFor maps a domain failure onto an HTTP status.
func statusFor(err error) int {
	if status, ok := knownFailure(err); ok {
		return status
	}
	return http.StatusBadRequest
}

func knownFailure(err error) (int, bool) {
	for _, fs := range failureStatus {
		if errors.Is(err, fs.target) {
			return fs.status, true
		}
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

// writeError answers a plain service error: a known domain error keeps its
// 4xx status, anything else is logged and hidden behind a 500.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if status, ok := knownFailure(err); ok {
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}
	h.logger.ErrorContext(r.Context(), "Request failed",
		attr.String("path", r.URL.Path),
		attr.ExtractCorrelationID(r.Context()),
		attr.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

// writeResult writes the success payload with status, a failure as a 4xx,
// or an infrastructure error as a 500.
func writeResult[S any](h *Handlers, w http.ResponseWriter, r *http.Request, status int, res results.OperationResult[S, error], err error) {
	switch {
	case err != nil:
		h.writeError(w, r, err)
	case res.IsFailure():
		writeFailure(w, *res.Failure)
	case res.IsSuccess():
		writeJSON(w, status, res.Success)
	default:
		h.writeError(w, r, errors.New("empty operation result"))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
