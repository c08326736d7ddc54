package api

import (
	"fmt"
	"net/http"

	scheduleservice "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/application"
	scheduledomain "github.com/Black-And-White-Club/moto-pickem/app/modules/schedule/domain"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/go-chi/chi/v5"
)

type roundBody struct {
	RaceDate  string                `json:"race_date"`
	Location  string                `json:"location"`
	RaceType  sharedtypes.RaceType  `json:"race_type"`
	SplitMode sharedtypes.SplitMode `json:"split_mode"`
}

type riderBody struct {
	Name   string                 `json:"name"`
	Class  sharedtypes.RiderClass `json:"class"`
	Active *bool                  `json:"active"`
}

type activeBody struct {
	Active bool `json:"active"`
}

func (h *Handlers) ListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.schedule.ListRounds(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if rounds == nil {
		rounds = []scheduleservice.RoundInfo{}
	}
	writeJSON(w, http.StatusOK, rounds)
}

func (h *Handlers) GetRound(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	info, err := h.schedule.GetRound(r.Context(), round)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// EligibleRiders lists riders that may be picked for ?class= at a round.
func (h *Handlers) EligibleRiders(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	class := sharedtypes.PickClass(r.URL.Query().Get("class"))
	if !class.Valid() {
		badRequest(w, fmt.Errorf("invalid class %q", class))
		return
	}
	riders, err := h.schedule.EligibleRiders(r.Context(), round, class)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	names := make([]string, 0, len(riders))
	for _, rd := range riders {
		names = append(names, rd.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

// UpsertRound creates or updates a round. race_date accepts ISO dates and
// phrases like "next saturday".
func (h *Handlers) UpsertRound(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var body roundBody
	if err := decodeJSON(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	date, err := scheduledomain.ParseRaceDate(body.RaceDate, h.clock)
	if err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.schedule.UpsertRound(r.Context(), scheduleservice.RoundInput{
		Number:    round,
		RaceDate:  date,
		Location:  body.Location,
		RaceType:  body.RaceType,
		SplitMode: body.SplitMode,
	})
	writeResult(h, w, r, http.StatusOK, res, err)
}

func (h *Handlers) DeleteRound(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.schedule.DeleteRound(r.Context(), round)
	writeResult(h, w, r, http.StatusOK, res, err)
}

func (h *Handlers) UpsertRider(w http.ResponseWriter, r *http.Request) {
	var body riderBody
	if err := decodeJSON(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	active := true
	if body.Active != nil {
		active = *body.Active
	}
	res, err := h.schedule.UpsertRider(r.Context(), scheduleservice.RiderInput{
		Name:   body.Name,
		Class:  body.Class,
		Active: active,
	})
	writeResult(h, w, r, http.StatusOK, res, err)
}

func (h *Handlers) SetRiderActive(w http.ResponseWriter, r *http.Request) {
	var body activeBody
	if err := decodeJSON(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	name := chi.URLParam(r, "name")
	if err := h.schedule.SetRiderActive(r.Context(), name, body.Active); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "active": body.Active})
}
