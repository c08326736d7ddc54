package api

import (
	"net/http"

	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
)

type enterResultsBody struct {
	Entries []resultservice.ResultEntry `json:"entries"`
	Replace bool                        `json:"replace"`
}

// GetResults lists stored finishes with points for a round and class.
func (h *Handlers) GetResults(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	class, err := classParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	views, err := h.results.GetResults(r.Context(), round, class)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if views == nil {
		views = []resultservice.ResultView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// EnterResults stores a batch of finishing positions typed by an admin.
func (h *Handlers) EnterResults(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	class, err := classParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var body enterResultsBody
	if err := decodeJSON(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.results.EnterResults(r.Context(), resultservice.EnterResultsRequest{
		Round:   round,
		Class:   class,
		Entries: body.Entries,
		Replace: body.Replace,
		Source:  "manual",
	})
	writeResult(h, w, r, http.StatusOK, res, err)
}

// ImportResults pulls finishing positions from the configured source.
func (h *Handlers) ImportResults(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	class, err := classParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.results.ImportResults(r.Context(), round, class)
	writeResult(h, w, r, http.StatusOK, res, err)
}
