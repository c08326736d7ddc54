package api

import (
	"net/http"
	"time"

	userjwt "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/jwt"
	userservice "github.com/Black-And-White-Club/moto-pickem/app/modules/user/application"
)

type registerBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordBody struct {
	Password string `json:"password"`
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string                  `json:"token"`
	ExpiresAt time.Time               `json:"expires_at"`
	User      userservice.UserSummary `json:"user"`
}

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := decodeJSON(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.users.RegisterUser(r.Context(), body.Username, body.Email, body.Password)
	writeResult(h, w, r, http.StatusCreated, res, err)
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if users == nil {
		users = []userservice.UserSummary{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := userParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var body passwordBody
	if err := decodeJSON(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.users.ResetPassword(r.Context(), id, body.Password)
	writeResult(h, w, r, http.StatusOK, res, err)
}

// DeleteUser removes a user together with their picks.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := userParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	res, err := h.users.DeleteUser(r.Context(), id)
	writeResult(h, w, r, http.StatusOK, res, err)
}

// Login exchanges a username and password for a session token.
func (h *Handlers) Login(sessions userjwt.Provider, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginBody
		if err := decodeJSON(w, r, &body); err != nil {
			badRequest(w, err)
			return
		}
		res, err := h.users.Authenticate(r.Context(), body.Username, body.Password)
		if err != nil || !res.IsSuccess() {
			writeResult(h, w, r, http.StatusOK, res, err)
			return
		}

		user := *res.Success
		token, expires, err := sessions.GenerateToken(user.ID, user.Username, ttl)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expires, User: user})
	}
}
