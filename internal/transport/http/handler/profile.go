package handler

import (
	"net/http"

	"github.com/funfans/funfans-api/internal/application/profile"
	"github.com/funfans/funfans-api/internal/transport/http/middleware"
)

// ProfileHandler materializes and serves the platform profile for the
// authenticated identity.
type ProfileHandler struct {
	svc profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.Ensure(r.Context(), claims.UserID, claims.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
