package handler

import (
	"encoding/json"
	"net/http"

	"github.com/funfans/funfans-api/internal/application/support"
	"github.com/funfans/funfans-api/internal/transport/http/middleware"
)

// SupportHandler handles the support message channel.
type SupportHandler struct {
	svc support.Service
}

func NewSupportHandler(svc support.Service) *SupportHandler {
	return &SupportHandler{svc: svc}
}

func (h *SupportHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := h.svc.Create(r.Context(), claims.UserID, req.Message)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *SupportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	msgs, err := h.svc.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// ListAll is the staff view; the router guards it with the admin role.
func (h *SupportHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.ListAll(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
