package handler

import (
	"encoding/json"
	"net/http"

	"github.com/funfans/funfans-api/internal/application/notification"
)

// SendEmailHandler is the transactional-email dispatch endpoint. It manages
// its own CORS so the preflight contract holds regardless of payload
// validity: headers are written before any body parsing.
type SendEmailHandler struct {
	svc notification.Service
}

func NewSendEmailHandler(svc notification.Service) *SendEmailHandler {
	return &SendEmailHandler{svc: svc}
}

func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

// Preflight answers OPTIONS with an empty 204 and the permissive headers.
func (h *SendEmailHandler) Preflight(w http.ResponseWriter, _ *http.Request) {
	corsHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch renders and sends one email. 200 carries the email provider's
// response body verbatim; any failure (parse, missing field, send) is a 500
// with {error}. Every response carries the CORS headers.
func (h *SendEmailHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)

	var req notification.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "invalid request body")
		return
	}
	resp, err := h.svc.Dispatch(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp)
}
