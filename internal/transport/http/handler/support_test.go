package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/funfans/funfans-api/internal/domain"
	"github.com/funfans/funfans-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSupportSvc struct{ mock.Mock }

func (m *mockSupportSvc) Create(ctx context.Context, userID, text string) (*domain.SupportMessage, error) {
	args := m.Called(ctx, userID, text)
	if msg, _ := args.Get(0).(*domain.SupportMessage); msg != nil {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSupportSvc) ListByUser(ctx context.Context, userID string) ([]domain.SupportMessage, error) {
	args := m.Called(ctx, userID)
	if msgs, _ := args.Get(0).([]domain.SupportMessage); msgs != nil {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSupportSvc) ListAll(ctx context.Context) ([]domain.SupportMessage, error) {
	args := m.Called(ctx)
	if msgs, _ := args.Get(0).([]domain.SupportMessage); msgs != nil {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSupportCreate_MissingClaims(t *testing.T) {
	h := NewSupportHandler(&mockSupportSvc{})
	body, _ := json.Marshal(map[string]string{"message": "olá"})
	r := httptest.NewRequest(http.MethodPost, "/v1/support-messages", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSupportCreate_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSupportSvc{}
	svc.On("Create", mock.Anything, "u1", "preciso de ajuda").Return(&domain.SupportMessage{
		MessageID: "m1",
		UserID:    "u1",
		Sender:    domain.SenderUser,
		Message:   "preciso de ajuda",
	}, nil)

	h := NewSupportHandler(svc)
	body, _ := json.Marshal(map[string]string{"message": "preciso de ajuda"})
	r := bearerReq(t, p, http.MethodPost, "/v1/support-messages", "u1", domain.RoleUser, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Create), rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp domain.SupportMessage
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "m1", resp.MessageID)
	svc.AssertExpectations(t)
}

func TestSupportCreate_EmptyMessage(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSupportSvc{}
	svc.On("Create", mock.Anything, "u1", "   ").
		Return(nil, fmt.Errorf("message must not be empty: %w", domain.ErrBadRequest))

	h := NewSupportHandler(svc)
	body, _ := json.Marshal(map[string]string{"message": "   "})
	r := bearerReq(t, p, http.MethodPost, "/v1/support-messages", "u1", domain.RoleUser, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Create), rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSupportListMine(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSupportSvc{}
	svc.On("ListByUser", mock.Anything, "u1").Return([]domain.SupportMessage{
		{MessageID: "m1", UserID: "u1"},
	}, nil)

	h := NewSupportHandler(svc)
	r := bearerReq(t, p, http.MethodGet, "/v1/support-messages", "u1", domain.RoleUser, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ListMine), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []domain.SupportMessage
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, 1)
	svc.AssertExpectations(t)
}

// The staff view sits behind the admin role guard in the router.
func TestSupportListAll_RoleGuard(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSupportSvc{}
	svc.On("ListAll", mock.Anything).Return([]domain.SupportMessage{{MessageID: "m1"}}, nil)

	h := NewSupportHandler(svc)
	guarded := middleware.RequireRole(domain.RoleAdmin)(http.HandlerFunc(h.ListAll))

	r := bearerReq(t, p, http.MethodGet, "/v1/support-messages", "u1", domain.RoleUser, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, guarded, rr, r)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	r = bearerReq(t, p, http.MethodGet, "/v1/support-messages", "admin1", domain.RoleAdmin, nil)
	rr = httptest.NewRecorder()
	serveAuthed(p, guarded, rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
