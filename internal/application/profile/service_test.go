package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/funfans/funfans-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProfileStore) PutIfAbsent(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func TestMaterialize_Deterministic(t *testing.T) {
	a := Materialize("u1", "maria@example.com")
	b := Materialize("u1", "maria@example.com")
	assert.Equal(t, a, b)

	assert.Equal(t, "maria", a.DisplayName)
	assert.Equal(t, "https://api.dicebear.com/7.x/initials/svg?seed=maria", a.AvatarURL)
	assert.Equal(t, domain.RoleUser, a.Role)
	assert.Equal(t, 0, a.Followers)
}

func TestMaterialize_OddEmails(t *testing.T) {
	// No @ sign: the whole string is the display name.
	p := Materialize("u1", "not-an-email")
	assert.Equal(t, "not-an-email", p.DisplayName)

	// Leading @: falls back to the full string rather than an empty name.
	p = Materialize("u1", "@example.com")
	assert.Equal(t, "@example.com", p.DisplayName)
}

func TestEnsure_AlreadyExists(t *testing.T) {
	repo := &mockProfileStore{}
	existing := &domain.Profile{UserID: "u1", DisplayName: "custom"}
	repo.On("Get", mock.Anything, "u1").Return(existing, nil)

	svc := NewService(repo)
	p, err := svc.Ensure(context.Background(), "u1", "maria@example.com")

	require.NoError(t, err)
	assert.Equal(t, existing, p)
	repo.AssertNotCalled(t, "PutIfAbsent", mock.Anything, mock.Anything)
}

func TestEnsure_FirstSight(t *testing.T) {
	repo := &mockProfileStore{}
	repo.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	repo.On("PutIfAbsent", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.UserID == "u1" && p.DisplayName == "maria" && !p.CreatedAt.IsZero()
	})).Return(nil)

	svc := NewService(repo)
	p, err := svc.Ensure(context.Background(), "u1", "maria@example.com")

	require.NoError(t, err)
	assert.Equal(t, "maria", p.DisplayName)
	repo.AssertExpectations(t)
}

// Two racing first sightings converge on one stored profile.
func TestEnsure_LosesCreationRace(t *testing.T) {
	repo := &mockProfileStore{}
	winner := &domain.Profile{UserID: "u1", DisplayName: "winner"}
	repo.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound).Once()
	repo.On("PutIfAbsent", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	repo.On("Get", mock.Anything, "u1").Return(winner, nil).Once()

	svc := NewService(repo)
	p, err := svc.Ensure(context.Background(), "u1", "maria@example.com")

	require.NoError(t, err)
	assert.Equal(t, winner, p)
}

func TestEnsure_StoreFailure(t *testing.T) {
	repo := &mockProfileStore{}
	repo.On("Get", mock.Anything, "u1").Return(nil, errors.New("dynamo down"))

	svc := NewService(repo)
	_, err := svc.Ensure(context.Background(), "u1", "maria@example.com")

	require.Error(t, err)
}
