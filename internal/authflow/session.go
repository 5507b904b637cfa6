package authflow

import (
	"encoding/json"
	"fmt"
	"os"
)

// StoredSession is the locally persisted view of a provider session: enough
// to restore an authenticated app start without re-prompting credentials.
type StoredSession struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Bearer       string `json:"bearer"`
	RefreshToken string `json:"refresh_token"`
}

// SessionStore persists one session across runs. Load returns (nil, nil)
// when no session is stored.
type SessionStore interface {
	Load() (*StoredSession, error)
	Save(*StoredSession) error
	Clear() error
}

// SessionService owns the locally held session with an explicit lifecycle:
// Init on app start reads any persisted session, SignOut clears it. It is
// constructed and injected, never reached ambiently.
type SessionService struct {
	store   SessionStore
	current *StoredSession
}

func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{store: store}
}

// Init reads the persisted session, if any. Call once at app start.
func (s *SessionService) Init() error {
	sess, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load persisted session: %w", err)
	}
	s.current = sess
	return nil
}

// Current returns the held session, nil when signed out.
func (s *SessionService) Current() *StoredSession { return s.current }

// Authenticated reports whether a session is held.
func (s *SessionService) Authenticated() bool { return s.current != nil }

// Begin records and persists a freshly minted provider session.
func (s *SessionService) Begin(sess *Session) error {
	stored := &StoredSession{
		UserID:       sess.Identity.ID,
		Email:        sess.Identity.Email,
		Bearer:       sess.Bearer,
		RefreshToken: sess.RefreshToken,
	}
	s.current = stored
	return s.store.Save(stored)
}

// SignOut drops the held session and clears the persisted copy.
func (s *SessionService) SignOut() error {
	s.current = nil
	return s.store.Clear()
}

// FileSessionStore persists the session as a JSON file.
type FileSessionStore struct {
	Path string
}

func (f *FileSessionStore) Load() (*StoredSession, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s StoredSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &s, nil
}

func (f *FileSessionStore) Save(s *StoredSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0600)
}

func (f *FileSessionStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemorySessionStore keeps the session in memory only. Useful in tests and
// for callers that opt out of persistence.
type MemorySessionStore struct {
	session *StoredSession
}

func (m *MemorySessionStore) Load() (*StoredSession, error) { return m.session, nil }

func (m *MemorySessionStore) Save(s *StoredSession) error {
	m.session = s
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.session = nil
	return nil
}
