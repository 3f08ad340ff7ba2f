package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/frahmantamala/hrms-portal/internal"
)

// Store is the single source of truth for who is logged in and as what. It
// mirrors the persisted keys in memory; the storage port keeps the session
// durable across process restarts.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	logger  *slog.Logger
	current Session
}

func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
	}
	s.restore()
	return s
}

// restore rebuilds the in-memory mirror from storage. Malformed identity JSON
// is treated as "no identity": the corrupt key is removed and the rest of the
// session survives with defaults.
func (s *Store) restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{}
	sess.Token = s.read(KeyAuthToken)
	sess.UserName = s.read(KeyUserName)
	sess.Role = Role(s.read(KeyUserRole))
	sess.UserID = s.read(KeyUserID)
	sess.EmployeeID = s.read(KeyUserEmployeeID)

	if raw := s.read(KeyUserInfo); raw != "" {
		var identity Identity
		if err := json.Unmarshal([]byte(raw), &identity); err != nil {
			s.logger.Warn("stored identity is malformed, discarding", "error", err)
			if delErr := s.storage.Delete(KeyUserInfo); delErr != nil {
				s.logger.Warn("could not remove corrupt identity key", "error", delErr)
			}
		} else {
			sess.Identity = identity
		}
	}

	s.current = sess
}

func (s *Store) read(key string) string {
	value, err := s.storage.Get(key)
	if err != nil {
		s.logger.Warn("session storage read failed", "key", key, "error", err)
		return ""
	}
	return value
}

// Login persists the authenticated session. Token and role are required;
// everything else is best-effort context data.
func (s *Store) Login(token, userName string, role Role, identity Identity) error {
	if token == "" {
		return internal.NewValidationError("auth token is required", internal.ErrCodeValidationFailed)
	}
	if role == "" {
		return internal.NewValidationError("user role is required", internal.ErrCodeValidationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := identity.EmployeeID
	if userID == "" {
		userID = identity.Username
	}

	entries := map[string]string{
		KeyAuthToken:      token,
		KeyUserName:       userName,
		KeyUserRole:       string(role),
		KeyUserID:         userID,
		KeyUserEmployeeID: identity.EmployeeID,
	}
	if raw, err := json.Marshal(identity); err == nil {
		entries[KeyUserInfo] = string(raw)
	}

	for key, value := range entries {
		if err := s.storage.Set(key, value); err != nil {
			return internal.NewInternalError("persisting session failed", err)
		}
	}

	s.current = Session{
		Token:      token,
		UserName:   userName,
		Role:       role,
		UserID:     userID,
		EmployeeID: identity.EmployeeID,
		Identity:   identity,
	}

	s.logger.Info("session established",
		"user_name", userName,
		"role", role,
		"employee_id", identity.EmployeeID)
	return nil
}

// Logout clears the in-memory session and every persisted key. It is
// idempotent and never fails the local clear: storage errors are logged only.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range allKeys {
		if err := s.storage.Delete(key); err != nil {
			s.logger.Warn("could not clear session key", "key", key, "error", err)
		}
	}
	s.current = Session{}
	s.logger.Info("session cleared")
}

// Clear is the forced-logout path used by the client wrapper on 401 and by
// the navigation guard when it detects corrupt state or a redirect loop.
func (s *Store) Clear() {
	s.Logout()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated()
}

// RoleIs compares the session role against candidate ignoring case. An empty
// session role never matches.
func (s *Store) RoleIs(candidate Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Role == "" {
		return false
	}
	return s.current.Role.Equals(candidate)
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

func (s *Store) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Role
}

func (s *Store) EmployeeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.EmployeeID
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
