// ABOUTME: Session store holding the bearer token, user record, and auth mode
// ABOUTME: Single write path for session state; persists token and user together

package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/markalston/gestao-pecas/internal/permissions"
)

// Storage keys for the persisted session
const (
	KeyToken  = "msl_token"
	KeyUser   = "msl_usuario"
	KeyOrigin = "msl_origem"
)

// LegacySentinelToken marks sessions synthesized by older clients that did not
// persist an origin key.
const LegacySentinelToken = "dev-mode-token"

// Origin records how a session came to exist
type Origin int

const (
	OriginNone Origin = iota
	OriginReal
	OriginSynthetic
)

// String returns the string representation of an Origin
func (o Origin) String() string {
	switch o {
	case OriginReal:
		return "real"
	case OriginSynthetic:
		return "synthetic"
	default:
		return "none"
	}
}

func parseOrigin(s string) Origin {
	switch s {
	case "real":
		return OriginReal
	case "synthetic":
		return OriginSynthetic
	default:
		return OriginNone
	}
}

// User is the authenticated user record
type User struct {
	ID          int              `json:"id"`
	Username    string           `json:"username"`
	DisplayName string           `json:"nome"`
	Role        permissions.Role `json:"role"`
}

// Session is a snapshot of the authenticated context
type Session struct {
	Token  string
	User   *User
	Origin Origin
}

// Authenticated reports whether the snapshot holds a user
func (s Session) Authenticated() bool {
	return s.User != nil
}

// Store owns the session. Readers get copies; mutations replace the whole session.
type Store struct {
	kv     KV
	logger *slog.Logger

	mu           sync.Mutex
	current      Session
	authDisabled bool
	notified     bool
}

// NewStore creates a store backed by kv. A nil logger uses slog.Default().
func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Store{kv: kv, logger: logger}
}

// Load restores the persisted session, if any
func (s *Store) Load() Session {
	token, _ := s.kv.Get(KeyToken)
	rawUser, _ := s.kv.Get(KeyUser)
	rawOrigin, _ := s.kv.Get(KeyOrigin)

	var user *User
	if rawUser != "" {
		var u User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			s.logger.Warn("Discarding unreadable stored user", "error", err)
		} else {
			user = &u
		}
	}

	origin := parseOrigin(rawOrigin)
	if origin == OriginNone && token == LegacySentinelToken {
		origin = OriginSynthetic
	} else if origin == OriginNone {
		origin = OriginReal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || user == nil {
		s.current = Session{}
		if token != "" || rawUser != "" || rawOrigin != "" {
			s.logger.Warn("Discarding incomplete stored session")
			s.persist(Session{})
		}
		return s.current
	}
	s.current = Session{Token: token, User: user, Origin: origin}
	return s.snapshotLocked()
}

// Set installs a session issued by a real login. If either value is absent
// the session is cleared instead.
func (s *Store) Set(token string, user *User) {
	s.replace(token, user, OriginReal)
}

// SetSynthetic installs a session synthesized locally for auth-disabled mode
func (s *Store) SetSynthetic(token string, user *User) {
	s.replace(token, user, OriginSynthetic)
}

// Clear removes the session
func (s *Store) Clear() {
	s.replace("", nil, OriginNone)
}

func (s *Store) replace(token string, user *User, origin Origin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(token, user, origin)
}

func (s *Store) replaceLocked(token string, user *User, origin Origin) {
	if token == "" || user == nil {
		s.current = Session{}
		s.persist(Session{})
		return
	}

	u := *user
	s.current = Session{Token: token, User: &u, Origin: origin}
	s.notified = false
	s.persist(s.current)
}

// persist writes or erases the stored keys together. Failures are logged only.
func (s *Store) persist(sess Session) {
	var err error
	if sess.User == nil {
		err = s.kv.Apply(nil, []string{KeyToken, KeyUser, KeyOrigin})
	} else {
		var data []byte
		data, err = json.Marshal(sess.User)
		if err == nil {
			err = s.kv.Apply(map[string]string{
				KeyToken:  sess.Token,
				KeyUser:   string(data),
				KeyOrigin: sess.Origin.String(),
			}, nil)
		}
	}
	if err != nil {
		s.logger.Warn("Failed to persist session", "error", err)
	}
}

// Snapshot returns a copy of the current session. It performs no I/O.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	snap := s.current
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// Token returns the current bearer token, or "" when logged out
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

// CurrentRole implements permissions.Identity
func (s *Store) CurrentRole() (permissions.Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.User == nil {
		return "", false
	}
	return s.current.User.Role, true
}

// AuthDisabled reports whether the backend runs without authentication
func (s *Store) AuthDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authDisabled
}

// SetAuthDisabled records the backend auth mode
func (s *Store) SetAuthDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authDisabled = disabled
}

// ExpireSession clears the session after the backend rejected the token.
// It returns true only for the first expiry since the last session was
// established, so a burst of rejections notifies the user once.
func (s *Store) ExpireSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	s.persist(Session{})

	if s.notified {
		return false
	}
	s.notified = true
	return true
}
