package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

const (
	// TokenKey holds the bearer token.
	TokenKey = "auth_token"
	// UserKey holds the JSON-encoded user profile.
	UserKey = "auth_user"
	// KeyPrefix is shared by every auth-related key. Clear removes all of them.
	KeyPrefix = "auth_"

	TokenTTL = 7 * 24 * time.Hour
	UserTTL  = 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("credstore: token is empty or not JWT-shaped")
	ErrInvalidUser  = errors.New("credstore: user is missing id, email or role")
)

// Store persists the session across restarts. Reads consult the primary
// layer first and fall back to the mirror; writes go to both. Backend
// failures are logged and read as absence, never surfaced as a crash.
type Store struct {
	primary   Backend
	mirror    Backend
	transient *Memory
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMirror adds a secondary layer that receives a copy of every write and
// serves reads the primary cannot.
func WithMirror(b Backend) Option {
	return func(s *Store) { s.mirror = b }
}

// WithLogger sets the logger used for backend failures and rejected writes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New builds a Store over primary.
func New(primary Backend, opts ...Option) *Store {
	s := &Store{
		primary:   primary,
		transient: NewMemory(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) layers() []Backend {
	if s.mirror == nil {
		return []Backend{s.primary}
	}
	return []Backend{s.primary, s.mirror}
}

// read returns the first live value for key. A value served from the mirror
// is not copied back into the primary.
func (s *Store) read(ctx context.Context, key string) (string, bool) {
	for _, b := range s.layers() {
		v, ok, err := b.Get(ctx, key)
		if err != nil {
			s.logger.Warn("credential read failed", "backend", b.Name(), "key", key, "error", err)
			continue
		}
		if ok {
			return v, true
		}
	}
	return "", false
}

// write stores value in every layer and fails only if no layer took it.
func (s *Store) write(ctx context.Context, key, value string, ttl time.Duration) error {
	var errs []error
	for _, b := range s.layers() {
		if err := b.Set(ctx, key, value, ttl); err != nil {
			s.logger.Warn("credential write failed", "backend", b.Name(), "key", key, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(s.layers()) {
		return errors.Join(errs...)
	}
	return nil
}

// Token returns the persisted bearer token. A persisted value that is not
// JWT-shaped wipes all credentials.
func (s *Store) Token(ctx context.Context) (string, bool) {
	token, ok := s.read(ctx, TokenKey)
	if !ok {
		return "", false
	}
	if !ValidTokenShape(token) {
		s.logger.Warn("persisted token is malformed, clearing credentials")
		s.Clear(ctx)
		return "", false
	}
	return token, true
}

// SetToken persists token for TokenTTL. Invalid tokens are refused and
// nothing is written.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if !ValidTokenShape(token) {
		s.logger.Warn("refusing to persist malformed token")
		return ErrInvalidToken
	}
	return s.write(ctx, TokenKey, token, TokenTTL)
}

// User returns the persisted profile. Absence, undecodable JSON or a
// profile without id, email or role wipes all credentials.
func (s *Store) User(ctx context.Context) (crmsdk.User, bool) {
	raw, ok := s.read(ctx, UserKey)
	if !ok {
		s.Clear(ctx)
		return crmsdk.User{}, false
	}

	var user crmsdk.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("persisted user is not valid json, clearing credentials", "error", err)
		s.Clear(ctx)
		return crmsdk.User{}, false
	}
	if !user.HasIdentity() {
		s.logger.Warn("persisted user is incomplete, clearing credentials", "user_id", user.ID)
		s.Clear(ctx)
		return crmsdk.User{}, false
	}
	return user, true
}

// SetUser persists user for UserTTL.
func (s *Store) SetUser(ctx context.Context, user crmsdk.User) error {
	if !user.HasIdentity() {
		s.logger.Warn("refusing to persist incomplete user", "user_id", user.ID)
		return ErrInvalidUser
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.write(ctx, UserKey, string(raw), UserTTL)
}

// Clear removes the token, the user and every other auth_ key from every
// layer, and drops all transient state.
func (s *Store) Clear(ctx context.Context) {
	for _, b := range s.layers() {
		keys := []string{TokenKey, UserKey}
		extra, err := b.Keys(ctx, KeyPrefix)
		if err != nil {
			s.logger.Warn("credential key listing failed", "backend", b.Name(), "error", err)
		}
		keys = append(keys, extra...)

		for _, k := range keys {
			if err := b.Delete(ctx, k); err != nil {
				s.logger.Warn("credential delete failed", "backend", b.Name(), "key", k, "error", err)
			}
		}
	}
	s.transient.Reset()
	s.logger.Debug("credentials cleared")
}

// IsValid reports whether both a usable token and a usable user are stored.
func (s *Store) IsValid(ctx context.Context) bool {
	if _, ok := s.Token(ctx); !ok {
		return false
	}
	_, ok := s.User(ctx)
	return ok
}

// Remember keeps a value for the life of the process only. Clear drops it.
func (s *Store) Remember(ctx context.Context, key, value string) {
	_ = s.transient.Set(ctx, key, value, 24*time.Hour)
}

// Recall returns a value stored with Remember.
func (s *Store) Recall(ctx context.Context, key string) (string, bool) {
	v, ok, _ := s.transient.Get(ctx, key)
	return v, ok
}

// Forget drops a value stored with Remember.
func (s *Store) Forget(ctx context.Context, key string) {
	_ = s.transient.Delete(ctx, key)
}

var _ crmsdk.TokenSource = (*Store)(nil)
