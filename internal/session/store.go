package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

// Credential failures carry the exact messages shown to the visitor.
// Login deliberately does not distinguish unknown email from wrong password.
var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailExists        = errors.New("Email already exists")
)

// isoMillis matches the wire format of JavaScript's Date.toISOString,
// which is what existing degy_users records carry.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Store owns the current session slot and mediates signup/login/logout
// against the persisted user registry.
//
// State is loaded once at construction, held in memory, and written back
// synchronously on every mutation, so memory and storage agree as soon as
// a call returns. A stored value that fails to parse is discarded and the
// key cleared; that never reaches the caller.
type Store struct {
	mu      sync.RWMutex
	storage storage.Store
	logger  logger.Logger
	now     func() time.Time

	users   []domain.User
	current *domain.SessionUser

	listeners    map[int]func()
	nextListener int
}

// New creates a session store and loads the persisted registry and
// session slot.
func New(ctx context.Context, st storage.Store, log logger.Logger) *Store {
	s := &Store{
		storage:   st,
		logger:    log,
		now:       time.Now,
		listeners: make(map[int]func()),
	}
	s.load(ctx)
	return s
}

// load reads degy_users and degy_auth, resetting whichever fails to parse.
func (s *Store) load(ctx context.Context) {
	if data, err := s.storage.Get(ctx, storage.KeyUsers); err == nil {
		var users []domain.User
		if err := json.Unmarshal(data, &users); err != nil {
			s.logger.Warn("discarding corrupt user registry",
				logger.String("key", storage.KeyUsers),
				logger.Error(err))
			_ = s.storage.Delete(ctx, storage.KeyUsers)
		} else {
			s.users = users
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to load user registry", logger.Error(err))
	}

	if data, err := s.storage.Get(ctx, storage.KeyAuth); err == nil {
		var user domain.SessionUser
		if err := json.Unmarshal(data, &user); err != nil {
			s.logger.Warn("discarding corrupt session record",
				logger.String("key", storage.KeyAuth),
				logger.Error(err))
			_ = s.storage.Delete(ctx, storage.KeyAuth)
		} else {
			s.current = &user
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to load session record", logger.Error(err))
	}
}

// Login scans the registry for an exact email+password match and, on
// success, establishes and persists the session.
func (s *Store) Login(ctx context.Context, email, password string) (domain.SessionUser, error) {
	s.mu.Lock()

	var found *domain.User
	for i := range s.users {
		if s.users[i].Email == email && s.users[i].Password == password {
			found = &s.users[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return domain.SessionUser{}, ErrInvalidCredentials
	}

	user := found.Session()
	if err := s.persistSession(ctx, user); err != nil {
		s.mu.Unlock()
		return domain.SessionUser{}, err
	}
	s.current = &user

	s.notifyLocked()
	return user, nil
}

// Signup registers a new user and establishes the session. The email must
// not already exist in the registry (case-sensitive exact match); a failed
// attempt leaves the registry untouched.
func (s *Store) Signup(ctx context.Context, name, email, password string, accountType domain.AccountType) (domain.SessionUser, error) {
	if !accountType.Valid() {
		accountType = domain.AccountTourist
	}

	s.mu.Lock()

	for i := range s.users {
		if s.users[i].Email == email {
			s.mu.Unlock()
			return domain.SessionUser{}, ErrEmailExists
		}
	}

	now := s.now()
	newUser := domain.User{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Name:      name,
		Email:     email,
		Password:  password,
		Type:      accountType,
		CreatedAt: now.UTC().Format(isoMillis),
	}

	s.users = append(s.users, newUser)
	if err := s.persistRegistry(ctx); err != nil {
		// Keep memory and storage consistent: drop the appended record.
		s.users = s.users[:len(s.users)-1]
		s.mu.Unlock()
		return domain.SessionUser{}, err
	}

	user := newUser.Session()
	if err := s.persistSession(ctx, user); err != nil {
		s.mu.Unlock()
		return domain.SessionUser{}, err
	}
	s.current = &user

	s.notifyLocked()
	return user, nil
}

// Logout clears the session slot. Calling it while anonymous is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()

	if s.current == nil {
		s.mu.Unlock()
		return
	}

	s.current = nil
	if err := s.storage.Delete(ctx, storage.KeyAuth); err != nil {
		// Memory already says anonymous; a stale persisted slot only
		// survives until the next successful login.
		s.logger.Warn("failed to clear persisted session", logger.Error(err))
	}

	s.notifyLocked()
}

// Current returns the session user, if any.
func (s *Store) Current() (domain.SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return domain.SessionUser{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a session exists.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current != nil
}

// RegisteredUsers returns the registry size.
func (s *Store) RegisteredUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

// Subscribe registers fn to be called synchronously after every successful
// mutation. The returned cancel function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// notifyLocked releases the store lock and invokes the listeners, so a
// listener may call back into the store.
func (s *Store) notifyLocked() {
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) persistRegistry(ctx context.Context) error {
	data, err := json.Marshal(s.users)
	if err != nil {
		return fmt.Errorf("failed to marshal user registry: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyUsers, data); err != nil {
		return fmt.Errorf("failed to persist user registry: %w", err)
	}
	return nil
}

func (s *Store) persistSession(ctx context.Context, user domain.SessionUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyAuth, data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
