package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	backend := storage.NewMemoryStore()
	return New(context.Background(), backend, logger.New("error", false)), backend
}

func TestSignupEstablishesSession(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	fixed := time.Date(2026, 3, 14, 9, 26, 53, 589*int(time.Millisecond), time.UTC)
	s.now = func() time.Time { return fixed }

	user, err := s.Signup(ctx, "Mona", "mona@example.com", "secret123", domain.AccountTourist)
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if user.ID != "1773480413589" {
		t.Errorf("expected unix-millis ID 1773480413589, got %q", user.ID)
	}
	if user.Email != "mona@example.com" || user.Type != domain.AccountTourist {
		t.Errorf("unexpected session user: %+v", user)
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated session after signup")
	}

	// Registry and session slot are persisted synchronously.
	data, err := backend.Get(ctx, storage.KeyUsers)
	if err != nil {
		t.Fatalf("registry not persisted: %v", err)
	}
	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatalf("persisted registry not parseable: %v", err)
	}
	if len(users) != 1 || users[0].Password != "secret123" {
		t.Errorf("unexpected persisted registry: %+v", users)
	}
	if users[0].CreatedAt != "2026-03-14T09:26:53.589Z" {
		t.Errorf("unexpected createdAt format: %q", users[0].CreatedAt)
	}

	if _, err := backend.Get(ctx, storage.KeyAuth); err != nil {
		t.Errorf("session slot not persisted: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.Signup(ctx, "Mona", "mona@example.com", "secret123", domain.AccountTourist); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := s.Signup(ctx, "Imposter", "mona@example.com", "other", domain.AccountGuide)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if err.Error() != "Email already exists" {
		t.Errorf("unexpected error message: %q", err.Error())
	}

	// The failed attempt must leave the registry untouched.
	if s.RegisteredUsers() != 1 {
		t.Errorf("expected 1 registered user, got %d", s.RegisteredUsers())
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.Signup(ctx, "Mona", "mona@example.com", "secret123", domain.AccountTourist); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	s.Logout(ctx)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid credentials", "mona@example.com", "secret123", false},
		{"wrong password", "mona@example.com", "nope", true},
		{"unknown email", "nobody@example.com", "secret123", true},
		{"case sensitive email", "Mona@example.com", "secret123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.Login(ctx, tt.email, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("expected ErrInvalidCredentials, got %v", err)
				}
				if err.Error() != "Invalid email or password" {
					t.Errorf("unexpected error message: %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if user.Email != tt.email {
				t.Errorf("expected session for %s, got %+v", tt.email, user)
			}
			s.Logout(ctx)
		})
	}
}

func TestLogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// Logging out while anonymous is a no-op.
	s.Logout(ctx)
	s.Logout(ctx)
	if s.IsAuthenticated() {
		t.Error("expected anonymous session")
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	log := logger.New("error", false)

	s1 := New(ctx, backend, log)
	if _, err := s1.Signup(ctx, "Mona", "mona@example.com", "secret123", domain.AccountTourist); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// A new store over the same backend restores the session.
	s2 := New(ctx, backend, log)
	user, ok := s2.Current()
	if !ok {
		t.Fatal("expected restored session after restart")
	}
	if user.Email != "mona@example.com" {
		t.Errorf("unexpected restored user: %+v", user)
	}
	if s2.RegisteredUsers() != 1 {
		t.Errorf("expected 1 registered user, got %d", s2.RegisteredUsers())
	}
}

func TestCorruptStateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()

	if err := backend.Set(ctx, storage.KeyUsers, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if err := backend.Set(ctx, storage.KeyAuth, []byte("[broken")); err != nil {
		t.Fatal(err)
	}

	s := New(ctx, backend, logger.New("error", false))

	if s.RegisteredUsers() != 0 {
		t.Errorf("expected empty registry after corrupt blob, got %d users", s.RegisteredUsers())
	}
	if s.IsAuthenticated() {
		t.Error("expected anonymous session after corrupt blob")
	}

	// The corrupt keys are cleared, not left to fail again.
	if _, err := backend.Get(ctx, storage.KeyUsers); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected corrupt registry key to be deleted, got %v", err)
	}
	if _, err := backend.Get(ctx, storage.KeyAuth); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected corrupt session key to be deleted, got %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var calls int
	cancel := s.Subscribe(func() { calls++ })

	if _, err := s.Signup(ctx, "Mona", "mona@example.com", "secret123", domain.AccountTourist); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 notification after signup, got %d", calls)
	}

	s.Logout(ctx)
	if calls != 2 {
		t.Errorf("expected 2 notifications after logout, got %d", calls)
	}

	// Failed mutations do not notify.
	if _, err := s.Login(ctx, "mona@example.com", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}
	if calls != 2 {
		t.Errorf("expected no notification for failed login, got %d", calls)
	}

	cancel()
	if _, err := s.Login(ctx, "mona@example.com", "secret123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected no notification after cancel, got %d", calls)
	}
}
