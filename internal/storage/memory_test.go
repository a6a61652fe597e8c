package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, KeyUsers); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := s.Set(ctx, KeyUsers, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, err := s.Get(ctx, KeyUsers)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}

	if err := s.Delete(ctx, KeyUsers); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, KeyUsers); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("original")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's slice must not leak into the store.
	value[0] = 'X'
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("expected stored value to be isolated, got %s", got)
	}

	// Same for the returned slice.
	got[0] = 'Y'
	again, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != "original" {
		t.Errorf("expected returned value to be isolated, got %s", again)
	}
}

func TestDestinationKey(t *testing.T) {
	if got := DestinationKey(42); got != "degy:destination:42" {
		t.Errorf("unexpected key: %s", got)
	}
}
