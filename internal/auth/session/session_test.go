package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, time.Hour), mr
}

func TestCreateAndResolve(t *testing.T) {
	store, _ := newTestStore(t)
	userID := uuid.New()

	token, err := store.Create(context.Background(), userID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := store.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != userID {
		t.Errorf("resolved %s, want %s", got, userID)
	}
}

func TestRotateConsumesOldToken(t *testing.T) {
	store, _ := newTestStore(t)
	userID := uuid.New()

	token, err := store.Create(context.Background(), userID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, next, err := store.Rotate(context.Background(), token)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if got != userID {
		t.Errorf("rotated for %s, want %s", got, userID)
	}
	if next == token {
		t.Error("rotation must issue a fresh token")
	}

	if _, err := store.Resolve(context.Background(), token); err != ErrNotFound {
		t.Errorf("consumed token must not resolve, got %v", err)
	}
	if _, err := store.Resolve(context.Background(), next); err != nil {
		t.Errorf("replacement token must resolve, got %v", err)
	}
}

func TestExpiredTokenDoesNotResolve(t *testing.T) {
	store, mr := newTestStore(t)

	token, err := store.Create(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := store.Resolve(context.Background(), token); err != ErrNotFound {
		t.Errorf("expired token must not resolve, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)

	token, err := store.Create(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.Delete(context.Background(), token); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Resolve(context.Background(), token); err != ErrNotFound {
		t.Errorf("deleted token must not resolve, got %v", err)
	}
}
