package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Rex-a25/money-biz-server/internal/models"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	session := &models.SessionIdentity{
		UserID:        "admin-1",
		RealRole:      models.RoleAdmin,
		UserName:      "Funke Balogun",
		Title:         "Business Owner",
		SimulatedID:   "student-1",
		SimulatedRole: models.RoleStudent,
		SimulatedName: "Chidi Okafor",
		Generation:    2,
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "admin-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.RealRole != models.RoleAdmin || got.SimulatedID != "student-1" {
		t.Errorf("round-trip lost fields: %+v", got)
	}
	if got.Generation != 2 {
		t.Errorf("Generation = %d, want 2", got.Generation)
	}
	if got.EffectiveViewRole() != models.RoleStudent {
		t.Errorf("EffectiveViewRole = %v, want student", got.EffectiveViewRole())
	}
}

func TestSessionStore_MissingSession(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Get(ctx, "nobody")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_SaveRequiresUserID(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.Save(ctx, &models.SessionIdentity{RealRole: models.RoleAdmin}); err == nil {
		t.Error("expected error for session without user id")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	session := &models.SessionIdentity{UserID: "teacher-1", RealRole: models.RoleTeacher}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "teacher-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "teacher-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSessionStore_SessionsDoNotExpire(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	session := &models.SessionIdentity{UserID: "student-1", RealRole: models.RoleStudent}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	key := SessionCacheConfig.Prefix + "student-1"
	if ttl := mr.TTL(key); ttl != 0 {
		t.Errorf("TTL = %v, want none", ttl)
	}

	// A long-lived simulation must still find its overlay days later.
	mr.FastForward(72 * time.Hour)
	got, err := store.Get(ctx, "student-1")
	if err != nil {
		t.Fatalf("Get after fast-forward failed: %v", err)
	}
	if got.RealRole != models.RoleStudent {
		t.Errorf("RealRole = %v, want student", got.RealRole)
	}
}
