package roster

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Mergington/internal/domain"
	"github.com/shaiso/Mergington/internal/repo"
	"github.com/shaiso/Mergington/internal/telemetry"
)

type publishedEvent struct {
	kind     string
	activity string
	email    string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishParticipantSignedUp(_ context.Context, activity, email string) error {
	return p.record("signed_up", activity, email)
}

func (p *fakePublisher) PublishParticipantRemoved(_ context.Context, activity, email string) error {
	return p.record("removed", activity, email)
}

func (p *fakePublisher) record(kind, activity, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{kind, activity, email})
	return p.err
}

func newTestService(t *testing.T, pub EventPublisher) (*Service, *repo.MemoryActivityStore) {
	t.Helper()
	store := repo.NewMemoryActivityStore()
	svc := NewService(Config{Store: store, Publisher: pub, Logger: telemetry.Discard()})
	if _, err := svc.Seed(context.Background(), domain.SeedActivities()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc, store
}

func TestSignUp(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)
	ctx := context.Background()

	msg, err := svc.SignUp(ctx, "Chess Club", "new@mergington.edu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Signed up new@mergington.edu for Chess Club" {
		t.Errorf("unexpected message %q", msg)
	}

	chess, _ := svc.GetActivity(ctx, "Chess Club")
	if !chess.HasParticipant("new@mergington.edu") {
		t.Error("participant was not stored")
	}

	if len(pub.events) != 1 || pub.events[0] != (publishedEvent{"signed_up", "Chess Club", "new@mergington.edu"}) {
		t.Errorf("unexpected events: %+v", pub.events)
	}
}

func TestSignUp_Errors(t *testing.T) {
	tests := []struct {
		name     string
		activity string
		email    string
		wantErr  error
	}{
		{"missing email", "Chess Club", "", domain.ErrEmailRequired},
		{"blank email", "Chess Club", "   ", domain.ErrEmailRequired},
		{"invalid email", "Chess Club", "not-an-email", domain.ErrEmailInvalid},
		{"unknown activity", "Underwater Basket Weaving", "new@mergington.edu", repo.ErrNotFound},
		{"unknown activity with invalid email", "Underwater Basket Weaving", "ghost", repo.ErrNotFound},
		{"already signed up", "Chess Club", "michael@mergington.edu", repo.ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			svc, _ := newTestService(t, pub)

			_, err := svc.SignUp(context.Background(), tt.activity, tt.email)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(pub.events) != 0 {
				t.Errorf("failed signup must not publish, got %+v", pub.events)
			}
		})
	}
}

func TestSignUp_DuplicateLeavesListUnchanged(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	before, _ := svc.GetActivity(ctx, "Gym Class")
	if _, err := svc.SignUp(ctx, "Gym Class", "john@mergington.edu"); !errors.Is(err, repo.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	after, _ := svc.GetActivity(ctx, "Gym Class")

	if len(after.Participants) != len(before.Participants) {
		t.Errorf("list changed: %v -> %v", before.Participants, after.Participants)
	}
}

func TestSignUp_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := newTestService(t, pub)

	if _, err := svc.SignUp(context.Background(), "Drama Club", "new@mergington.edu"); err != nil {
		t.Fatalf("publish failure should not fail signup: %v", err)
	}
}

func TestRemove(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)
	ctx := context.Background()

	msg, err := svc.Remove(ctx, "Chess Club", "michael@mergington.edu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Removed michael@mergington.edu from Chess Club" {
		t.Errorf("unexpected message %q", msg)
	}

	chess, _ := svc.GetActivity(ctx, "Chess Club")
	if chess.HasParticipant("michael@mergington.edu") {
		t.Error("participant still listed")
	}
	if len(pub.events) != 1 || pub.events[0].kind != "removed" {
		t.Errorf("unexpected events: %+v", pub.events)
	}

	_, err = svc.Remove(ctx, "Chess Club", "michael@mergington.edu")
	if !errors.Is(err, repo.ErrParticipantNotFound) {
		t.Errorf("expected ErrParticipantNotFound, got %v", err)
	}

	_, err = svc.Remove(ctx, "Nope", "michael@mergington.edu")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove_DoesNotValidateShape(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	if err := store.InsertMany(ctx, []domain.Activity{
		{Name: "Legacy Club", Participants: []string{"legacy entry"}},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := svc.Remove(ctx, "Legacy Club", "legacy entry"); err != nil {
		t.Fatalf("stored participant should be removable: %v", err)
	}

	tests := []struct {
		name     string
		activity string
		email    string
		wantErr  error
	}{
		{"absent without at sign", "Chess Club", "ghost", repo.ErrParticipantNotFound},
		{"absent with whitespace", "Chess Club", "a b@x", repo.ErrParticipantNotFound},
		{"unknown activity", "Nope", "ghost", repo.ErrNotFound},
		{"empty email", "Chess Club", " ", domain.ErrEmailRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Remove(ctx, tt.activity, tt.email)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSignUpThenRemoveRestoresList(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	before, _ := svc.GetActivity(ctx, "Science Club")

	if _, err := svc.SignUp(ctx, "Science Club", "temp@mergington.edu"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Remove(ctx, "Science Club", "temp@mergington.edu"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	after, _ := svc.GetActivity(ctx, "Science Club")
	if len(after.Participants) != len(before.Participants) {
		t.Fatalf("expected %v, got %v", before.Participants, after.Participants)
	}
	for i := range before.Participants {
		if before.Participants[i] != after.Participants[i] {
			t.Errorf("position %d: expected %s, got %s", i, before.Participants[i], after.Participants[i])
		}
	}
}

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "Art Workshop", "new@mergington.edu"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	seeded, err := svc.Seed(ctx, domain.SeedActivities())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seeded {
		t.Error("second seed should be skipped")
	}

	art, _ := store.Get(ctx, "Art Workshop")
	if !art.HasParticipant("new@mergington.edu") {
		t.Error("reseeding must not reset rosters")
	}
}

func TestSnapshot(t *testing.T) {
	svc, _ := newTestService(t, nil)
	fixed := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.TakenAt.Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, snap.TakenAt)
	}
	if len(snap.Activities) != len(domain.SeedActivities()) {
		t.Errorf("expected all activities, got %d", len(snap.Activities))
	}
}
