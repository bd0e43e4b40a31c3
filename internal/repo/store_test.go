package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Mergington/internal/domain"
)

func TestAddParticipantMutation(t *testing.T) {
	a := domain.Activity{Participants: []string{"emma@mergington.edu"}}

	if err := addParticipant("new@mergington.edu")(&a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(a.Participants, []string{"emma@mergington.edu", "new@mergington.edu"}) {
		t.Errorf("unexpected participants: %v", a.Participants)
	}

	if err := addParticipant("emma@mergington.edu")(&a); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	if len(a.Participants) != 2 {
		t.Errorf("rejected mutation changed the list: %v", a.Participants)
	}
}

func TestRemoveParticipantMutation(t *testing.T) {
	a := domain.Activity{Participants: []string{"a@x", "b@x", "a@x"}}

	if err := removeParticipant("a@x")(&a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(a.Participants, []string{"b@x", "a@x"}) {
		t.Errorf("expected only the first match removed, got %v", a.Participants)
	}

	err := removeParticipant("ghost")(&a)
	if !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("expected ErrParticipantNotFound, got %v", err)
	}
}

// Общие проверки для всех реализаций ActivityStore.
// Имена занятий уникальны на запуск, поэтому тесты не мешают данным в базе.
func testActivityStore(t *testing.T, store ActivityStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prefix := "test-" + uuid.NewString()[:8] + " "
	club := prefix + "Chess Club"
	dupes := prefix + "Legacy Club"

	err := store.InsertMany(ctx, []domain.Activity{
		{Name: club, Description: "Chess", Schedule: "Fridays", MaxParticipants: 12,
			Participants: []string{"michael@mergington.edu"}},
		{Name: dupes, Participants: []string{"a@x", "b@x", "a@x"}},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	t.Run("insert skips existing", func(t *testing.T) {
		err := store.InsertMany(ctx, []domain.Activity{{Name: club, Description: "overwritten?"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := store.Get(ctx, club)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Description != "Chess" {
			t.Errorf("existing activity replaced: %+v", got)
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name    string
			call    func() error
			wantErr error
		}{
			{"signup unknown", func() error { return store.AddParticipant(ctx, prefix+"Nope", "a@x") }, ErrNotFound},
			{"signup duplicate", func() error { return store.AddParticipant(ctx, club, "michael@mergington.edu") }, ErrAlreadyExists},
			{"remove unknown", func() error { return store.RemoveParticipant(ctx, prefix+"Nope", "a@x") }, ErrNotFound},
			{"remove absent", func() error { return store.RemoveParticipant(ctx, club, "ghost") }, ErrParticipantNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.call(); !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("remove drops first match only", func(t *testing.T) {
		if err := store.RemoveParticipant(ctx, dupes, "a@x"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := store.Get(ctx, dupes)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !slices.Equal(got.Participants, []string{"b@x", "a@x"}) {
			t.Errorf("unexpected participants: %v", got.Participants)
		}
	})

	t.Run("concurrent signups", func(t *testing.T) {
		const workers = 20
		var wg sync.WaitGroup
		var succeeded atomic.Int32

		for i := 0; i < workers; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				if err := store.AddParticipant(ctx, club, "same@mergington.edu"); err == nil {
					succeeded.Add(1)
				}
			}()
			go func(i int) {
				defer wg.Done()
				if err := store.AddParticipant(ctx, club, fmt.Sprintf("student%d@mergington.edu", i)); err != nil {
					t.Errorf("signup %d: %v", i, err)
				}
			}(i)
		}
		wg.Wait()

		if succeeded.Load() != 1 {
			t.Errorf("expected exactly one successful signup, got %d", succeeded.Load())
		}
		got, err := store.Get(ctx, club)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(got.Participants) != 1+1+workers {
			t.Errorf("expected %d participants, got %d", 2+workers, len(got.Participants))
		}
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	testActivityStore(t, NewMemoryActivityStore())
}

func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		t.Skip("DB_URL is not set")
	}
	ctx := context.Background()

	pool, err := NewPool(ctx, dsn, 10)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	store := NewPostgresActivityStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM activities WHERE name LIKE 'test-%'`)
	})

	testActivityStore(t, store)
}

func TestMongoStore_Contract(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL is not set")
	}
	ctx := context.Background()

	client, err := NewMongoClient(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	collection := "activities_" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_ = client.Database("mergington_test").Collection(collection).Drop(context.Background())
	})

	testActivityStore(t, NewMongoActivityStore(client, "mergington_test", collection))
}
