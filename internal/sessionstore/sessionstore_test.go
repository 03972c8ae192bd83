package sessionstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/linguo/internal/assessment"
	"github.com/abhisek/linguo/internal/lesson"
)

func sampleRecord(id string) *Record {
	now := time.Now().UTC().Truncate(time.Second)
	return &Record{
		ID: id,
		Assessment: assessment.State{
			Stage:         assessment.StageInProgress,
			QuestionIndex: 2,
			Answers:       []string{"friend", "I am learning English"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rec := sampleRecord("abc")
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "abc" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Assessment.Stage != assessment.StageInProgress {
		t.Errorf("Stage = %q", got.Assessment.Stage)
	}
	if got.Assessment.QuestionIndex != 2 {
		t.Errorf("QuestionIndex = %d", got.Assessment.QuestionIndex)
	}
	if len(got.Assessment.Answers) != 2 || got.Assessment.Answers[0] != "friend" {
		t.Errorf("Answers = %v", got.Assessment.Answers)
	}
}

func TestMemoryStore_GetUnknownIsNotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_DeleteMissingIsNoError(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rec := sampleRecord("abc")
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Mutating the record after Put must not affect the stored copy.
	rec.Assessment.Answers[0] = "mutated"

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Assessment.Answers[0] != "friend" {
		t.Errorf("stored record was aliased: %q", got.Assessment.Answers[0])
	}

	// Mutating one loaded copy must not affect another.
	got.Assessment.Answers[0] = "mutated"
	again, _ := store.Get(ctx, "abc")
	if again.Assessment.Answers[0] != "friend" {
		t.Errorf("loaded record was aliased: %q", again.Assessment.Answers[0])
	}
}

func TestRecord_InLesson(t *testing.T) {
	rec := sampleRecord("abc")
	if rec.InLesson() {
		t.Error("in-progress assessment should not be in lesson")
	}

	rec.Assessment.Stage = assessment.StageComplete
	if rec.InLesson() {
		t.Error("complete assessment without a scenario should not be in lesson")
	}

	rec.Scenario = lesson.Scenario{ID: "coffee_shop", Template: "x {user_input}"}
	if !rec.InLesson() {
		t.Error("complete assessment with a scenario should be in lesson")
	}
}

func TestKeyedLocks_SerializesSameKey(t *testing.T) {
	locks := NewKeyedLocks()

	var mu sync.Mutex
	counter := 0
	maxConcurrent := 0
	current := 0

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("same")
			defer unlock()

			mu.Lock()
			current++
			if current > maxConcurrent {
				maxConcurrent = current
			}
			mu.Unlock()

			counter++

			mu.Lock()
			current--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if counter != 20 {
		t.Errorf("counter = %d, want 20", counter)
	}
	if maxConcurrent != 1 {
		t.Errorf("maxConcurrent = %d, want 1", maxConcurrent)
	}
}

func TestKeyedLocks_IndependentKeysDoNotBlock(t *testing.T) {
	locks := NewKeyedLocks()

	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedLocks_EntriesAreReleased(t *testing.T) {
	locks := NewKeyedLocks()

	unlock := locks.Lock("gone")
	unlock()

	locks.mu.Lock()
	n := len(locks.locks)
	locks.mu.Unlock()
	if n != 0 {
		t.Errorf("lock map has %d entries after release, want 0", n)
	}
}
