// Package sessionstore persists conversation sessions between HTTP
// requests. The backend keeps no per-connection state; every request loads
// the session record, applies one step, and writes it back.
package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/linguo/internal/assessment"
	"github.com/abhisek/linguo/internal/lesson"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Record is the serialized state of one conversation session. It carries
// the assessment state machine and, once the assessment completes, the
// lesson state.
type Record struct {
	ID         string           `json:"id"`
	Assessment assessment.State `json:"assessment"`

	// Level is set once the assessment completes.
	Level assessment.CEFRLevel `json:"level,omitempty"`

	// Scenario and History hold the lesson conversation. Scenario is
	// zero until the lesson starts; History grows one exchange per
	// successful lesson turn and is never truncated.
	Scenario lesson.Scenario   `json:"scenario,omitempty"`
	History  []lesson.Exchange `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InLesson reports whether this session has moved past assessment into
// roleplay mode.
func (r *Record) InLesson() bool {
	return r.Assessment.Stage == assessment.StageComplete && r.Scenario.Template != ""
}

// Store persists session records keyed by session id.
type Store interface {
	// Get loads the record for id. Returns ErrNotFound when the session
	// does not exist or has expired.
	Get(ctx context.Context, id string) (*Record, error)

	// Put saves the record, creating or overwriting.
	Put(ctx context.Context, rec *Record) error

	// Delete removes the record. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, id string) error
}
