package store

import (
	"context"
	"database/sql"
	"time"
)

// LLMEventData captures a single LLM request for telemetry. ErrorKind
// separates schema/contract bugs from transport faults so they can be told
// apart when reading the log.
type LLMEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	CostUSD      float64
	Success      bool
	ErrorKind    string
	ErrorMessage string
}

// LLMEvent is a recorded LLM request as read back from the log.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMEventData
}

// QueryOpts limits an event query.
type QueryOpts struct {
	// Limit caps the number of rows returned, newest first. <= 0 means 50.
	Limit int

	// Purpose filters to one request purpose when non-empty.
	Purpose string
}

// EventRepo provides access to LLM request events.
type EventRepo interface {
	// AppendLLMEvent records one LLM API call.
	AppendLLMEvent(ctx context.Context, data LLMEventData) error

	// QueryLLMEvents returns recent events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMEvent(ctx context.Context, data LLMEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events
			(provider, model, purpose, input_tokens, output_tokens, latency_ms, cost_usd, success, error_kind, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.CostUSD,
		data.Success, data.ErrorKind, data.ErrorMessage,
	)
	return err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, cost_usd, success, error_kind, error_message
		FROM llm_events`
	args := []any{}
	if opts.Purpose != "" {
		query += ` WHERE purpose = ?`
		args = append(args, opts.Purpose)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		var e LLMEvent
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.CostUSD,
			&e.Success, &e.ErrorKind, &e.ErrorMessage); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// AssessmentRecord is a completed assessment as persisted.
type AssessmentRecord struct {
	ID         int64
	SessionID  string
	Level      string
	Grammar    int
	Vocabulary int
	Complexity int
	Coherence  int
	Rationale  string
	Feedback   string
	CreatedAt  time.Time
}

// AssessmentRepo persists completed assessment results.
type AssessmentRepo interface {
	// Save stores a completed assessment.
	Save(ctx context.Context, rec *AssessmentRecord) error

	// BySession returns the most recent assessment for a session, or nil
	// if none exists.
	BySession(ctx context.Context, sessionID string) (*AssessmentRecord, error)
}

type assessmentRepo struct {
	db *sql.DB
}

func (r *assessmentRepo) Save(ctx context.Context, rec *AssessmentRecord) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assessments
			(session_id, level, grammar, vocabulary, complexity, coherence, rationale, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Level,
		rec.Grammar, rec.Vocabulary, rec.Complexity, rec.Coherence,
		rec.Rationale, rec.Feedback,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

func (r *assessmentRepo) BySession(ctx context.Context, sessionID string) (*AssessmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, level, grammar, vocabulary, complexity, coherence, rationale, feedback, created_at
		FROM assessments WHERE session_id = ? ORDER BY id DESC LIMIT 1`,
		sessionID,
	)

	var rec AssessmentRecord
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.Level,
		&rec.Grammar, &rec.Vocabulary, &rec.Complexity, &rec.Coherence,
		&rec.Rationale, &rec.Feedback, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
