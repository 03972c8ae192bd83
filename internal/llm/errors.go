package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// The typed errors below drive two policies elsewhere in the app: the
// retry decorator decides from the type whether another attempt can help,
// and the assessment machine leaves the session re-enterable on any of
// them rather than consuming the learner's final answer.

// ErrRateLimit is a 429 from the provider. RetryAfter carries the
// provider's requested pause when it sent one; zero means back off
// normally.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model produced output that fails the
// requested schema, e.g. an evaluation with a score outside 1-5 or a level
// outside the CEFR enum. Content keeps the offending output for the event
// log. One retry is worth it; repeated failures are a prompt or schema
// bug, not bad luck.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("response violates schema: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers unreachable or erroring provider backends
// (5xx, connection failures). Always worth retrying.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "provider unavailable"
	}
	return fmt.Sprintf("provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the response was cut off at the MaxTokens
// limit. Retrying would truncate again; the caller's token budget is
// wrong. Content holds the partial output.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "response truncated at max tokens"
}
