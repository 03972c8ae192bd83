package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/linguo/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as a
// telemetry event. Contract faults (schema-invalid responses) are recorded
// with a distinct error kind so they can be told apart from transport
// faults when reading the log.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMEventData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		if c := LookupCost(resp.Model); c != nil {
			data.CostUSD = c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
	}

	if err != nil {
		data.ErrorKind = classifyError(err)
		data.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMEvent(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// classifyError buckets an error for telemetry.
func classifyError(err error) string {
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		return "contract"
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return "rate_limit"
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return "transport"
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return "truncated"
	}
	return "other"
}
