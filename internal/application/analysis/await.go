package analysis

import (
	"context"
	"errors"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
)

// ErrWaitTimeout is returned by Await when the poll bound is exceeded while
// the record is still processing.
var ErrWaitTimeout = errors.New("analysis is taking too long")

// Await blocks until the record reaches a terminal state, the configured poll
// bound runs out, or ctx is done. The watch is cancelled on every exit path.
// A terminal record is returned as-is, error status included; watch-level
// failures (timeout, fetch error) come back as an error instead.
func (w *Watcher) Await(ctx context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	// fast path: already terminal, no ticker needed
	rec, err := w.Repo.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if rec.Status.Terminal() {
		return rec, nil
	}

	done := make(chan string, 1)
	cancel := w.Watch(user, id,
		func(string) { done <- "" },
		func(msg string) { done <- msg },
	)
	defer cancel()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-done:
		rec, err := w.Repo.Get(ctx, user, id)
		if err != nil {
			return nil, err
		}
		if !rec.Status.Terminal() {
			// the watch gave up before the record settled
			if msg == "analysis is taking too long" {
				return nil, ErrWaitTimeout
			}
			return nil, errors.New(msg)
		}
		return rec, nil
	}
}
