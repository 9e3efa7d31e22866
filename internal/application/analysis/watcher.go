package analysis

import (
	"context"
	"sync"
	"time"

	domain "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
)

const (
	// DefaultPollInterval mirrors the UI's canonical poll cadence.
	DefaultPollInterval = 3 * time.Second

	pollTimeout = 10 * time.Second
)

// CancelFunc stops a watch immediately; after it returns no callback will
// fire. A delivery already in flight completes before CancelFunc returns.
// Safe to call more than once and on any exit path. Callbacks must not invoke
// their own cancel handle.
type CancelFunc func()

// Watcher polls one analysis record until it reaches a terminal state, then
// delivers the outcome to exactly one of the two callbacks, exactly once.
// Watchers share no state with the requester; they rendezvous only through the
// repository, so independent watchers on the same id each get their own
// terminal callback.
type Watcher struct {
	Repo     domain.Repository
	Interval time.Duration // zero means DefaultPollInterval
	MaxPolls int           // polls still processing before timing out; zero means unbounded
}

// Watch begins polling in the background and returns a cancel handle.
// Each tick issues one fetch; ticks never overlap because the fetch runs
// inline in the polling goroutine. A fetch error is surfaced to onError once
// and ends the watch; it is not retried forever.
func (w *Watcher) Watch(user string, id domain.AnalysisID, onComplete func(result string), onError func(message string)) CancelFunc {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	stop := make(chan struct{})

	// at-most-one terminal delivery, and none at all once cancel returns.
	// The mutex covers the callback itself, so cancel blocks on a delivery
	// already in flight instead of racing it.
	var mu sync.Mutex
	var canceled, delivered bool
	cancel := func() {
		mu.Lock()
		defer mu.Unlock()
		if !canceled {
			canceled = true
			close(stop)
		}
	}
	deliver := func(cb func(string), arg string) {
		mu.Lock()
		defer mu.Unlock()
		if canceled || delivered {
			return
		}
		delivered = true
		cb(arg)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		polls := 0
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			rec, err := w.fetch(user, id)

			// cancel may have raced the fetch; never call back after it
			select {
			case <-stop:
				return
			default:
			}

			if err != nil {
				deliver(onError, "failed to check analysis status: "+err.Error())
				return
			}

			switch rec.Status {
			case domain.StatusComplete:
				deliver(onComplete, rec.Result)
				return
			case domain.StatusError:
				msg := rec.Result
				if msg == "" {
					msg = "analysis failed"
				}
				deliver(onError, msg)
				return
			}

			polls++
			if w.MaxPolls > 0 && polls >= w.MaxPolls {
				deliver(onError, "analysis is taking too long")
				return
			}
		}
	}()

	return cancel
}

func (w *Watcher) fetch(user string, id domain.AnalysisID) (*domain.Analysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()
	return w.Repo.Get(ctx, user, id)
}
