package utils

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// PerseverenceOpts - configuration for RunWithPerseverance
type PerseverenceOpts struct {
	// RunnerID tags the log entries of this runner
	RunnerID string

	// ResetThreshold - attempts that lasted at least this long count as
	// healthy and reset the cooldown ladder
	ResetThreshold time.Duration

	// Cooldown - waits between failed attempts. Walked front to back on
	// consecutive failures, the last entry repeats forever.
	Cooldown []time.Duration

	// Jitter - random factor 0-1 applied to every cooldown, e.g. 0.3 = ±30%
	Jitter float64
}

// cooldownFor returns the ladder entry for the given number of
// consecutive failures (0 = first failure).
func (opts PerseverenceOpts) cooldownFor(failures int) time.Duration {
	if len(opts.Cooldown) == 0 {
		return time.Second
	}

	idx := failures
	if idx >= len(opts.Cooldown) {
		idx = len(opts.Cooldown) - 1
	}

	return opts.Cooldown[idx]
}

// applyJitter randomizes d by up to ±jitter to keep restarting
// instances from hammering a recovering peer in lockstep
func applyJitter(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return d
	}

	factor := 1.0 + (rand.Float64()*2-1)*jitter
	return time.Duration(float64(d) * factor)
}

// AttemptContext - context of a single attempt run under RunWithPerseverance
type AttemptContext interface {
	// Done is closed when the attempt should wind down, either because
	// the surrounding context was cancelled or because Fail was called
	Done() <-chan struct{}

	// Fail aborts the attempt and schedules a retry after cooldown
	Fail(err error)
}

type attemptContext struct {
	done chan struct{}
	once sync.Once

	errMu sync.Mutex
	err   error
}

func (attempt *attemptContext) Done() <-chan struct{} {
	return attempt.done
}

func (attempt *attemptContext) Fail(err error) {
	attempt.errMu.Lock()
	attempt.err = err
	attempt.errMu.Unlock()

	attempt.cancel()
}

func (attempt *attemptContext) cancel() {
	attempt.once.Do(func() { close(attempt.done) })
}

func (attempt *attemptContext) failure() error {
	attempt.errMu.Lock()
	defer attempt.errMu.Unlock()
	return attempt.err
}

// RunWithPerseverance - runs fn over and over until ctx is cancelled.
// Whenever the attempt reports failure, the next one starts after the
// current cooldown; attempts that survive ResetThreshold reset the
// ladder. Returns once ctx is done or fn returns without failing.
func RunWithPerseverance(fn func(AttemptContext), ctx GracefulContext, opts PerseverenceOpts) {
	failures := 0

	for {
		attempt := &attemptContext{done: make(chan struct{})}

		// Relay cancellation into the running attempt
		relayStop := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				attempt.cancel()
			case <-relayStop:
			}
		}()

		startedAt := time.Now()
		fn(attempt)
		close(relayStop)

		select {
		case <-ctx.Done():
			return
		default:
		}

		err := attempt.failure()
		if err == nil {
			// Attempt finished on its own accord
			return
		}

		if opts.ResetThreshold > 0 && time.Since(startedAt) >= opts.ResetThreshold {
			failures = 0
		}

		cooldown := applyJitter(opts.cooldownFor(failures), opts.Jitter)
		failures++

		log.Info().
			Str("runner", opts.RunnerID).
			Int("failures", failures).
			Dur("cooldown", cooldown).
			Err(err).
			Msg("Attempt failed, retrying after cooldown")

		select {
		case <-time.After(cooldown):
		case <-ctx.Done():
			return
		}
	}
}
