// Package guardrails holds time budget helpers for normalization runs
package guardrails

import (
	"context"
	"time"
)

// Timeouts is an optional budget bundle for one run
// zero values mean no extra timeout at that level
type Timeouts struct {
	// Run is the overall time budget for a run
	Run time.Duration

	// Load caps reading and decoding the raw file
	Load time.Duration

	// Publish caps each sink publish
	Publish time.Duration
}

// WithRun returns a context limited by the run budget without extending any parent deadline
func WithRun(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Run)
}

// ForLoad returns a sub context for the load phase
func ForLoad(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Load)
}

// ForPublish returns a sub context for one sink publish
func ForPublish(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Publish)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout picks the tighter of d and the parent remainder, never extending the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
