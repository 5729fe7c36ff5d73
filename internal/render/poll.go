package render

import (
	"context"
	"time"

	"matchday/internal/pkg/logger"
)

// Poll outcomes.
type Outcome string

const (
	Succeeded Outcome = "succeeded"
	Failed    Outcome = "failed"
	TimedOut  Outcome = "timed_out"
)

// PollResult is the terminal state of one poll loop run.
type PollResult struct {
	Outcome  Outcome
	URL      string
	Errors   []string
	Progress float64
	Attempts int
}

// StatusSource abstracts the tracker for the poll loop.
type StatusSource interface {
	GetStatus(ctx context.Context, bucketName, renderID string) (Status, error)
}

// maxConsecutiveFailures bounds how many status checks in a row may
// error before the loop gives up on the job.
const maxConsecutiveFailures = 3

// Poller drives a render job to a terminal state by repeated status
// checks at a fixed interval.
type Poller struct {
	Source      StatusSource
	Interval    time.Duration
	MaxAttempts int
	Location    OutputLocation
	Log         *logger.Logger
}

// Poll checks the job's status up to MaxAttempts times, sleeping
// Interval between checks. It returns when the job succeeds, fails, or
// the attempt budget is spent. Engine-reported errors win over any
// progress value. Context cancellation abandons the loop; the remote
// job, if any, keeps running.
//
// Up to maxConsecutiveFailures transient lookup errors are tolerated
// before the job is declared failed.
func (p *Poller) Poll(ctx context.Context, h JobHandle) (PollResult, error) {
	log := p.Log.WithRenderID(h.RenderID)

	consecutive := 0
	var last Status

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		st, err := p.Source.GetStatus(ctx, h.BucketName, h.RenderID)
		if err != nil {
			consecutive++
			log.Warn("status check failed",
				"attempt", attempt,
				"consecutive_failures", consecutive,
				"error", err,
			)
			if consecutive >= maxConsecutiveFailures {
				return PollResult{
					Outcome:  Failed,
					Errors:   []string{err.Error()},
					Progress: last.OverallProgress,
					Attempts: attempt,
				}, nil
			}
		} else {
			consecutive = 0
			last = st

			if st.Failed() {
				return PollResult{
					Outcome:  Failed,
					Errors:   st.Errors,
					Progress: st.OverallProgress,
					Attempts: attempt,
				}, nil
			}
			// Output URL availability is the completion signal; engines
			// differ on whether progress ever reads exactly 1.0.
			if url := BuildOutputURL(st, p.Location); url != "" {
				return PollResult{
					Outcome:  Succeeded,
					URL:      url,
					Progress: st.OverallProgress,
					Attempts: attempt,
				}, nil
			}
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return PollResult{}, ctx.Err()
		case <-time.After(p.Interval):
		}
	}

	log.Warn("render did not finish within poll budget",
		"attempts", p.MaxAttempts,
		"progress", last.OverallProgress,
	)
	return PollResult{
		Outcome:  TimedOut,
		Progress: last.OverallProgress,
		Attempts: p.MaxAttempts,
	}, nil
}
