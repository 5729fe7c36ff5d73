package render

import (
	"context"

	"matchday/internal/jobstore"
	"matchday/internal/pkg/errors"
	"matchday/internal/render/engine"
)

// Tracker answers status lookups for both job families. Remote jobs
// are proxied to the engine; local jobs are answered from the store.
type Tracker struct {
	engine engine.Client
	store  jobstore.Store
}

func NewTracker(eng engine.Client, store jobstore.Store) *Tracker {
	return &Tracker{engine: eng, store: store}
}

// GetStatus returns the progress snapshot for a render job.
//
// A local render that is not in the store yet is not an error: callers
// may poll before the record lands, so the answer is zero progress.
func (t *Tracker) GetStatus(ctx context.Context, bucketName, renderID string) (Status, error) {
	if ModeForBucket(bucketName) == ModeLocal {
		return t.localStatus(ctx, renderID)
	}

	prog, err := t.engine.Progress(ctx, bucketName, renderID)
	if err != nil {
		return Status{}, errors.WrapWithCode(err, errors.CodeRenderEngine, "GetStatus", "progress lookup failed")
	}
	return Status{
		OverallProgress: prog.OverallProgress,
		OutputFile:      prog.OutputFile,
		OutKey:          prog.OutKey,
		OutBucket:       prog.OutBucket,
		Errors:          prog.Errors,
	}, nil
}

func (t *Tracker) localStatus(ctx context.Context, renderID string) (Status, error) {
	rec, ok, err := t.store.Get(ctx, renderID)
	if err != nil {
		return Status{}, errors.Wrap(err, "localStatus", "render store lookup failed")
	}
	if !ok {
		return Status{}, nil
	}
	return Status{
		OverallProgress: 1.0,
		OutputFile:      rec.OutputURL,
	}, nil
}
