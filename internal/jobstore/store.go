// Package jobstore persists the records of locally rendered jobs, keyed by
// renderId. It replaces a process-wide mutable registry with an injected
// store so dispatch and status tracking stay testable.
package jobstore

import (
	"context"
	"time"
)

// Record describes one completed local render. Local jobs are stored
// already-complete: the artifact exists before the handle is returned.
type Record struct {
	RenderID    string    `json:"render_id"`
	Composition string    `json:"composition"`
	OutputURL   string    `json:"output_url"`
	OutputPath  string    `json:"output_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the render registry contract.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, renderID string) (Record, bool, error)
	Delete(ctx context.Context, renderID string) error
	Close() error
}
