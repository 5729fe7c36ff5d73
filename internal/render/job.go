// Package render orchestrates media generation: dispatching jobs to the
// rendering engine (locally or against the remote service), tracking
// progress, and resolving public output URLs.
package render

// Mode tells where a job executes. It travels with the job handle so
// status lookups never have to guess from the bucket name alone.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// LocalBucket is the wire sentinel kept for compatibility with existing
// clients: local jobs report it as their bucketName.
const LocalBucket = "local"

// JobHandle identifies an accepted render job.
type JobHandle struct {
	Mode       Mode   `json:"mode"`
	BucketName string `json:"bucketName"`
	RenderID   string `json:"renderId"`
}

// ModeForBucket recovers the execution mode for handles reconstructed
// from the wire, where only the bucket sentinel survives.
func ModeForBucket(bucketName string) Mode {
	if bucketName == LocalBucket {
		return ModeLocal
	}
	return ModeRemote
}

// Status is a job's progress snapshot. Remote jobs carry the engine's
// report verbatim; local jobs are synthesized as already complete.
type Status struct {
	OverallProgress float64  `json:"overallProgress"`
	OutputFile      string   `json:"outputFile,omitempty"`
	OutKey          string   `json:"outKey,omitempty"`
	OutBucket       string   `json:"outBucket,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

// Failed reports whether the engine surfaced errors. A non-empty error
// list marks the job failed regardless of the progress value.
func (s Status) Failed() bool {
	return len(s.Errors) > 0
}

// Done reports render completion. Meaningless when Failed is true.
func (s Status) Done() bool {
	return s.OverallProgress >= 1.0
}
