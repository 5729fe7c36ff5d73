package render

import (
	"context"
	"os"
	"strings"
	"testing"

	"matchday/internal/compose"
	"matchday/internal/config"
	"matchday/internal/jobstore"
	"matchday/internal/pkg/errors"
	"matchday/internal/render/engine"
)

// fakeEngine records calls and writes the output file on RenderMedia,
// matching the real engine's contract for local renders.
type fakeEngine struct {
	startResp  engine.StartResponse
	startErr   error
	mediaErr   error
	lastStart  engine.StartSpec
	lastMedia  engine.MediaSpec
	lastStill  engine.StillSpec
	screenshot []byte
}

func (f *fakeEngine) StartRender(_ context.Context, spec engine.StartSpec) (engine.StartResponse, error) {
	f.lastStart = spec
	return f.startResp, f.startErr
}

func (f *fakeEngine) Progress(_ context.Context, _, _ string) (engine.Progress, error) {
	return engine.Progress{}, nil
}

func (f *fakeEngine) RenderMedia(_ context.Context, spec engine.MediaSpec) error {
	f.lastMedia = spec
	if f.mediaErr != nil {
		return f.mediaErr
	}
	return os.WriteFile(spec.OutputPath, []byte("mp4"), 0o644)
}

func (f *fakeEngine) Screenshot(_ context.Context, spec engine.StillSpec) ([]byte, error) {
	f.lastStill = spec
	return f.screenshot, nil
}

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTPPort:    "8090",
		RenderMode:  config.ModeLocal,
		ArtifactDir: t.TempDir(),
	}
}

func TestDispatchLocalCompletesBeforeReturning(t *testing.T) {
	cfg := localConfig(t)
	eng := &fakeEngine{}
	store := jobstore.NewMemoryStore()
	d := NewDispatcher(cfg, eng, store, quietLogger())

	h, err := d.Dispatch(context.Background(), compose.KindGoal, compose.Props{"playerName": "Rossi"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if h.BucketName != LocalBucket {
		t.Errorf("bucket = %q, want %q", h.BucketName, LocalBucket)
	}
	if h.Mode != ModeLocal {
		t.Errorf("mode = %v, want ModeLocal", h.Mode)
	}
	if h.RenderID == "" {
		t.Fatal("empty renderId")
	}

	// The artifact and its registry record must exist already.
	if _, err := os.Stat(eng.lastMedia.OutputPath); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
	rec, ok, err := store.Get(context.Background(), h.RenderID)
	if err != nil || !ok {
		t.Fatalf("record missing: ok=%v err=%v", ok, err)
	}
	if !strings.HasPrefix(rec.OutputURL, "http://localhost:8090/render/artifacts/") {
		t.Errorf("output URL = %q, want local artifact route", rec.OutputURL)
	}

	// A status lookup through the tracker reports completion.
	st, err := NewTracker(eng, store).GetStatus(context.Background(), h.BucketName, h.RenderID)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if st.OverallProgress != 1.0 {
		t.Errorf("progress = %v, want 1.0", st.OverallProgress)
	}
	if st.OutputFile == "" {
		t.Error("output file empty for completed local render")
	}
}

func TestDispatchLocalEngineFailure(t *testing.T) {
	cfg := localConfig(t)
	eng := &fakeEngine{mediaErr: os.ErrPermission}
	store := jobstore.NewMemoryStore()
	d := NewDispatcher(cfg, eng, store, quietLogger())

	_, err := d.Dispatch(context.Background(), compose.KindGoal, compose.Props{})
	if !errors.IsCode(err, errors.CodeRenderEngine) {
		t.Fatalf("error code = %v, want RENDER_ENGINE_ERROR", errors.GetCode(err))
	}
}

func TestDispatchRemoteFailsFastWithoutConfig(t *testing.T) {
	cfg := &config.Config{RenderMode: config.ModeRemote}
	d := NewDispatcher(cfg, &fakeEngine{}, jobstore.NewMemoryStore(), quietLogger())

	_, err := d.Dispatch(context.Background(), compose.KindFormation, compose.Props{})
	if !errors.IsConfiguration(err) {
		t.Fatalf("error = %v, want configuration error", err)
	}
	for _, key := range []string{"RENDER_SERVE_URL", "RENDER_FUNCTION_NAME", "RENDER_OUTPUT_BUCKET"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err.Error(), key)
		}
	}
}

func TestDispatchRemoteSubmits(t *testing.T) {
	cfg := &config.Config{
		RenderMode:   config.ModeRemote,
		ServeURL:     "https://serve.example.com/bundle",
		FunctionName: "render-fn",
		OutputBucket: "out-bucket",
	}
	eng := &fakeEngine{startResp: engine.StartResponse{BucketName: "render-output-abc", RenderID: "r-42"}}
	d := NewDispatcher(cfg, eng, jobstore.NewMemoryStore(), quietLogger())

	h, err := d.Dispatch(context.Background(), compose.KindFinalResult, compose.Props{"teamA": "Casalpoglio"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if h.Mode != ModeRemote || h.BucketName != "render-output-abc" || h.RenderID != "r-42" {
		t.Errorf("handle = %+v, want remote handle from engine response", h)
	}
	if eng.lastStart.ServeURL != cfg.ServeURL || eng.lastStart.FunctionName != cfg.FunctionName {
		t.Errorf("start spec = %+v, want configured serve URL and function", eng.lastStart)
	}
	if eng.lastStart.Composition != "final-result" {
		t.Errorf("composition = %q, want final-result", eng.lastStart.Composition)
	}
}

func TestRenderStill(t *testing.T) {
	eng := &fakeEngine{screenshot: []byte{0x89, 'P', 'N', 'G'}}
	d := NewDispatcher(localConfig(t), eng, jobstore.NewMemoryStore(), quietLogger())

	data, err := d.RenderStill(context.Background(), compose.KindLineup, compose.Props{}, 1080, 1350)
	if err != nil {
		t.Fatalf("RenderStill() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty still")
	}
	if eng.lastStill.Width != 1080 || eng.lastStill.Height != 1350 {
		t.Errorf("dimensions = %dx%d, want 1080x1350", eng.lastStill.Width, eng.lastStill.Height)
	}
	if eng.lastStill.SettleDelayMS == 0 {
		t.Error("settle delay not set")
	}
}

func TestTrackerLocalUnknownJobIsZeroProgress(t *testing.T) {
	tr := NewTracker(&fakeEngine{}, jobstore.NewMemoryStore())

	st, err := tr.GetStatus(context.Background(), LocalBucket, "nope")
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if st.OverallProgress != 0 || st.Failed() {
		t.Errorf("status = %+v, want zero progress and no errors", st)
	}
}
