package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"matchday/internal/compose"
	"matchday/internal/config"
	"matchday/internal/jobstore"
	"matchday/internal/pkg/errors"
	"matchday/internal/pkg/logger"
	"matchday/internal/render/engine"
)

// stillSettleDelayMS gives the composition time to load fonts and
// remote images before a frame is captured.
const stillSettleDelayMS = 800

// Dispatcher accepts normalized compositions and submits them to the
// rendering engine, locally or remotely depending on configuration.
type Dispatcher struct {
	cfg    *config.Config
	engine engine.Client
	store  jobstore.Store
	log    *logger.Logger
}

func NewDispatcher(cfg *config.Config, eng engine.Client, store jobstore.Store, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		engine: eng,
		store:  store,
		log:    log.WithComponent("dispatcher"),
	}
}

// Dispatch submits a video render job and returns a handle the caller
// can poll. Local mode renders synchronously and records the finished
// artifact before returning; remote mode only submits.
func (d *Dispatcher) Dispatch(ctx context.Context, kind compose.Kind, props compose.Props) (JobHandle, error) {
	if d.cfg.RenderMode == config.ModeLocal {
		return d.dispatchLocal(ctx, kind, props)
	}
	return d.dispatchRemote(ctx, kind, props)
}

func (d *Dispatcher) dispatchLocal(ctx context.Context, kind compose.Kind, props compose.Props) (JobHandle, error) {
	renderID := uuid.NewString()
	fileName := fmt.Sprintf("%s-%s.mp4", kind, renderID)
	outputPath := filepath.Join(d.cfg.ArtifactDir, fileName)

	log := d.log.WithRenderID(renderID)
	log.Info("starting local render", "composition", string(kind), "output_path", outputPath)

	err := d.engine.RenderMedia(ctx, engine.MediaSpec{
		Composition: string(kind),
		InputProps:  props,
		OutputPath:  outputPath,
		Codec:       "h264",
	})
	if err != nil {
		return JobHandle{}, errors.WrapWithCode(err, errors.CodeRenderEngine, "dispatchLocal", "local render failed")
	}

	rec := jobstore.Record{
		RenderID:    renderID,
		Composition: string(kind),
		OutputURL:   d.artifactURL(fileName),
		OutputPath:  outputPath,
	}
	if err := d.store.Put(ctx, rec); err != nil {
		return JobHandle{}, errors.Wrap(err, "dispatchLocal", "failed to record local render")
	}

	if err := SweepArtifacts(d.cfg.ArtifactDir, d.cfg.ArtifactKeep); err != nil {
		log.Warn("artifact sweep failed", "error", err)
	}

	log.Info("local render complete", "output_url", rec.OutputURL)
	return JobHandle{Mode: ModeLocal, BucketName: LocalBucket, RenderID: renderID}, nil
}

func (d *Dispatcher) dispatchRemote(ctx context.Context, kind compose.Kind, props compose.Props) (JobHandle, error) {
	if err := d.remotePreconditions(); err != nil {
		return JobHandle{}, err
	}

	resp, err := d.engine.StartRender(ctx, engine.StartSpec{
		Composition:  string(kind),
		InputProps:   props,
		ServeURL:     d.cfg.ServeURL,
		FunctionName: d.cfg.FunctionName,
		Codec:        "h264",
	})
	if err != nil {
		return JobHandle{}, errors.WrapWithCode(err, errors.CodeRenderEngine, "dispatchRemote", "remote render submission failed")
	}

	d.log.WithRenderID(resp.RenderID).Info("remote render submitted",
		"composition", string(kind),
		"bucket", resp.BucketName,
	)
	return JobHandle{Mode: ModeRemote, BucketName: resp.BucketName, RenderID: resp.RenderID}, nil
}

// remotePreconditions re-checks the remote settings at dispatch time so
// a misconfigured deployment fails on the first request rather than
// producing a half-submitted job.
func (d *Dispatcher) remotePreconditions() error {
	var missing []string
	if d.cfg.ServeURL == "" {
		missing = append(missing, "RENDER_SERVE_URL")
	}
	if d.cfg.FunctionName == "" {
		missing = append(missing, "RENDER_FUNCTION_NAME")
	}
	if d.cfg.OutputBucket == "" {
		missing = append(missing, "RENDER_OUTPUT_BUCKET")
	}
	if len(missing) > 0 {
		return errors.Configurationf("remote render mode requires %s", strings.Join(missing, ", "))
	}
	return nil
}

// RenderStill captures a single frame of a composition as PNG bytes.
// Stills are always synchronous, regardless of render mode.
func (d *Dispatcher) RenderStill(ctx context.Context, kind compose.Kind, props compose.Props, width, height int) ([]byte, error) {
	data, err := d.engine.Screenshot(ctx, engine.StillSpec{
		Composition:   string(kind),
		InputProps:    props,
		Width:         width,
		Height:        height,
		SettleDelayMS: stillSettleDelayMS,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeRenderEngine, "RenderStill", "still capture failed")
	}
	return data, nil
}

// artifactURL builds the public URL for a locally rendered file, served
// from this process's artifact route.
func (d *Dispatcher) artifactURL(fileName string) string {
	base := strings.TrimRight(d.cfg.PublicBaseURL, "/")
	if base == "" {
		base = "http://localhost:" + d.cfg.HTTPPort
	}
	return base + "/render/artifacts/" + fileName
}
