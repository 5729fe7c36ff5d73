// Package engine wraps the third-party rendering service behind a small
// HTTP client. The engine itself is opaque: it owns compositions, encoding
// and progress reporting; this client only moves specs and results.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StartSpec submits an asynchronous render to the remote service.
type StartSpec struct {
	Composition  string         `json:"composition"`
	InputProps   map[string]any `json:"inputProps"`
	ServeURL     string         `json:"serveUrl"`
	FunctionName string         `json:"functionName"`
	Codec        string         `json:"codec,omitempty"`
}

// StartResponse acknowledges receipt of a remote render job.
type StartResponse struct {
	BucketName string `json:"bucketName"`
	RenderID   string `json:"renderId"`
}

// Progress is the engine's native status report, passed through verbatim.
// Different engine integrations populate different subsets of the output
// fields; consumers must tolerate partial information.
type Progress struct {
	OverallProgress float64  `json:"overallProgress"`
	OutputFile      string   `json:"outputFile,omitempty"`
	OutKey          string   `json:"outKey,omitempty"`
	OutBucket       string   `json:"outBucket,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

// MediaSpec renders a composition synchronously to a local file.
type MediaSpec struct {
	Composition string         `json:"composition"`
	InputProps  map[string]any `json:"inputProps"`
	OutputPath  string         `json:"outputPath"`
	Codec       string         `json:"codec,omitempty"`
}

// StillSpec captures a single raster frame of a composition as PNG.
// SettleDelayMS gives fonts and images time to load before capture.
type StillSpec struct {
	Composition   string         `json:"composition"`
	InputProps    map[string]any `json:"inputProps"`
	Width         int            `json:"width,omitempty"`
	Height        int            `json:"height,omitempty"`
	SettleDelayMS int            `json:"settleDelayMs,omitempty"`
}

type Client interface {
	StartRender(ctx context.Context, spec StartSpec) (StartResponse, error)
	Progress(ctx context.Context, bucketName, renderID string) (Progress, error)
	RenderMedia(ctx context.Context, spec MediaSpec) error
	Screenshot(ctx context.Context, spec StillSpec) ([]byte, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

func (c *HTTPClient) StartRender(ctx context.Context, spec StartSpec) (StartResponse, error) {
	var resp StartResponse
	if err := c.postJSON(ctx, "/render/start", spec, &resp); err != nil {
		return StartResponse{}, err
	}
	return resp, nil
}

func (c *HTTPClient) Progress(ctx context.Context, bucketName, renderID string) (Progress, error) {
	body := map[string]string{
		"bucketName": bucketName,
		"renderId":   renderID,
	}
	var resp Progress
	if err := c.postJSON(ctx, "/render/progress", body, &resp); err != nil {
		return Progress{}, err
	}
	return resp, nil
}

func (c *HTTPClient) RenderMedia(ctx context.Context, spec MediaSpec) error {
	return c.postJSON(ctx, "/render/media", spec, nil)
}

func (c *HTTPClient) Screenshot(ctx context.Context, spec StillSpec) ([]byte, error) {
	payload, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/screenshot", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, engineHTTPError(res)
	}

	return io.ReadAll(res.Body)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return engineHTTPError(res)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// engineHTTPError preserves the engine's own message when it sends one.
func engineHTTPError(res *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
	if len(data) > 0 {
		return fmt.Errorf("render engine http %d: %s", res.StatusCode, string(data))
	}
	return fmt.Errorf("render engine http %d", res.StatusCode)
}
