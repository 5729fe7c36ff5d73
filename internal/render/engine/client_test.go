package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStartRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render/start" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var spec StartSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			t.Fatal(err)
		}
		if spec.Composition != "goal" {
			t.Errorf("composition = %q", spec.Composition)
		}
		json.NewEncoder(w).Encode(StartResponse{BucketName: "b", RenderID: "r1"})
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL).StartRender(context.Background(), StartSpec{
		Composition: "goal",
		InputProps:  map[string]any{"playerName": "Rossi"},
	})
	if err != nil {
		t.Fatalf("StartRender() error = %v", err)
	}
	if resp.BucketName != "b" || resp.RenderID != "r1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestProgressPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Progress{
			OverallProgress: 0.8,
			OutKey:          "k.mp4",
			OutBucket:       "b",
			Errors:          []string{"warn"},
		})
	}))
	defer srv.Close()

	prog, err := NewHTTPClient(srv.URL).Progress(context.Background(), "b", "r1")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if prog.OverallProgress != 0.8 || prog.OutKey != "k.mp4" || len(prog.Errors) != 1 {
		t.Errorf("progress = %+v", prog)
	}
}

func TestScreenshotReturnsBytes(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(png)
	}))
	defer srv.Close()

	data, err := NewHTTPClient(srv.URL).Screenshot(context.Background(), StillSpec{Composition: "lineup"})
	if err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	if string(data) != string(png) {
		t.Errorf("data = %v", data)
	}
}

func TestEngineErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "composition not found", http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).RenderMedia(context.Background(), MediaSpec{Composition: "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "composition not found") {
		t.Errorf("error = %q, want engine body preserved", got)
	}
}
