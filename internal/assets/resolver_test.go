package assets

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"matchday/internal/pkg/errors"
	"matchday/internal/ports"
)

// fakeProvider implements ports.StorageProvider for resolver tests.
type fakeProvider struct {
	signedURL string
	signErr   error
	lastKey   string
	lastTTL   time.Duration
}

func (f *fakeProvider) Provider() string { return "fake" }

func (f *fakeProvider) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	return ports.PutObjectOutput{ObjectKey: in.ObjectKey}, nil
}

func (f *fakeProvider) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, string, int64, error) {
	return nil, "", 0, fmt.Errorf("not implemented")
}

func (f *fakeProvider) DeleteObject(ctx context.Context, objectKey string) error { return nil }

func (f *fakeProvider) GetSignedURL(ctx context.Context, objectKey string, expiresIn time.Duration) (ports.SignedURLOutput, error) {
	f.lastKey = objectKey
	f.lastTTL = expiresIn
	if f.signErr != nil {
		return ports.SignedURLOutput{}, f.signErr
	}
	return ports.SignedURLOutput{URL: f.signedURL, ExpiresAt: time.Now().Add(expiresIn)}, nil
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		kind RefKind
	}{
		{"https://cdn.example/clip.mp4", RefAbsolute},
		{"http://cdn.example/clip.mp4", RefAbsolute},
		{"players/rossi.png", RefStorageKey},
		{"clips/goal.mp4", RefStorageKey},
		{"logo", RefStorageKey},
		{"logo-dark.png", RefStorageKey},
		{"random/key.bin", RefStorageKey},
		{"", RefEmpty},
		{"   ", RefEmpty},
	}

	for _, tt := range tests {
		if got := ParseRef(tt.in); got.Kind != tt.kind {
			t.Errorf("ParseRef(%q).Kind = %d, want %d", tt.in, got.Kind, tt.kind)
		}
	}
}

func TestResolveAbsolutePassthrough(t *testing.T) {
	r := NewResolver("http://localhost:8080/assets", "", nil)

	url, err := r.Resolve(context.Background(), "https://cdn.example/a.mp4", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example/a.mp4" {
		t.Errorf("absolute URL must pass through unchanged, got %s", url)
	}
}

func TestResolveStorageKey(t *testing.T) {
	r := NewResolver("http://localhost:8080/assets/", "", nil)

	url, err := r.Resolve(context.Background(), "players/x.png", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://localhost:8080/assets/players/x.png" {
		t.Errorf("unexpected resolved URL: %s", url)
	}
}

func TestResolveStripsLeadingSlash(t *testing.T) {
	sp := &fakeProvider{signedURL: "https://signed.example/k?sig=abc"}
	r := NewResolver("http://localhost:8080/assets", "club-media", sp)

	url, err := r.Resolve(context.Background(), "/players/x.png", Options{Signed: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.lastKey != "players/x.png" {
		t.Errorf("expected leading slash stripped from key, got %q", sp.lastKey)
	}
	if url != "https://signed.example/k?sig=abc" {
		t.Errorf("expected signed URL, got %s", url)
	}
	if sp.lastTTL != DefaultSignExpiry {
		t.Errorf("expected default expiry %s, got %s", DefaultSignExpiry, sp.lastTTL)
	}
}

func TestResolveSignedFailurePropagates(t *testing.T) {
	sp := &fakeProvider{signErr: fmt.Errorf("credential service down")}
	r := NewResolver("http://localhost:8080/assets", "club-media", sp)

	_, err := r.Resolve(context.Background(), "players/x.png", Options{Signed: true})
	if err == nil {
		t.Fatal("expected signing failure to propagate, not fall back to unsigned URL")
	}
}

func TestResolveSignedWithoutBucketFallsToBase(t *testing.T) {
	// A signing request with no bucket configured takes the plain path.
	r := NewResolver("http://localhost:8080/assets", "", &fakeProvider{})

	url, err := r.Resolve(context.Background(), "players/x.png", Options{Signed: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://localhost:8080/assets/players/x.png" {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestResolveEmptyUsesDefault(t *testing.T) {
	r := NewResolver("http://localhost:8080/assets", "", nil)

	url, err := r.Resolve(context.Background(), "", Options{Default: "clips/default.mp4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://localhost:8080/assets/clips/default.mp4" {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestResolveEmptyWithoutDefault(t *testing.T) {
	r := NewResolver("http://localhost:8080/assets", "", nil)

	_, err := r.Resolve(context.Background(), "  ", Options{})
	if !errors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestResolveCustomExpiry(t *testing.T) {
	sp := &fakeProvider{signedURL: "https://signed.example/k"}
	r := NewResolver("http://localhost:8080/assets", "club-media", sp)

	_, err := r.Resolve(context.Background(), "clips/goal.mp4", Options{
		Signed:    true,
		ExpiresIn: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.lastTTL != time.Hour {
		t.Errorf("expected 1h expiry, got %s", sp.lastTTL)
	}
}
