// Package assets turns logical asset references (absolute URLs, storage
// keys, empty placeholders) into URLs the render engine can fetch.
package assets

import (
	"context"
	"strings"
	"time"

	"matchday/internal/pkg/errors"
	"matchday/internal/ports"
)

// RefKind tags an asset reference. Classification happens once, at the
// system boundary, instead of being re-sniffed by every consumer.
type RefKind int

const (
	RefEmpty RefKind = iota
	RefAbsolute
	RefStorageKey
)

// Ref is a classified asset reference.
type Ref struct {
	Kind  RefKind
	Value string
}

// Known local-library prefixes. Anything that matches neither these nor an
// absolute URL is still treated as a storage key and prefixed with the base
// URL, matching the form's historical behavior.
var localPrefixes = []string{"players/", "clips/", "logo"}

// ParseRef classifies a raw reference string.
func ParseRef(raw string) Ref {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Ref{Kind: RefEmpty}
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return Ref{Kind: RefAbsolute, Value: s}
	}
	for _, p := range localPrefixes {
		if strings.HasPrefix(s, p) {
			return Ref{Kind: RefStorageKey, Value: s}
		}
	}
	return Ref{Kind: RefStorageKey, Value: s}
}

// DefaultSignExpiry is used when a call site does not pick its own window.
const DefaultSignExpiry = 300 * time.Second

// Options control a single resolution.
type Options struct {
	// Signed requests a time-limited URL from the storage backend.
	Signed bool
	// ExpiresIn bounds a signed URL's validity; DefaultSignExpiry if zero.
	ExpiresIn time.Duration
	// Default is the reference used when the input is empty, resolved
	// through the same rules.
	Default string
}

// Resolver resolves asset references against a base URL and, for signed
// URLs, the configured storage provider.
type Resolver struct {
	baseURL string
	bucket  string
	sp      ports.StorageProvider
}

// NewResolver builds a resolver. sp may be nil when signing is never used;
// bucket gates the signed path the way the configuration does.
func NewResolver(baseURL, bucket string, sp ports.StorageProvider) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
		sp:      sp,
	}
}

// Resolve turns a raw reference into a fetchable URL.
func (r *Resolver) Resolve(ctx context.Context, raw string, opt Options) (string, error) {
	ref := ParseRef(raw)

	if ref.Kind == RefEmpty {
		ref = ParseRef(opt.Default)
		if ref.Kind == RefEmpty {
			return "", errors.Validation("asset reference is empty and no default is configured")
		}
	}

	if ref.Kind == RefAbsolute {
		// Passed through unchanged, reachability is the renderer's problem.
		return ref.Value, nil
	}

	key := strings.TrimLeft(ref.Value, "/")

	if opt.Signed && r.bucket != "" && r.sp != nil {
		expiresIn := opt.ExpiresIn
		if expiresIn <= 0 {
			expiresIn = DefaultSignExpiry
		}
		out, err := r.sp.GetSignedURL(ctx, key, expiresIn)
		if err != nil {
			// Never fall back to an unsigned URL: the object may be private.
			return "", errors.Wrap(err, "assets.resolve", "signed url generation failed")
		}
		return out.URL, nil
	}

	return r.baseURL + "/" + key, nil
}
