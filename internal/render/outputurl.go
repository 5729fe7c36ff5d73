package render

import (
	"fmt"
	"strings"
)

// OutputLocation configures how relative render outputs are resolved
// into public URLs.
type OutputLocation struct {
	// FallbackBucket is used when the engine does not report one.
	FallbackBucket string
	// Region selects the S3 endpoint for the default URL form.
	Region string
	// PublicBaseURL, when set, overrides the S3 URL form entirely
	// (CDN or proxy in front of the bucket).
	PublicBaseURL string
}

// BuildOutputURL resolves a job status into a public URL for the
// finished artifact. An empty return means the output is not known yet.
//
// An absolute outputFile wins outright. Otherwise the object key is
// taken from outKey, falling back to outputFile, and joined onto either
// the public base override or the bucket's S3 endpoint.
func BuildOutputURL(st Status, loc OutputLocation) string {
	if isAbsoluteURL(st.OutputFile) {
		return st.OutputFile
	}

	key := st.OutKey
	if key == "" {
		key = st.OutputFile
	}
	if key == "" {
		return ""
	}

	bucket := st.OutBucket
	if bucket == "" {
		bucket = loc.FallbackBucket
	}

	base := strings.TrimRight(loc.PublicBaseURL, "/")
	if base == "" {
		if bucket == "" {
			return ""
		}
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, loc.Region)
	}

	return base + "/" + strings.TrimLeft(key, "/")
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
