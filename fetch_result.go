package livestatus

import (
	"time"

	"github.com/jpalmerr/livestatus/mapping"
)

// FetchResult is the outcome of fetching one source once, as passed to
// callbacks registered with [WithFetchCallback].
type FetchResult struct {
	// SourceName is the name of the fetched source.
	SourceName string

	// URL is the URL that was fetched.
	URL string

	// Labels is a copy of the source's labels.
	Labels map[string]string

	// Mapping is the decoded status document. Empty when Error is set.
	Mapping mapping.Mapping

	// Latency is the time taken by the HTTP request.
	Latency time.Duration

	// CheckedAt is when the fetch completed.
	CheckedAt time.Time

	// RequestID is the X-Request-ID header sent with the request.
	RequestID string

	// StatusCode is the HTTP status code, zero if no response was received.
	StatusCode int

	// Error is set when the request failed, the status code was not 2xx, or
	// the body was not a JSON object. The panel keeps its previous contents.
	Error error
}

// Entries returns the document's fields as displayable label/value pairs.
func (r FetchResult) Entries() []mapping.Entry {
	return r.Mapping.Entries()
}
