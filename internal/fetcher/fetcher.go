// Package fetcher retrieves raw listing and article pages. A per-source
// stack combines a direct HTTP strategy or a headless-browser strategy,
// an optional robots.txt gate and an end-to-start request throttle.
package fetcher

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher Fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Fetcher returns the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Failure kinds.
var (
	// ErrTimeout is returned when the request deadline passes.
	ErrTimeout = errors.New("fetch timed out")
	// ErrNetwork is returned for connection level failures.
	ErrNetwork = errors.New("network failure")
	// ErrHTTPStatus matches every *StatusError.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrBrowser is returned when the headless render fails and no fallback is configured.
	ErrBrowser = errors.New("browser render failed")
	// ErrDisallowed is returned when robots.txt forbids the path.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// Kind labels used in logs and metrics.
const (
	KindTimeout    = "timeout"
	KindNetwork    = "network"
	KindHTTPStatus = "http_status"
	KindBrowser    = "browser"
	KindDisallowed = "disallowed"
	KindCanceled   = "canceled"
	KindUnknown    = "unknown"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.URL, e.Code)
}

// Is makes errors.Is(err, ErrHTTPStatus) true for any status error.
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// Kind classifies a fetch error for logging and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrHTTPStatus):
		return KindHTTPStatus
	case errors.Is(err, ErrDisallowed):
		return KindDisallowed
	case errors.Is(err, ErrBrowser):
		return KindBrowser
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// classify wraps a transport error with its failure kind.
func classify(rawURL string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %s: %w", ErrTimeout, rawURL, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrNetwork, rawURL, err)
	}
}

// isSuccessStatus returns true if the HTTP status code is in the 2xx range.
func isSuccessStatus(statusCode int) bool {
	return statusCode >= statusSuccessLow && statusCode < statusSuccessHigh
}

const (
	statusSuccessLow  = 200
	statusSuccessHigh = 300
)
