package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Outcomes callers branch on. Every error returned by Client matches
// exactly one of these with errors.Is.
var (
	ErrNotFound       = errors.New("github: not found")
	ErrUnavailable    = errors.New("github: unavailable")
	ErrTimeout        = errors.New("github: timeout")
	ErrReadmeNotFound = errors.New("github: repository has no readable README")
)

// HTTPError captures an unexpected status code and the response body.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, string(body))
}

// Is maps 404 to ErrNotFound and every other status to ErrUnavailable.
func (e *HTTPError) Is(target error) bool {
	if e.StatusCode == http.StatusNotFound {
		return target == ErrNotFound
	}
	return target == ErrUnavailable
}

// classifyTransport wraps a transport or decode failure in ErrTimeout or ErrUnavailable.
func classifyTransport(op string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Outcome names an error for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrReadmeNotFound):
		return "readme_not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "unavailable"
	}
}
