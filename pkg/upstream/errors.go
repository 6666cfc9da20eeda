package upstream

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by decoders when a response body does not match
// the expected shape (bad JSON, missing required field).
var ErrMalformed = errors.New("malformed upstream response")

// TransportError reports a remote call that did not complete with a 2xx
// status: network failure, timeout, open circuit or non-success status.
type TransportError struct {
	Upstream   string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: GET %s: status %d", e.Upstream, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: GET %s: %v", e.Upstream, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err carries a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
