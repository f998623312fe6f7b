package reporter

import "errors"

var (
	// ErrAlreadyInstalled is returned by Init when the reporter is already
	// installed. Callers that treat Init as idempotent may ignore it.
	ErrAlreadyInstalled = errors.New("reporter: already installed")

	// ErrNotInstalled is returned by Capture when Init has not run.
	ErrNotInstalled = errors.New("reporter: not installed")

	// ErrRateLimited is returned when a report was dropped by the local
	// rate limiter.
	ErrRateLimited = errors.New("reporter: rate limit exceeded, report dropped")
)

// selfError tags failures raised by the reporter's own code. The tag is the
// source-boundary marker the handler checks before reporting: a panic value
// wrapping a selfError skips the tracker entirely and goes straight to the
// previous handler, which prevents feedback loops.
type selfError struct {
	err error
}

func (e selfError) Error() string {
	return "reporter internal error: " + e.err.Error()
}

func (e selfError) Unwrap() error {
	return e.err
}

// selfOriginated reports whether a panic value was raised by the reporter
// itself.
func selfOriginated(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	var se selfError
	return errors.As(err, &se)
}
