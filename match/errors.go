package match

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors of the orchestrator. ErrNotFound is terminal for the
// client, which must restart matchmaking; everything else is recoverable
// without any server-side state change.
var (
	ErrNotFound      = errors.New("game not found")
	ErrWrongPassword = errors.New("invalid password")
)

// RequestError is a client-correctable rejection. The message is returned
// verbatim in the response body.
type RequestError struct {
	Msg string
}

func (e *RequestError) Error() string {
	return e.Msg
}

func errInvalid(format string, args ...any) error {
	return &RequestError{Msg: fmt.Sprintf(format, args...)}
}

// RateLimitError reports a shot attempted before the session cooldown
// expired.
type RateLimitError struct {
	Remaining time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("wait %s before next shot", e.Remaining)
}

// RetryAfterSeconds rounds the remaining cooldown up to whole seconds, for
// the Retry-After header and the cooldownRemaining body field.
func (e *RateLimitError) RetryAfterSeconds() int {
	return int((e.Remaining + time.Second - 1) / time.Second)
}
