package session

import "errors"

var (
	ErrNoSession        = errors.New("no active session")
	ErrEmptyMessage     = errors.New("message must not be empty")
	ErrSendInFlight     = errors.New("a message is already awaiting its fast response")
	ErrInvalidEntry     = errors.New("entry does not reference an assistant message")
	ErrInvalidSentiment = errors.New("sentiment must be positive or negative")
	ErrRetryNotAllowed  = errors.New("retry is only allowed for a persisted session in error state")
	ErrInvalidOutcome   = errors.New("outcome must be success or fail")
	ErrInvalidStage     = errors.New("unknown journey stage")
	ErrTemporarySession = errors.New("session has not been persisted yet")
	ErrInvalidSessionId = errors.New("invalid session id")
)

// IsPrecondition reports whether err is a rejected operation rather than an upstream failure.
func IsPrecondition(err error) bool {
	for _, target := range []error{
		ErrNoSession, ErrEmptyMessage, ErrSendInFlight, ErrInvalidEntry, ErrInvalidSentiment,
		ErrRetryNotAllowed, ErrInvalidOutcome, ErrInvalidStage, ErrTemporarySession, ErrInvalidSessionId,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
