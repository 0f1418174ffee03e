package onepassword

import "fmt"

// SessionError indicates the session is expired or the op CLI rejected
// the session token. The caller recovers by signing in again; the
// client never re-authenticates on its own.
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string {
	return "session error: " + e.Message
}

// QueryError covers every classified failure that is not an
// authentication problem: not-found, malformed arguments, transport
// failures, unparsable payloads. The op CLI's original message is
// preserved verbatim.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return "query error: " + e.Message
}

// PlatformNotSupportedError is raised when no op CLI distribution
// artifact exists for the running platform. Not retryable.
type PlatformNotSupportedError struct {
	Platform string
}

func (e *PlatformNotSupportedError) Error() string {
	return fmt.Sprintf("platform %s is not yet supported", e.Platform)
}
