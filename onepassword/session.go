package onepassword

import "time"

// sessionWindow is how long a freshly minted session is considered
// valid: a conservative margin under the op CLI's own 30-minute
// session lifetime.
const sessionWindow = 29 * time.Minute

// Credentials identify a 1Password account for signin. They are used
// once to mint a Session and are never persisted by the client.
type Credentials struct {
	Domain         string
	Email          string
	SecretKey      string
	MasterPassword string
}

// Session is a time-bounded authentication credential. It is immutable
// after creation and safe to share by reference; when it expires the
// caller signs in again and discards it.
type Session struct {
	// Token is the opaque session token minted by the op CLI.
	Token string
	// Email is the account the session belongs to.
	Email string
	// ExpiresAt is the instant the session stops being usable.
	ExpiresAt time.Time
	// InstallDir is the directory the executable was resolved from
	// when the session was created; privileged queries default to it.
	InstallDir string
}

// Valid reports whether the session is still usable.
func (s *Session) Valid() bool {
	return s.ValidAt(time.Now())
}

// ValidAt reports whether the session is usable at the given instant.
func (s *Session) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
