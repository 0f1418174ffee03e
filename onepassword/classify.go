package onepassword

import (
	"encoding/json"
	"strings"
)

// Stderr phrases the op CLI emits on authentication failures. Matching
// them is best-effort: the wording is tied to the tool's version, and
// the tool exits 1 for every failure so the exit status cannot
// distinguish an auth problem from a not-found. The original message
// always travels with the classified error for diagnosis.
var authFailurePhrases = []string{
	"not currently signed in",
	"401: Authentication required",
}

// classify turns a broker result into a payload or a typed error.
//
// A failed result becomes a SessionError when the stderr text matches
// a known authentication phrase, otherwise a QueryError. A successful
// result is returned verbatim when raw is true; otherwise it must be
// valid JSON, and anything unparsable is a QueryError. Pure function.
func classify(result RawResult, raw bool) ([]byte, error) {
	if result.Failed {
		msg := result.Stderr
		for _, phrase := range authFailurePhrases {
			if strings.Contains(msg, phrase) {
				return nil, &SessionError{Message: msg}
			}
		}
		return nil, &QueryError{Message: msg}
	}
	if raw {
		return []byte(result.Text), nil
	}
	if !json.Valid([]byte(result.Text)) {
		return nil, &QueryError{Message: "invalid JSON payload: " + result.Text}
	}
	return []byte(result.Text), nil
}
