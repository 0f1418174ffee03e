package onepassword

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifySuccessParsesJSON(t *testing.T) {
	payload, err := classify(RawResult{Text: `[{"uuid":"i1"}]`}, false)
	require.NoError(t, err)
	require.JSONEq(t, `[{"uuid":"i1"}]`, string(payload))
}

func TestClassifyInvalidJSONIsQueryError(t *testing.T) {
	_, err := classify(RawResult{Text: "not json at all"}, false)

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	require.Contains(t, queryErr.Message, "not json at all")
}

func TestClassifyRawModeReturnsTextVerbatim(t *testing.T) {
	payload, err := classify(RawResult{Text: "opaque-session-token"}, true)
	require.NoError(t, err)
	require.Equal(t, "opaque-session-token", string(payload))
}

func TestClassifyAuthPhrasesAreSessionErrors(t *testing.T) {
	messages := []string{
		"[LOG] 2019/01/01 10:00:00 (ERROR) You are not currently signed in. Please run `op signin --help` for instructions",
		"[LOG] 2019/01/01 10:00:00 (ERROR) 401: Authentication required.",
	}
	for _, message := range messages {
		t.Run(message, func(t *testing.T) {
			_, err := classify(RawResult{Stderr: message, ExitCode: 1, Failed: true}, false)

			var sessionErr *SessionError
			require.ErrorAs(t, err, &sessionErr)
			require.Equal(t, message, sessionErr.Message)
		})
	}
}

func TestClassifyOtherFailuresAreQueryErrors(t *testing.T) {
	message := "[LOG] 2019/01/01 10:00:00 (ERROR) Item 3142134123412412 not found"
	_, err := classify(RawResult{Stderr: message, ExitCode: 1, Failed: true}, false)

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	require.Equal(t, message, queryErr.Message)

	var sessionErr *SessionError
	require.False(t, errors.As(err, &sessionErr))
}

func TestWireRoundTrip(t *testing.T) {
	success := RawResult{Text: `{"uuid":"v1"}`}
	require.Equal(t, `{"uuid":"v1"}`, success.Wire())
	require.Equal(t, success, DecodeWire(success.Wire()))

	failure := RawResult{Stderr: "boom", ExitCode: 1, Failed: true}
	require.Equal(t, "[bin-error]---boom", failure.Wire())

	decoded := DecodeWire(failure.Wire())
	require.True(t, decoded.Failed)
	require.Equal(t, "boom", decoded.Stderr)
	// The exit status does not survive the wire encoding.
	require.Equal(t, -1, decoded.ExitCode)
}

func TestDecodeWireClassifiesLikeDirectResults(t *testing.T) {
	_, err := classify(DecodeWire("[bin-error]---401: Authentication required."), false)
	var sessionErr *SessionError
	require.ErrorAs(t, err, &sessionErr)

	_, err = classify(DecodeWire("[bin-error]---vault not found"), false)
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
}
