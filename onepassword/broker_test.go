package onepassword

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvokeCapturesStdoutAndStripsTrailingNewlines(t *testing.T) {
	broker := NewBroker(nil)

	result := broker.Invoke(context.Background(), "sh", []string{"-c", `printf 'hello\n\n'`}, InvokeOptions{})

	require.False(t, result.Failed)
	require.Equal(t, "hello", result.Text)
	require.Equal(t, 0, result.ExitCode)
}

func TestInvokeReportsNonZeroExit(t *testing.T) {
	broker := NewBroker(nil)

	result := broker.Invoke(context.Background(), "sh", []string{"-c", "echo boom >&2; exit 3"}, InvokeOptions{})

	require.True(t, result.Failed)
	require.Equal(t, 3, result.ExitCode)
	require.Equal(t, "boom\n", result.Stderr)
	require.Equal(t, errorSentinel+"boom\n", result.Wire())
}

func TestInvokeReportsLaunchFailure(t *testing.T) {
	broker := NewBroker(nil)

	result := broker.Invoke(context.Background(), "/nonexistent/op-binary", nil, InvokeOptions{})

	require.True(t, result.Failed)
	require.Equal(t, -1, result.ExitCode)
	require.NotEmpty(t, result.Stderr)
}

func TestInvokePreStepPipesIntoStdin(t *testing.T) {
	broker := NewBroker(nil)

	result := broker.Invoke(context.Background(), "cat", nil, InvokeOptions{PreStep: "printf '%s' piped-secret"})

	require.False(t, result.Failed)
	require.Equal(t, "piped-secret", result.Text)
}

func TestInvokePreStepEscapesSingleQuotes(t *testing.T) {
	broker := NewBroker(nil)
	password := `it's a 'tricky' one`

	result := broker.Invoke(context.Background(), "cat", nil,
		InvokeOptions{PreStep: "printf '%s' " + shellQuote(password)})

	require.False(t, result.Failed)
	require.Equal(t, password, result.Text)
}

func TestInvokeEscapesArgumentsInShellPath(t *testing.T) {
	broker := NewBroker(nil)

	// The argument carries quotes and spaces; through the shell path
	// it must arrive at the process as a single argv entry.
	arg := `a b'c "d`
	result := broker.Invoke(context.Background(), "printf", []string{"%s", arg},
		InvokeOptions{PreStep: "true"})

	require.False(t, result.Failed)
	require.Equal(t, arg, result.Text)
}

func TestInvokeExposesProcessHandle(t *testing.T) {
	broker := NewBroker(nil)
	var handle Handle

	result := broker.Invoke(context.Background(), "sh", []string{"-c", "exit 0"}, InvokeOptions{Handle: &handle})

	require.False(t, result.Failed)
	require.NotNil(t, handle.Process())
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", `'plain'`},
		{"two words", `'two words'`},
		{"it's", `'it'\''s'`},
		{"", `''`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, shellQuote(tt.input))
		})
	}
}
