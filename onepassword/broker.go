package onepassword

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// errorSentinel separates a failure payload from a success payload in
// raw captured output. It is a wire-level contract with the classifier
// and must not change.
const errorSentinel = "[bin-error]---"

// RawResult is the structured outcome of one subprocess invocation.
// In-process consumers use the fields directly; Wire() serializes it
// to the sentinel string format for transports that only carry text.
type RawResult struct {
	// Text is captured standard output with trailing newlines
	// stripped. Empty when the invocation failed.
	Text string
	// Stderr is captured standard error, populated on failure. For
	// OS-level launch failures it carries the launch error text.
	Stderr string
	// ExitCode is the process exit status: 0 on success, -1 when the
	// process never launched or the status is unknown.
	ExitCode int
	// Failed is true for non-zero exits and launch failures.
	Failed bool
}

// Wire encodes the result as the sentinel string format: the payload
// text on success, or the sentinel followed by the stderr text on
// failure. The exit code does not survive this encoding.
func (r RawResult) Wire() string {
	if r.Failed {
		return errorSentinel + r.Stderr
	}
	return r.Text
}

// DecodeWire parses a sentinel-encoded string back into a RawResult.
// Results decoded from the wire carry an unknown exit code.
func DecodeWire(s string) RawResult {
	if _, after, found := strings.Cut(s, errorSentinel); found {
		return RawResult{Stderr: after, ExitCode: -1, Failed: true}
	}
	return RawResult{Text: s}
}

// Handle exposes the spawned OS process of an in-flight invocation so
// a caller can terminate it externally. The broker itself never kills
// a process it started.
type Handle struct {
	mu   sync.Mutex
	proc *os.Process
}

func (h *Handle) set(p *os.Process) {
	h.mu.Lock()
	h.proc = p
	h.mu.Unlock()
}

// Process returns the underlying process, or nil if the invocation has
// not been spawned yet (or never launched).
func (h *Handle) Process() *os.Process {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.proc
}

// Kill terminates the running process. It is a no-op when nothing was
// spawned.
func (h *Handle) Kill() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.proc == nil {
		return nil
	}
	return h.proc.Kill()
}

// InvokeOptions tunes a single broker invocation.
type InvokeOptions struct {
	// PreStep is a shell command whose standard output is piped into
	// the tool's standard input. Used to supply the master password
	// without placing it in argv. When set, the whole invocation runs
	// through the shell and every argument is single-quote escaped.
	PreStep string
	// Handle, when non-nil, receives the spawned process.
	Handle *Handle
}

// Broker spawns the op executable and captures its output. Exactly one
// process (or shell pipeline) is spawned per Invoke call; no retries.
// It has no knowledge of domain semantics.
type Broker struct {
	logger *slog.Logger
}

// NewBroker returns a broker logging through logger. A nil logger
// discards everything.
func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Broker{logger: logger}
}

// Invoke runs execPath with args and returns the captured output.
// Failures (non-zero exit, launch errors) are reported in the result,
// never as a Go error, so the outcome can cross an untyped transport
// without losing the success/failure distinction.
func (b *Broker) Invoke(ctx context.Context, execPath string, args []string, opts InvokeOptions) RawResult {
	var cmd *exec.Cmd
	if opts.PreStep != "" {
		cmd = exec.CommandContext(ctx, "sh", "-c", opts.PreStep+" | "+shellJoin(execPath, args))
	} else {
		cmd = exec.CommandContext(ctx, execPath, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		b.logger.Warn("op invocation failed to launch", "path", execPath, "error", err)
		return RawResult{Stderr: err.Error(), ExitCode: -1, Failed: true}
	}
	if opts.Handle != nil {
		opts.Handle.set(cmd.Process)
	}

	err := cmd.Wait()
	b.logger.Debug("op invocation finished", "path", execPath, "exit", cmd.ProcessState.ExitCode())

	if err != nil {
		return RawResult{
			Stderr:   stderr.String(),
			ExitCode: cmd.ProcessState.ExitCode(),
			Failed:   true,
		}
	}
	return RawResult{Text: strings.TrimRight(stdout.String(), "\n")}
}

// shellJoin renders an argv as a single shell command word sequence
// with every element single-quote escaped.
func shellJoin(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(execPath))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote wraps s in single quotes, escaping embedded single quotes
// so externally supplied values cannot break out of the command.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
