package onepassword

import (
	"context"
	"strings"
)

// invoker is the broker seam: anything that can turn an executable
// path plus argv into a raw result.
type invoker interface {
	Invoke(ctx context.Context, execPath string, args []string, opts InvokeOptions) RawResult
}

// Installer resolves the op executable on disk. The concrete
// implementation (download, unzip, chmod) lives in ReleaseInstaller;
// the query engine only needs these two capabilities.
type Installer interface {
	// EnsureExecutable returns the executable path under dir,
	// acquiring the binary first when it is missing.
	EnsureExecutable(ctx context.Context, dir string) (string, error)
	// IsInstalled reports whether the executable already exists
	// under dir.
	IsInstalled(dir string) bool
}

// queryOptions parameterizes one pass through the query engine.
type queryOptions struct {
	// session, when set, gates the call on validity and appends
	// --session=<token>.
	session *Session
	// vault, when set, appends --vault=<name>.
	vault *Vault
	// raw skips JSON validation and returns the payload verbatim.
	raw bool
	// preStep is forwarded to the broker's stdin pipeline.
	preStep string
	// installDir overrides the session's install dir.
	installDir string
	// handle receives the spawned process, for external termination.
	handle *Handle
}

// runQuery is the single choke point every domain operation flows
// through: it gates on session validity, resolves the executable,
// delegates to the broker, and classifies the outcome.
func (c *Client) runQuery(ctx context.Context, verb string, args []string, opts queryOptions) ([]byte, error) {
	argv := append(strings.Fields(verb), args...)

	if opts.session != nil {
		if !opts.session.ValidAt(c.now()) {
			return nil, &SessionError{Message: "session expired"}
		}
		argv = append(argv, "--session="+opts.session.Token)
	}
	if opts.vault != nil {
		argv = append(argv, "--vault="+opts.vault.Name)
	}

	dir := opts.installDir
	if dir == "" && opts.session != nil {
		dir = opts.session.InstallDir
	}
	execPath, err := c.installer.EnsureExecutable(ctx, dir)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("running op query", "verb", verb)
	result := c.broker.Invoke(ctx, execPath, argv, InvokeOptions{PreStep: opts.preStep, Handle: opts.handle})
	payload, err := classify(result, opts.raw)
	if err != nil {
		c.logger.Warn("op query failed", "verb", verb, "error", err)
		return nil, err
	}
	return payload, nil
}
