// Package onepassword is a typed client for the 1Password op CLI. It
// manages the executable (locate, download), exchanges credentials for
// short-lived sessions, and exposes the tool's account, user, vault,
// template and item queries as memoized, normalized Go APIs.
package onepassword

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ClientConfig configures a Client. Zero fields take the documented
// defaults; the struct is copied at construction and never mutated.
type ClientConfig struct {
	// InstallDir is where the op executable lives (or gets installed
	// to) for signin calls made before any session exists. Privileged
	// calls default to the session's own install dir.
	InstallDir string
	// CacheTTL is the memoization window for successful query
	// results. Defaults to 6.5 seconds.
	CacheTTL time.Duration
	// Timeout bounds each subprocess invocation. Zero means no bound:
	// the op CLI can legitimately block on network-dependent calls.
	Timeout time.Duration
	// Installer resolves and acquires the executable. Defaults to a
	// ReleaseInstaller pinned to CLIVersion for the current platform.
	Installer Installer
	// Logger receives structured diagnostics. Secrets are never
	// logged. Defaults to a discard logger.
	Logger *slog.Logger
	// Clock overrides the time source, for tests. Defaults to
	// time.Now.
	Clock func() time.Time
}

// Client is the typed facade over the op CLI: it signs in, fetches
// vaults, users, templates and items, memoizes results, and normalizes
// the tool's JSON into stable shapes. Methods are safe for concurrent
// use.
type Client struct {
	installDir string
	timeout    time.Duration
	installer  Installer
	logger     *slog.Logger
	now        func() time.Time
	broker     invoker
	cache      *queryCache
}

// NewClient builds a Client from cfg, applying defaults for every zero
// field.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Installer == nil {
		cfg.Installer = NewReleaseInstaller(CLIVersion, runtime.GOOS)
	}
	return &Client{
		installDir: cfg.InstallDir,
		timeout:    cfg.Timeout,
		installer:  cfg.Installer,
		logger:     cfg.Logger,
		now:        cfg.Clock,
		broker:     NewBroker(cfg.Logger),
		cache:      newQueryCache(cfg.CacheTTL, cfg.Clock),
	}
}

// Signin exchanges credentials for a session token. The master
// password is piped to the tool through a shell pre-step so it never
// appears in argv. The session is valid for 29 minutes; the client
// never renews it.
func (c *Client) Signin(ctx context.Context, creds Credentials) (*Session, error) {
	preStep := "printf '%s\\n' " + shellQuote(creds.MasterPassword)
	payload, err := c.runQuery(ctx, "signin",
		[]string{creds.Domain, creds.Email, creds.SecretKey, "--output=raw"},
		queryOptions{raw: true, preStep: preStep, installDir: c.installDir})
	if err != nil {
		return nil, err
	}
	c.logger.Info("signed in", "domain", creds.Domain, "email", creds.Email)
	return &Session{
		Token:      string(payload),
		Email:      creds.Email,
		ExpiresAt:  c.now().Add(sessionWindow),
		InstallDir: c.installDir,
	}, nil
}

// GetAccount fetches the account the session belongs to.
func (c *Client) GetAccount(ctx context.Context, session *Session) (Account, error) {
	return fetchCached(c.cache, cacheKey("get account", session.Token), func() (Account, error) {
		raw, err := query[rawAccount](c, ctx, "get account", nil, queryOptions{session: session})
		if err != nil {
			return Account{}, err
		}
		return normalizeAccount(raw), nil
	})
}

// GetUsers lists the account's members.
func (c *Client) GetUsers(ctx context.Context, session *Session) ([]User, error) {
	return fetchCached(c.cache, cacheKey("list users", session.Token), func() ([]User, error) {
		raws, err := query[[]rawUser](c, ctx, "list users", nil, queryOptions{session: session})
		if err != nil {
			return nil, err
		}
		account, err := c.GetAccount(ctx, session)
		if err != nil {
			return nil, err
		}
		users := make([]User, len(raws))
		for i, raw := range raws {
			users[i] = normalizeUser(raw, account)
		}
		return users, nil
	})
}

// GetUser fetches one member by id (uuid or email).
func (c *Client) GetUser(ctx context.Context, session *Session, id string) (UserDetails, error) {
	return fetchCached(c.cache, cacheKey("get user", session.Token, id), func() (UserDetails, error) {
		raw, err := query[rawUser](c, ctx, "get user", []string{id}, queryOptions{session: session})
		if err != nil {
			return UserDetails{}, err
		}
		account, err := c.GetAccount(ctx, session)
		if err != nil {
			return UserDetails{}, err
		}
		return normalizeUserDetails(raw, account), nil
	})
}

// GetTemplates fetches the template catalog used to classify items.
func (c *Client) GetTemplates(ctx context.Context, session *Session) ([]Template, error) {
	return fetchCached(c.cache, cacheKey("list templates", session.Token), func() ([]Template, error) {
		return query[[]Template](c, ctx, "list templates", nil, queryOptions{session: session})
	})
}

// GetVaults lists the vaults visible to the session.
func (c *Client) GetVaults(ctx context.Context, session *Session) ([]Vault, error) {
	return fetchCached(c.cache, cacheKey("list vaults", session.Token), func() ([]Vault, error) {
		return query[[]Vault](c, ctx, "list vaults", nil, queryOptions{session: session})
	})
}

// GetVault fetches one vault with its description and resolved avatar.
func (c *Client) GetVault(ctx context.Context, session *Session, id string) (VaultDetails, error) {
	return fetchCached(c.cache, cacheKey("get vault", session.Token, id), func() (VaultDetails, error) {
		raw, err := query[rawVault](c, ctx, "get vault", []string{id}, queryOptions{session: session})
		if err != nil {
			return VaultDetails{}, err
		}
		return c.normalizeVault(ctx, session, raw)
	})
}

// GetItems lists items, optionally scoped to a vault, narrowed by a
// fuzzy text query over the raw records, and filtered by template.
func (c *Client) GetItems(ctx context.Context, session *Session, options ItemsOptions) ([]Item, error) {
	return fetchCached(c.cache, cacheKey("list items", session.Token, options.signature()), func() ([]Item, error) {
		raws, err := query[[]rawItem](c, ctx, "list items", nil,
			queryOptions{session: session, vault: options.Vault})
		if err != nil {
			return nil, err
		}
		if options.Query != "" {
			raws = searchItems(raws, options.Query, options.Search)
		}
		return c.normalizeItems(ctx, session, raws, options.Template)
	})
}

// GetItem fetches and normalizes a single item by id.
func (c *Client) GetItem(ctx context.Context, session *Session, id string) (Item, error) {
	return fetchCached(c.cache, cacheKey("get item", session.Token, id), func() (Item, error) {
		raw, err := query[rawItem](c, ctx, "get item", []string{id}, queryOptions{session: session})
		if err != nil {
			return nil, err
		}
		return c.normalizeItem(ctx, session, raw)
	})
}

// query runs the engine and decodes the JSON payload into T. Decode
// failures on a success-shaped payload are QueryErrors, never silently
// defaulted.
func query[T any](c *Client, ctx context.Context, verb string, args []string, opts queryOptions) (T, error) {
	var value T
	payload, err := c.runQuery(ctx, verb, args, opts)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		return value, &QueryError{Message: "decoding " + verb + " payload: " + err.Error()}
	}
	return value, nil
}

// signature renders the options as a stable cache-key fragment.
func (o ItemsOptions) signature() string {
	vault, template := "", ""
	if o.Vault != nil {
		vault = o.Vault.UUID + "/" + o.Vault.Name
	}
	if o.Template != nil {
		template = o.Template.UUID
	}
	return fmt.Sprintf("%s|%s|%s|%+v", vault, template, o.Query, o.Search)
}
