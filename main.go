package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/scriptogre/op-client/internal"
	"github.com/scriptogre/op-client/onepassword"
)

// Build information set by GoReleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:        "op-client",
		Usage:       "Typed client for the 1Password op CLI",
		Description: "Sign in to a 1Password account and browse vaults, users, templates and items. Manages the op executable and session lifetime for you.",
		Version:     version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "install-dir",
				Aliases: []string{"d"},
				Usage:   "Directory the op executable is installed to",
				Value:   "bin/op",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log subprocess and cache activity to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:        "signin",
				Usage:       "Authenticate and store a session",
				Description: "Exchange account credentials for a 29-minute session token. The master password is read from the terminal and piped to op without touching argv.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "domain", Usage: "Account domain (e.g. my.1password.com)"},
					&cli.StringFlag{Name: "email", Usage: "Account email"},
				},
				Action: signinAction,
			},
			{
				Name:   "account",
				Usage:  "Show the signed-in account",
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					return client.GetAccount(ctx, session)
				}),
			},
			{
				Name:   "users",
				Usage:  "List account members",
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					return client.GetUsers(ctx, session)
				}),
			},
			{
				Name:      "user",
				Usage:     "Show one member",
				ArgsUsage: "<uuid-or-email>",
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					if cmd.NArg() < 1 {
						return nil, fmt.Errorf("usage: op-client user <uuid-or-email>")
					}
					return client.GetUser(ctx, session, cmd.Args().Get(0))
				}),
			},
			{
				Name:   "templates",
				Usage:  "List item templates",
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					return client.GetTemplates(ctx, session)
				}),
			},
			{
				Name:   "vaults",
				Usage:  "List vaults",
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					return client.GetVaults(ctx, session)
				}),
			},
			{
				Name:      "vault",
				Usage:     "Show one vault",
				ArgsUsage: "<uuid>",
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					if cmd.NArg() < 1 {
						return nil, fmt.Errorf("usage: op-client vault <uuid>")
					}
					return client.GetVault(ctx, session, cmd.Args().Get(0))
				}),
			},
			{
				Name:  "items",
				Usage: "List items",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "vault",
						Aliases: []string{"v"},
						Usage:   "Scope the listing to one vault (name)",
					},
					&cli.StringFlag{
						Name:    "template",
						Aliases: []string{"t"},
						Usage:   "Keep only items of one template (uuid)",
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Fuzzy text query over item fields",
					},
				},
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					options := onepassword.ItemsOptions{Query: cmd.String("query")}
					if name := cmd.String("vault"); name != "" {
						options.Vault = &onepassword.Vault{Name: name}
					}
					if id := cmd.String("template"); id != "" {
						options.Template = &onepassword.Template{UUID: id}
					}
					return client.GetItems(ctx, session, options)
				}),
			},
			{
				Name:      "item",
				Usage:     "Show one item",
				ArgsUsage: "<uuid>",
				Action: sessionAction(func(ctx context.Context, client *onepassword.Client, session *onepassword.Session, cmd *cli.Command) (any, error) {
					if cmd.NArg() < 1 {
						return nil, fmt.Errorf("usage: op-client item <uuid>")
					}
					return client.GetItem(ctx, session, cmd.Args().Get(0))
				}),
			},
			{
				Name:  "signout",
				Usage: "Discard the stored session",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return internal.ClearSession()
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		internal.ShowError(err)
		os.Exit(1)
	}
}

func buildClient(cmd *cli.Command, installDir string) *onepassword.Client {
	logger := slog.New(slog.DiscardHandler)
	if cmd.Bool("verbose") {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return onepassword.NewClient(onepassword.ClientConfig{
		InstallDir: installDir,
		Logger:     logger,
	})
}

func signinAction(ctx context.Context, cmd *cli.Command) error {
	config, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	domain := cmd.String("domain")
	if domain == "" {
		if domain, err = internal.PromptLine("Domain"); err != nil {
			return err
		}
	}

	account := config.GetAccount(domain)

	email := cmd.String("email")
	if email == "" {
		email = account.Email
	}
	if email == "" {
		if email, err = internal.PromptLine("Email"); err != nil {
			return err
		}
	}

	secretKey, err := internal.PromptLine("Secret key")
	if err != nil {
		return err
	}
	masterPassword, err := internal.PromptPassword("Master password")
	if err != nil {
		return err
	}

	installDir := cmd.String("install-dir")
	if account.InstallDir != "" && !cmd.IsSet("install-dir") {
		installDir = account.InstallDir
	}

	client := buildClient(cmd, installDir)
	session, err := client.Signin(ctx, onepassword.Credentials{
		Domain:         domain,
		Email:          email,
		SecretKey:      secretKey,
		MasterPassword: masterPassword,
	})
	if err != nil {
		return err
	}

	if err := internal.SaveSession(session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	// Remember the non-secret defaults for the next signin.
	account.Email = email
	account.InstallDir = installDir
	config.SetAccount(domain, account)
	config.Save() // Ignore error - not critical

	fmt.Printf("Signed in as %s. Session valid until %s.\n",
		internal.Bold(email), session.ExpiresAt.Format("15:04:05"))
	return nil
}

// sessionAction wraps a privileged query: load the stored session,
// build the client, run the query, print the result as JSON.
func sessionAction(run func(context.Context, *onepassword.Client, *onepassword.Session, *cli.Command) (any, error)) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		session, err := internal.LoadSession()
		if err != nil {
			return err
		}
		client := buildClient(cmd, session.InstallDir)
		result, err := run(ctx, client, session, cmd)
		if err != nil {
			return err
		}
		return printJSON(result)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
