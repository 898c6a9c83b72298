// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

// studioctl is the terminal admin console for the Fathomline content
// API: blogs, portfolio projects, admin accounts, and contact
// messages, browsed and edited from an interactive TUI.
//
// Run without a subcommand to open the console. The subcommands
// login, logout, and whoami manage the saved session from scripts or
// a plain shell:
//
//	studioctl login nadia@fathomline.dev
//	studioctl whoami
//	studioctl
//
// The session file lives at ~/.config/studioctl/session.json (or
// $STUDIOCTL_SESSION_FILE / $XDG_CONFIG_HOME), written with mode 0600
// since it contains an access token.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fathomline/studioctl/lib/adminui"
	"github.com/fathomline/studioctl/lib/config"
	"github.com/fathomline/studioctl/lib/session"
	"github.com/fathomline/studioctl/lib/studio"
	"github.com/fathomline/studioctl/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like whoami) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var apiURL string
	var pageSize int
	var passwordFile string
	var logOutput string

	flagSet := pflag.NewFlagSet("studioctl", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: ~/.config/studioctl/config.jsonc)")
	flagSet.StringVar(&apiURL, "api", "", "content API base URL (overrides the config file)")
	flagSet.IntVar(&pageSize, "page-size", 0, "rows per page on paginated screens (overrides the config file)")
	flagSet.StringVar(&passwordFile, "password-file", "", "path to file containing the login password, or - to prompt (default: prompt)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing so it works regardless of
	// other arguments.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("studioctl")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	cfg, err := loadConfig(configPath, apiURL, pageSize)
	if err != nil {
		return err
	}

	logger, loggerCleanup, err := newLogger(logOutput)
	if err != nil {
		return err
	}
	defer loggerCleanup()

	client, err := studio.NewClient(studio.ClientConfig{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
		Logger:     logger,
	})
	if err != nil {
		return Validation("create API client: %w", err)
	}
	store, err := session.NewStore(session.Config{Client: client, Logger: logger})
	if err != nil {
		return Internal("create session store: %w", err)
	}

	args := flagSet.Args()
	if len(args) == 0 {
		return runConsole(store, client, cfg, logger)
	}
	switch args[0] {
	case "login":
		return runLogin(store, args[1:], passwordFile)
	case "logout":
		return runLogout(store)
	case "whoami":
		return runWhoami(store)
	default:
		return Validation("unknown command: %s", args[0]).
			WithHint("Available commands: login, logout, whoami. Run studioctl with no arguments to open the console.")
	}
}

// loadConfig reads the config file and applies flag overrides. The API
// URL must come from one of the two.
func loadConfig(configPath, apiURL string, pageSize int) (*config.Config, error) {
	path := configPath
	if path == "" {
		resolved, err := config.Path()
		if err != nil {
			return nil, Internal("resolve config path: %w", err)
		}
		path = resolved
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, Validation("%w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if pageSize > 0 {
		cfg.PageSize = pageSize
	}
	if cfg.APIBaseURL == "" {
		return nil, Validation("no API base URL configured").
			WithHint("Pass --api https://api.example.com or set api_url in " + path + ".")
	}
	return cfg, nil
}

// newLogger builds the process logger. The console runs on the alt
// screen, so interactive mode must not write log records to the
// terminal: without --log-output, records are discarded.
func newLogger(logOutput string) (*slog.Logger, func(), error) {
	if logOutput == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.Create(logOutput)
	if err != nil {
		return nil, nil, Validation("cannot open log file %s: %w", logOutput, err)
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), func() { file.Close() }, nil
}

func runConsole(store *session.Store, client *studio.Client, cfg *config.Config, logger *slog.Logger) error {
	model, err := adminui.NewModel(adminui.Config{
		Client:   client,
		Store:    store,
		Logger:   logger,
		PageSize: cfg.PageSize,
	})
	if err != nil {
		return Internal("create console: %w", err)
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = program.Run()
	return err
}

func runLogin(store *session.Store, args []string, passwordFile string) error {
	if len(args) < 1 {
		return Validation("email is required\n\nUsage: studioctl login <email> [flags]")
	}
	email := args[0]
	if len(args) > 1 {
		return Validation("unexpected argument: %s", args[1])
	}

	password, err := readLoginPassword(passwordFile)
	if err != nil {
		return err
	}

	user, err := store.Login(context.Background(), email, password)
	if err != nil {
		if studio.IsUnauthorized(err) {
			return Auth("login failed: %w", err)
		}
		return Transient("login failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", user.Email, user.Role)
	if path, pathErr := session.FilePath(); pathErr == nil {
		fmt.Fprintf(os.Stderr, "Session saved to %s\n", path)
	}
	return nil
}

func runLogout(store *session.Store) error {
	store.Logout()
	fmt.Fprintln(os.Stderr, "Logged out")
	return nil
}

func runWhoami(store *session.Store) error {
	status, err := store.Initialize(context.Background())
	if err != nil {
		return Transient("verify session: %w", err)
	}
	if status != session.StatusAuthenticated {
		fmt.Fprintln(os.Stderr, "Not logged in")
		return &ExitError{Code: 1}
	}
	user := store.User()
	fmt.Printf("%s (%s)\n", user.Email, user.Role)
	return nil
}

// readLoginPassword reads the password for the login command. With no
// --password-file (or "-"), prompts on the terminal with echo
// disabled; otherwise reads the file, stripping trailing newlines.
func readLoginPassword(passwordFile string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", Validation("reading %s: %w", passwordFile, err)
		}
		for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
			data = data[:len(data)-1]
		}
		if len(data) == 0 {
			return "", Validation("file %s is empty (after stripping trailing newlines)", passwordFile)
		}
		return string(data), nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", Validation("no terminal available for interactive password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", Internal("reading password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return "", Validation("password is empty")
	}
	return string(passwordBytes), nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Fathomline admin console — manage blogs, portfolio projects, admin
accounts, and contact messages from the terminal.

Run with no arguments to open the interactive console. The console
restores the saved session automatically; if there is none, it shows
the login screen.

Usage:
  studioctl [flags]
  studioctl <command> [flags]

Commands:
  login <email>   Authenticate and save the session
  logout          Discard the saved session
  whoami          Print the logged-in identity (exit 1 when logged out)

Examples:
  # Open the console
  studioctl

  # Log in against a non-default backend
  studioctl login nadia@fathomline.dev --api https://api.fathomline.dev

  # Scripted login
  studioctl login nadia@fathomline.dev --password-file /run/secrets/admin-password

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
