package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mitindbo/indbo/internal/auth"
	"github.com/mitindbo/indbo/internal/client"
	"github.com/mitindbo/indbo/internal/config"
	"github.com/mitindbo/indbo/internal/inventory"
	"github.com/mitindbo/indbo/internal/session"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string, verbose bool) (func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// app wires the configuration, the local session store, the identity provider
// and the API client together for one command invocation.
type app struct {
	cfg      *config.Config
	store    *session.Store
	provider *auth.Provider
	api      *client.Client
	closeLog func()
}

// newApp reads the config and opens the session store. The caller must defer
// a.Close().
func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.ReadFromFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("ingen konfiguration fundet. Kør 'indbo config init' først")
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	closeLog, err := setupLogger(cfg.LogPath, verbose)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(cfg.DatabasePath(), cfg.KeyPath())
	if err != nil {
		if closeLog != nil {
			closeLog()
		}
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	provider := auth.New(
		auth.EndpointsForDomain(cfg.Auth.Domain),
		cfg.Auth.ClientID,
		cfg.Auth.Audience,
		cfg.Auth.RedirectURL,
		store,
	)

	a := &app{
		cfg:      cfg,
		store:    store,
		provider: provider,
		api:      client.New(cfg.APIURL, provider),
		closeLog: closeLog,
	}

	// A logout completed on a previous run leaves a marker; show the
	// confirmation once.
	if done, err := store.TakePendingLogout(cmd.Context()); err == nil && done {
		fmt.Println("Du er nu logget ud.")
	}

	return a, nil
}

func (a *app) Close() {
	a.store.Close()
	if a.closeLog != nil {
		a.closeLog()
	}
}

// controller builds a list controller over the API client and performs the
// initial load. The filter must be in place before the load so ShowArchived
// reaches the backend as include_archived.
func (a *app) controller(ctx context.Context, f inventory.Filter) (*inventory.Controller, error) {
	c := inventory.New(a.api, a.cfg.PageSize)
	c.SetFilter(f)
	if err := c.Reload(ctx); err != nil {
		return nil, fmt.Errorf("kunne ikke hente indbo: %w", err)
	}
	return c, nil
}

// stdin is the prompt input, replaceable in tests.
var stdin io.Reader = os.Stdin

// confirm prompts on stdin and accepts j/ja/y/yes.
func confirm(prompt string) bool {
	fmt.Printf("%s [j/N]: ", prompt)
	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "j", "ja", "y", "yes":
		return true
	}
	return false
}

// openBrowser launches the system browser for the login flow.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// userError translates known failures to the message shown to the user.
func userError(err error) string {
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return "Du er ikke logget ind. Kør 'indbo login' først."
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

var rootCmd = &cobra.Command{
	Use:           "indbo",
	Short:         "Hold styr på dit indbo",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: user config dir)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userError(err))
		os.Exit(1)
	}
}
