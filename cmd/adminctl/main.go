// adminctl is the terminal admin tool for the equipment lending backend.
// Every destructive or sensitive mutation is gated behind a password
// re-verification flow.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"equiplend/adminctl/internal/audit"
	"equiplend/adminctl/internal/client"
	"equiplend/adminctl/internal/config"
	"equiplend/adminctl/internal/notify"
	"equiplend/adminctl/internal/session"
	"equiplend/adminctl/internal/telemetry/otel"
	"equiplend/adminctl/internal/verify"
)

var progName = filepath.Base(os.Args[0])

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "login":
		run(runLogin, os.Args[2:])
	case "users":
		run(runUsers, os.Args[2:])
	case "branches":
		run(runBranches, os.Args[2:])
	case "categories":
		run(runCategories, os.Args[2:])
	case "audit":
		run(runAudit, os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [options]

Commands:
  login                      Log in and store the session
  users list                 List users
  users create               Create a user (password-verified)
  users update               Update a user (password-verified)
  users delete               Delete a user (password-verified)
  branches list              List branches
  branches delete            Delete a branch (password-verified)
  categories list            List equipment categories
  categories delete          Delete a category (password-verified)
  audit                      Show the local audit trail
  help                       Show this help
`, progName)
}

// app bundles the wired collaborators for one command invocation.
type app struct {
	cfg      *config.Config
	store    session.Store
	api      *client.Client
	gateway  verify.Gateway
	notifier notify.Notifier
	auditor  *audit.SQLiteStore
}

// run loads config, sets up logging and tracing, builds the app, and
// executes the command with a signal-cancelled context.
func run(cmd func(ctx context.Context, a *app, args []string) error, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "equiplend-adminctl", cfg.OTLPInsecure)
	if err != nil {
		slog.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	if err := os.MkdirAll(filepath.Dir(cfg.AuditDBPath), 0o700); err != nil {
		slog.Error("cannot create state directory", "error", err)
		os.Exit(1)
	}
	auditor, err := audit.OpenSQLite(cfg.AuditDBPath)
	if err != nil {
		slog.Error("cannot open audit trail", "error", err)
		os.Exit(1)
	}
	defer auditor.Close()

	store := session.NewFileStore(cfg.SessionFile)
	a := &app{
		cfg:      cfg,
		store:    store,
		api:      client.New(cfg.APIBaseURL, store, cfg.Timeout()),
		gateway:  verify.NewHTTPGateway(cfg.APIBaseURL, store, cfg.Timeout()),
		notifier: notify.NewLogNotifier(nil),
		auditor:  auditor,
	}

	if err := cmd(ctx, a, args); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	level := parseLogLevel(cfg.LogLevel)
	var handler slog.Handler
	switch cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username (prompted when omitted)")
	_ = fs.Parse(args)

	name := *username
	if name == "" {
		var err error
		name, err = promptLine("Username: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	token, err := a.api.Login(ctx, name, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.SessionFile), 0o700); err != nil {
		return err
	}
	if err := session.Write(a.cfg.SessionFile, token, "", ""); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	slog.Info("logged in", "user", name)
	return nil
}

func runAudit(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	limit := fs.Int("n", 50, "number of entries to show")
	_ = fs.Parse(args)

	entries, err := a.auditor.List(ctx, *limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-10s  %-15s  %-20s  %s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Outcome, e.Action, e.Summary, e.Message)
	}
	return nil
}
