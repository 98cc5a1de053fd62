// Package cmd implements the goblog command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/view"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrReported means the failure was already shown to the user.
var ErrReported = errors.New("command failed")

// Client is what commands need from *goBlog.Client.
type Client interface {
	view.Blog
	MetricsSnapshot() goBlog.MetricsSnapshot
	AuditDropped() uint64
	Close() error
}

type options struct {
	configPath string
	server     string
	store      string
	logLevel   string
	logFormat  string
}

type app struct {
	opts options

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	newClient   func(cfg goBlog.Config, logger *slog.Logger) (Client, error)
	interactive func() bool
	prompter    Prompter

	cfg     goBlog.Config
	logger  *slog.Logger
	client  Client
	printer *view.Printer
	console *view.Console
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		in:        in,
		out:       out,
		errOut:    errOut,
		newClient: defaultClient,
		prompter:  huhPrompter{},
	}
	a.interactive = func() bool {
		f, ok := a.in.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
	return a
}

func defaultClient(cfg goBlog.Config, logger *slog.Logger) (Client, error) {
	b := goBlog.New().WithConfig(cfg).WithLogger(logger)
	var auditFile *os.File
	if cfg.Audit.Enabled {
		b.WithAuditSink(goBlog.NewSlogSink(logger))
		if cfg.Audit.File != "" {
			f, err := os.OpenFile(cfg.Audit.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				return nil, fmt.Errorf("open audit file: %w", err)
			}
			auditFile = f
			b.WithAuditSink(goBlog.NewJSONWriterSink(f))
		}
	}
	c, err := b.Build()
	if err != nil {
		if auditFile != nil {
			_ = auditFile.Close()
		}
		return nil, err
	}
	if auditFile != nil {
		return auditFileClient{Client: c, file: auditFile}, nil
	}
	return c, nil
}

// auditFileClient closes the audit log after the client has drained into it.
type auditFileClient struct {
	Client
	file *os.File
}

func (c auditFileClient) Close() error {
	return errors.Join(c.Client.Close(), c.file.Close())
}

// ExecuteContext runs the CLI against the process streams.
func ExecuteContext(ctx context.Context) error {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	defer a.close()
	return a.rootCmd().ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goblog",
		Short: "Read and write posts on a goBlog server",
		Long: `goblog is a terminal client for the blog API.

Reading posts needs no account. Creating, editing and deleting posts
requires logging in; the session is kept in the configured session store
and checked against the server before each command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default: ~/.config/goblog/config.yaml then ./goblog.yaml)")
	flags.StringVar(&a.opts.server, "server", "", "blog API base URL")
	flags.StringVar(&a.opts.store, "store", "", "session store backend: file, redis or memory")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.opts.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		a.postsCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.metricsCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads configuration and builds the logger and printer. The client
// itself is built on first use.
func (a *app) setup() error {
	paths := goBlog.DefaultConfigPaths()
	if a.opts.configPath != "" {
		if _, err := os.Stat(a.opts.configPath); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		paths = []string{a.opts.configPath}
	}

	cfg, err := goBlog.LoadConfig(nil, paths...)
	if err != nil {
		return err
	}

	if a.opts.server != "" {
		cfg.API.BaseURL = a.opts.server
	}
	if a.opts.store != "" {
		cfg.Session.Backend = goBlog.SessionBackend(a.opts.store)
	}
	if a.opts.logLevel != "" {
		cfg.Log.Level = a.opts.logLevel
	}
	if a.opts.logFormat != "" {
		cfg.Log.Format = a.opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(cfg.Log, a.errOut)
	a.printer = view.NewPrinter(a.out)
	a.console = view.NewConsole(a.printer)
	return nil
}

func (a *app) blog() (Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := a.newClient(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *app) screens() (*view.Screens, error) {
	c, err := a.blog()
	if err != nil {
		return nil, err
	}
	return &view.Screens{Blog: c, Notifier: a.console, Nav: a.console}, nil
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
		a.client = nil
	}
}

func newLogger(cfg goBlog.LogConfig, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
