package cmd

import (
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/libris/internal/auth"
	"github.com/lepinkainen/libris/internal/circulation"
	"github.com/lepinkainen/libris/internal/config"
)

// CLI represents the complete command structure for the libris application
type CLI struct {
	// Global flags
	DataDir  string `help:"Directory holding books.csv, members.csv and loans.csv (default from data.dir)"`
	Verbose  bool   `short:"v" help:"Enable debug logging"`
	Password string `help:"Librarian password for librarian commands (default from auth.password)"`

	Menu   MenuCmd   `cmd:"" default:"1" help:"Run the interactive library console"`
	Book   BookCmd   `cmd:"" help:"Add, search and list books"`
	Member MemberCmd `cmd:"" help:"Register and list members"`
	Loan   LoanCmd   `cmd:"" help:"Issue and return books, list loans"`
	Import ImportCmd `cmd:"" help:"Import books from other sources"`
	Export ExportCmd `cmd:"" help:"Export the library data to SQLite, JSON or YAML"`
}

// App carries what every command needs. It is bound into kong so Run
// methods receive it.
type App struct {
	Service *circulation.Service
	Auth    *auth.Authenticator
	In      io.Reader
	Out     io.Writer

	password string
	verbose  bool
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("libris"),
		kong.Description("A small library management system backed by CSV files."),
		kong.UsageOnError(),
	)

	initLogging(logLevel(cli.Verbose))

	if err := initConfig(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	updateGlobalConfig(&cli)

	app, err := newApp(os.Stdin, os.Stdout, &cli)
	if err != nil {
		slog.Error("Failed to open library data", "error", err)
		os.Exit(1)
	}

	if err := ctx.Run(app); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() error {
	config.SetDefaults()

	viper.SetEnvPrefix("LIBRIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stdErrors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("Config file not found, using defaults")
	}

	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) {
	if cli.DataDir != "" {
		config.SetDataDir(cli.DataDir)
	}
}

// newApp opens the data directory and makes sure the librarian account exists.
func newApp(in io.Reader, out io.Writer, cli *CLI) (*App, error) {
	svc, err := circulation.Open(config.DataDir, circulation.Options{
		LoanDays:    config.LoanDays,
		LoanStartID: config.LoanStartID,
		SkipInvalid: config.SkipInvalidRows,
	})
	if err != nil {
		return nil, err
	}

	authn := auth.New(svc.Members, auth.Options{
		StartID:       config.MemberStartID,
		MaxAttempts:   config.MaxAttempts,
		AttemptWindow: config.AttemptWindow,
	})
	if _, err := authn.EnsureAdmin(config.AdminPassword); err != nil {
		return nil, err
	}

	return &App{
		Service:  svc,
		Auth:     authn,
		In:       in,
		Out:      out,
		password: cli.Password,
		verbose:  cli.Verbose,
	}, nil
}

// requireLibrarian logs in the librarian with --password or auth.password.
func (a *App) requireLibrarian() (*auth.Session, error) {
	password := a.password
	if password == "" {
		password = viper.GetString("auth.password")
	}
	if password == "" {
		return nil, fmt.Errorf("librarian password is required (provide via --password flag or auth.password in config)")
	}
	return a.Auth.LoginLibrarian(password)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func initLogging(level slog.Level) {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
