package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/textsnap/internal/commands"
	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/internal/core/history"
	"github.com/hay-kot/textsnap/internal/core/recognize"
	"github.com/hay-kot/textsnap/internal/printer"
	"github.com/hay-kot/textsnap/internal/prompt"
	"github.com/hay-kot/textsnap/internal/store/jsonfile"
	"github.com/hay-kot/textsnap/pkg/executil"
	"github.com/hay-kot/textsnap/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", "", nil); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	var deferredLogs *utils.DeferredWriter

	app := &cli.Command{
		Name:      "textsnap",
		Usage:     "Recognize text in photos and images",
		UsageText: "textsnap [global options] command [command options]",
		Description: `textsnap turns a photo, a camera frame or an image file into text and keeps
the most recent results on this device.

Run 'textsnap' with no arguments to open the interactive result and history view.
Run 'textsnap scan file <image>' to recognize a single image from the shell.`,
		Version: build(),
		// Exit codes are handled below so deferred logs are flushed first.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TEXTSNAP_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("TEXTSNAP_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TEXTSNAP_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TEXTSNAP_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Detect TUI mode: no subcommand means TUI (default action)
			isTUI := len(c.Args().Slice()) == 0

			// In TUI mode, buffer logs to display after exit
			var deferred io.Writer
			if isTUI {
				deferredLogs = &utils.DeferredWriter{}
				deferred = deferredLogs
			}

			if err := setupLogger(flags.LogLevel, flags.LogFile, deferred); err != nil {
				return ctx, err
			}

			dataDir, err := filepath.Abs(flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("resolve data dir: %w", err)
			}
			flags.DataDir = dataDir

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				// config validate reports load errors itself
				if c.Args().First() == "config" {
					flags.ConfigErr = err
					return ctx, nil
				}
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			return ctx, wire(ctx, flags)
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)

	app = commands.NewScanCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewPermissionsCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'textsnap --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) && err.Error() == "" {
			// already reported by the command
			exitCode = exitErr.ExitCode()
		} else {
			fmt.Println()
			printer.Ctx(ctx).FatalError(err)
			exitCode = 1
		}
	}

	// Flush deferred logs to console after TUI exits
	if deferredLogs != nil {
		if err := deferredLogs.Flush(zerolog.ConsoleWriter{Out: os.Stderr}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}

	os.Exit(exitCode)
}

// wire builds the services shared by all commands.
func wire(ctx context.Context, flags *commands.Flags) error {
	var (
		cfg   = flags.Config
		store = jsonfile.NewKVStore(cfg.StorageFile())
		exec  = &executil.RealExecutor{}
		ask   = prompt.New()
	)

	hist := history.NewStore(store, history.Options{
		Key:      cfg.History.Key,
		MaxItems: cfg.History.MaxItems,
		Logger:   log.With().Str("component", "history").Logger(),
	})
	hist.Load(ctx)

	rec, err := recognize.New(cfg.Recognizer, exec, log.With().Str("component", "recognizer").Logger())
	if err != nil {
		return fmt.Errorf("create recognizer: %w", err)
	}

	flags.Store = store
	flags.History = hist
	flags.Prompter = ask
	flags.Exec = exec
	flags.Logger = log.With().Str("component", "capture").Logger()
	flags.Permissions = capture.NewPermissions(store, ask, log.With().Str("component", "permissions").Logger())
	flags.Pipeline = capture.NewPipeline(rec, hist, log.With().Str("component", "pipeline").Logger())

	return nil
}

func setupLogger(level string, logFile string, deferred io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		// Create log directory if it doesn't exist
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		// Open log file
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		if deferred != nil {
			// TUI mode with explicit log file - write to both file and deferred buffer
			output = io.MultiWriter(file, deferred)
		} else {
			// Write to both console and file
			output = io.MultiWriter(
				zerolog.ConsoleWriter{Out: os.Stderr},
				file,
			)
		}
	} else if deferred != nil {
		// TUI mode without log file - buffer for display after exit
		output = deferred
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
