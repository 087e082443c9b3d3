package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/vk/nsreg/internal/app"
	"github.com/vk/nsreg/internal/output"
)

const name = "nsreg"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Parse processes command-line arguments (without the program name). It
// returns a populated Config, a boolean indicating if the program should
// exit cleanly, or an ExitError.
func Parse(ctx context.Context, args []string, outW io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var config *app.Config
	cmd := command(outW, func(cfg *app.Config) { config = cfg })

	if err := cmd.Run(ctx, append([]string{name}, args...)); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			return nil, false, exitErr
		}
		return nil, false, usageError(err)
	}

	if config == nil {
		// Help was shown or there was nothing to do.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func command(outW io.Writer, done func(*app.Config)) *cli.Command {
	defaults := app.DefaultConfig()

	return &cli.Command{
		Name:      name,
		Usage:     "Load modules into a namespace registry and evaluate expressions against it",
		ArgsUsage: "[EXPR...]",
		Description: `nsreg loads Go builtin modules (math, increment, strings, env) and the
HCL module files given with --modules into a shared registry, then
evaluates each EXPR and prints the result. With --serve it also exposes
a read-only HTTP view of the registry.

Example:
  nsreg -m ./modules 'call("increment", "increment", 41)'`,
		Writer:          outW,
		ErrWriter:       outW,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "modules",
				Aliases: []string{"m"},
				Usage:   "HCL module file or directory to load (repeatable)",
				Sources: cli.EnvVars("NSREG_MODULES"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("NSREG_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   defaults.LogLevel,
				Usage:   "Set the logging level (debug, info, warn, error)",
				Sources: cli.EnvVars("NSREG_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   defaults.LogFormat,
				Usage:   "Log output format (text, json)",
				Sources: cli.EnvVars("NSREG_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   defaults.OutputFormat,
				Usage:   fmt.Sprintf("Result format (supported values: %s)", strings.Join(output.SupportedFormats(), ", ")),
				Sources: cli.EnvVars("NSREG_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "serve",
				Usage:   "Address for the inspection HTTP server, e.g. :8080. Empty disables it",
				Sources: cli.EnvVars("NSREG_SERVE"),
			},
			&cli.FloatFlag{
				Name:    "rate-limit",
				Usage:   "Inspection server requests per second. 0 disables rate limiting",
				Sources: cli.EnvVars("NSREG_RATE_LIMIT"),
			},
			&cli.IntFlag{
				Name:    "rate-burst",
				Value:   defaults.RateBurst,
				Usage:   "Inspection server burst size",
				Sources: cli.EnvVars("NSREG_RATE_BURST"),
			},
			&cli.DurationFlag{
				Name:    "shutdown-timeout",
				Value:   defaults.ShutdownTimeout,
				Usage:   "Grace period for in-flight requests on shutdown",
				Sources: cli.EnvVars("NSREG_SHUTDOWN_TIMEOUT"),
			},
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return usageError(err)
		},
		// Exit codes are handled by the caller.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}

			if len(cfg.Expressions) == 0 && cfg.ServeAddr == "" {
				slog.Debug("Nothing to evaluate or serve, printing usage and exiting.")
				return cli.ShowAppHelp(cmd)
			}

			config, err := app.NewConfig(*cfg)
			if err != nil {
				return usageError(err)
			}
			done(config)
			return nil
		},
	}
}

// configFromCommand applies, in increasing precedence, the defaults, the
// config file and every flag or environment variable that was set.
func configFromCommand(cmd *cli.Command) (*app.Config, error) {
	cfg := app.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		if err := app.LoadConfigFile(path, &cfg); err != nil {
			return nil, usageError(err)
		}
		slog.Debug("Config file loaded.", "path", path)
	}

	if cmd.IsSet("modules") {
		cfg.ModulePaths = cmd.StringSlice("modules")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.LogFormat = cmd.String("log-format")
	}
	if cmd.IsSet("output") {
		cfg.OutputFormat = cmd.String("output")
	}
	if cmd.IsSet("serve") {
		cfg.ServeAddr = cmd.String("serve")
	}
	if cmd.IsSet("rate-limit") {
		cfg.RateLimit = cmd.Float("rate-limit")
	}
	if cmd.IsSet("rate-burst") {
		cfg.RateBurst = cmd.Int("rate-burst")
	}
	if cmd.IsSet("shutdown-timeout") {
		cfg.ShutdownTimeout = cmd.Duration("shutdown-timeout")
	}
	if cmd.Args().Present() {
		cfg.Expressions = cmd.Args().Slice()
	}

	return &cfg, nil
}
