package cmd

import (
	"os"

	"github.com/sahib/config"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/sahib/cowdisk/defaults"
)

// ExitCode is an error that maps the error interface to a specific error
// message and a unix exit code
type ExitCode struct {
	Code    int
	Message string
}

func (err ExitCode) Error() string {
	return err.Message
}

type checkFunc func(ctx *cli.Context) int

func withArgCheck(checker checkFunc, handler cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if checker(ctx) != Success {
			os.Exit(BadArgs)
		}

		return handler(ctx)
	}
}

func needAtLeast(min int) checkFunc {
	return func(ctx *cli.Context) int {
		if ctx.NArg() < min {
			if min == 1 {
				log.Warningf("Need at least %d argument.", min)
			} else {
				log.Warningf("Need at least %d arguments.", min)
			}

			if err := cli.ShowCommandHelp(ctx, ctx.Command.Name); err != nil {
				log.Warningf("Failed to display --help: %v", err)
			}

			return BadArgs
		}

		return Success
	}
}

// loadConfig loads the config from the global --config flag
// or falls back to the built-in defaults.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.GlobalString("config")

	cfg := defaults.Empty()
	if path != "" {
		var err error
		cfg, err = defaults.OpenMigratedConfig(path)
		if err != nil {
			return nil, err
		}
	}

	// The --log-level flag wins over the config.
	if ctx.GlobalString("log-level") == "" {
		setLogLevel(cfg.String("log.level"))
	}

	return cfg, nil
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warningf("bad log level `%s`; continuing with `info`", level)
		log.SetLevel(log.InfoLevel)
	}
}
