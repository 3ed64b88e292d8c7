// Package cmd implements the cowdisk commandline tool.
package cmd

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/sahib/cowdisk"
	logFmt "github.com/sahib/cowdisk/util/log"
)

func init() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&logFmt.FancyLogFormatter{UseColors: true})
}

func formatGroup(category string) string {
	return strings.ToUpper(category) + " COMMANDS"
}

// RunCmdline starts the cowdisk commandline tool.
func RunCmdline(args []string) int {
	app := cli.NewApp()
	app.Name = "cowdisk"
	app.Usage = "Copy-on-write overlays over block images"
	app.EnableBashCompletion = true
	app.Version = cowdisk.VersionString()

	layoutGroup := formatGroup("layout")
	benchGroup := formatGroup("benchmark")
	miscGroup := formatGroup("misc")

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config,c",
			Usage:  "Path to a config file (built-in defaults if unset)",
			Value:  "",
			EnvVar: "COWDISK_CONFIG",
		},
		cli.StringFlag{
			Name:   "log-level,l",
			Usage:  "Log level (debug, info, warning, error)",
			Value:  "",
			EnvVar: "COWDISK_LOG_LEVEL",
		},
	}

	app.Before = func(ctx *cli.Context) error {
		if level := ctx.String("log-level"); level != "" {
			setLogLevel(level)
		}

		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:      "info",
			Category:  layoutGroup,
			Usage:     "Show the copy-on-write layout for an image",
			ArgsUsage: "<image>",
			Description: "Derive group size, group count and bitmap size for the\n" +
				"   given image without touching its contents.",
			Action: withArgCheck(needAtLeast(1), handleInfo),
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "block-size,b",
					Usage: "Block size (e.g. 512B, 4K)",
					Value: "",
				},
				cli.StringFlag{
					Name:  "bitmap-size,m",
					Usage: "Maximum bitmap size (e.g. 1K)",
					Value: "",
				},
			},
		}, {
			Name:     "bench",
			Category: benchGroup,
			Usage:    "Measure copy-on-write amplification with a synthetic workload",
			Description: "Run random block aligned writes against an in-memory store\n" +
				"   and report the over-read/over-write percentages.",
			Action: handleBench,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "size,s",
					Usage: "Image size (e.g. 4M)",
					Value: "4M",
				},
				cli.IntFlag{
					Name:  "writes,n",
					Usage: "Number of random writes",
					Value: 1000,
				},
				cli.IntFlag{
					Name:  "max-write-blocks,w",
					Usage: "Maximum number of blocks per write",
					Value: 16,
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "Random seed for repeatable runs",
					Value: 0,
				},
				cli.BoolFlag{
					Name:  "no-verify",
					Usage: "Skip verification against a shadow copy",
				},
				cli.BoolFlag{
					Name:  "json,j",
					Usage: "Print the result as JSON",
				},
			},
		}, {
			Name:     "version",
			Category: miscGroup,
			Usage:    "Show the version of cowdisk",
			Action:   handleVersion,
		},
	}

	if err := app.Run(args); err != nil {
		log.Errorf("%v", err)

		if exitErr, ok := err.(ExitCode); ok {
			return exitErr.Code
		}

		return UnknownError
	}

	return Success
}
