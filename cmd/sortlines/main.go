package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/kobzarvs/sortlines/internal/app"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s) %s", v, c, d)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "sortlines:", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "sortlines",
		Usage:     "Sort the lines covered by selections using locale-aware ordering",
		UsageText: "sortlines [options] FILE",
		Description: `Every selection is widened to whole lines and the lines are sorted with a
locale collator. Several single-line selections reorder their lines by the
selected text. Without selections the whole file is sorted.

Use - as FILE to read standard input and write standard output.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "selection LINE:COL-LINE:COL or cursor LINE:COL, zero-based (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "lines",
				Aliases: []string{"l"},
				Usage:   "whole line range FIRST-LAST, one-based inclusive (repeatable)",
			},
			&cli.StringFlag{
				Name:  "selections",
				Usage: "YAML or JSON file with selections",
			},
			&cli.BoolFlag{
				Name:    "again",
				Aliases: []string{"a"},
				Usage:   "replay the selections, direction and locale of the last sort of FILE",
			},
			&cli.BoolFlag{
				Name:    "descending",
				Aliases: []string{"d"},
				Usage:   "sort in descending order",
				Sources: cli.EnvVars("SORTLINES_DESCENDING"),
			},
			&cli.StringFlag{
				Name:    "locale",
				Usage:   "collation locale, e.g. en, de-DE, ja_JP.UTF-8",
				Sources: cli.EnvVars("SORTLINES_LOCALE"),
			},
			&cli.BoolFlag{
				Name:    "ignore-case",
				Usage:   "compare letters without regard to case",
				Sources: cli.EnvVars("SORTLINES_IGNORE_CASE"),
			},
			&cli.BoolFlag{
				Name:    "ignore-width",
				Usage:   "treat full-width and half-width forms as equal",
				Sources: cli.EnvVars("SORTLINES_IGNORE_WIDTH"),
			},
			&cli.BoolFlag{
				Name:    "ignore-diacritics",
				Usage:   "compare letters without regard to accents",
				Sources: cli.EnvVars("SORTLINES_IGNORE_DIACRITICS"),
			},
			&cli.BoolFlag{
				Name:    "numeric",
				Usage:   "order digit runs by numeric value",
				Sources: cli.EnvVars("SORTLINES_NUMERIC"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the result to this file instead of FILE",
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "write the result to standard output",
			},
			&cli.BoolFlag{
				Name:    "preview",
				Aliases: []string{"p"},
				Usage:   "show the result and ask before applying it",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("SORTLINES_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("SORTLINES_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file",
				Sources: cli.EnvVars("SORTLINES_LOG_FILE"),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			opts, err := optionsFrom(c)
			if err != nil {
				return err
			}
			return app.New(opts).Run(ctx)
		},
	}
}

func optionsFrom(c *cli.Command) (app.Options, error) {
	if c.NArg() != 1 {
		return app.Options{}, errors.New("expected exactly one FILE argument (use - for standard input)")
	}
	opts := app.Options{
		Path:           c.Args().First(),
		Output:         c.String("output"),
		Stdout:         c.Bool("stdout"),
		Preview:        c.Bool("preview"),
		Specs:          c.StringSlice("select"),
		LineRanges:     c.StringSlice("lines"),
		SelectionsFile: c.String("selections"),
		Again:          c.Bool("again"),
		ConfigPath:     c.String("config"),
		LogLevel:       c.String("log-level"),
		LogFile:        c.String("log-file"),
	}
	if c.IsSet("locale") {
		v := c.String("locale")
		opts.Sort.Locale = &v
	}
	opts.Sort.Descending = boolFlag(c, "descending")
	opts.Sort.IgnoreCase = boolFlag(c, "ignore-case")
	opts.Sort.IgnoreWidth = boolFlag(c, "ignore-width")
	opts.Sort.IgnoreDiacritics = boolFlag(c, "ignore-diacritics")
	opts.Sort.Numeric = boolFlag(c, "numeric")
	return opts, nil
}

// boolFlag returns nil when name was not given so the configured value wins.
func boolFlag(c *cli.Command, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}
