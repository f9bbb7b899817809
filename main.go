package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/JustAPerson/denuocc-sub000/driver"
	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

const (
	exitOK = iota
	exitSourceError
	exitUsage
	exitPanic
)

func main() {
	os.Exit(run(os.Args, afero.NewOsFs(), os.Stdin, os.Stderr))
}

func run(args []string, fs afero.Fs, stdin io.Reader, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "internal error: %v\n", r)
			log.Error("panic: %v\n%s", r, debug.Stack())
			code = exitPanic
		}
	}()
	log.SetOutput(stderr)

	app := cli.NewApp()
	app.Name = "denuocc"
	app.Usage = "Run the C front end passes over source files"
	app.Description = "Known passes: " + strings.Join(driver.PassNames(), ", ")
	app.ArgsUsage = "FILE..."
	app.Writer = stderr
	app.ErrWriter = stderr
	app.HideHelpCommand = true
	app.DisableSliceFlagSeparator = true
	app.ExitErrHandler = func(*cli.Context, error) {}

	app.Flags = []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "pass",
			Usage: "Pass to run, as NAME or NAME(ARG, ...). Repeat, or separate with `;`",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default: " + driver.DefaultConfigFile + " when present)",
		},
		&cli.StringSliceFlag{
			Name:    "include-path",
			Aliases: []string{"I"},
			Usage:   "Directory searched for system includes",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn or error",
		},
	}

	code = exitOK
	app.Action = func(c *cli.Context) error {
		var err error
		code, err = compile(c, fs, stdin, stderr)
		return err
	}

	if err := app.Run(args); err != nil {
		if log.IsDebug() {
			fmt.Fprintf(stderr, "error: %+v\n", err)
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return exitUsage
	}
	return code
}

func compile(c *cli.Context, fs afero.Fs, stdin io.Reader, stderr io.Writer) (int, error) {
	cfg, err := driver.LoadConfig(fs, c.String("config"))
	if err != nil {
		return exitUsage, err
	}

	level := c.String("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	if level != "" {
		if err := log.SetLevel(level); err != nil {
			return exitUsage, err
		}
	}
	cfg.SystemPaths = append(cfg.SystemPaths, c.StringSlice("include-path")...)

	var passes []driver.PassSpec
	for _, list := range c.StringSlice("pass") {
		specs, err := driver.ParsePassList(list)
		if err != nil {
			return exitUsage, err
		}
		passes = append(passes, specs...)
	}

	if c.NArg() == 0 {
		return exitUsage, errors.New("no input files")
	}

	session, err := driver.NewSession(driver.Options{
		Fs:     fs,
		Config: cfg,
		Passes: passes,
		Stderr: stderr,
		Stdin:  stdin,
	})
	if err != nil {
		return exitUsage, err
	}
	for _, file := range c.Args().Slice() {
		if _, err := session.AddInputFile(file); err != nil {
			return exitUsage, err
		}
	}

	if err := session.RunAll(); err != nil {
		return exitUsage, err
	}
	if err := session.ReportMessages(stderr, colorEnabled(stderr)); err != nil {
		return exitUsage, err
	}
	if !session.Success() {
		return exitSourceError, nil
	}
	return exitOK, nil
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
