package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	shapefetch "github.com/reoring/shapefetch"
	"github.com/reoring/shapefetch/i18n"
	"github.com/reoring/shapefetch/internal/config"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

// app carries state shared by subcommands of one invocation.
type app struct {
	stdout, stderr io.Writer

	configPath string
	verbose    bool
	lang       string

	cfg *config.Config
	log *zap.Logger
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.log != nil {
		_ = a.log.Sync()
	}
	switch {
	case err == nil:
		return exitOK
	case isValidationFailure(err):
		return exitInvalid
	default:
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shapefetch",
		Short: "Fetch JSON and prove its shape",
		Long: `shapefetch reads a JSON resource (over HTTP or from a file) and checks that
every element of a collection carries the fields a shape file requires.

A failure names the JSON Pointer, the missing field and the element index.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./"+config.FileName+" when present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.lang, "lang", "", "message language (en, ja)")

	root.AddCommand(a.fetchCmd())
	root.AddCommand(a.checkCmd())
	root.AddCommand(a.schemaCmd())
	return root
}

func (a *app) setup() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.Load(a.configPath, wd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lang := cfg.Language
	if a.lang != "" {
		lang = a.lang
	}
	i18n.SetLanguage(lang)

	level := zapcore.WarnLevel
	if a.verbose {
		level = zapcore.DebugLevel
	}
	a.log = zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(a.stderr),
		level,
	))
	return nil
}

func isValidationFailure(err error) bool {
	var fs shapefetch.Failures
	if errors.As(err, &fs) {
		return true
	}
	_, ok := shapefetch.AsFailure(err)
	return ok
}
