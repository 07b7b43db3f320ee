package main

import (
	"fmt"

	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"

	shapefetch "github.com/reoring/shapefetch"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
)

func (a *app) ok(msg string) {
	fmt.Fprintf(a.stderr, "%s %s\n", okMark("✓"), msg)
}

func (a *app) warn(f *shapefetch.Failure) {
	fmt.Fprintf(a.stderr, "%s %s\n", warnMark("!"), f.Error())
}

// reportFailure prints a one-line summary plus the pointer, field and index
// details of a failure.
func (a *app) reportFailure(err error) {
	fl, ok := shapefetch.AsFailure(err)
	if !ok {
		fmt.Fprintf(a.stderr, "%s %v\n", failMark("✗"), err)
		return
	}
	fmt.Fprintf(a.stderr, "%s %s: %s\n", failMark("✗"), fl.Code(), fl.Message())
	fmt.Fprintf(a.stderr, "  %s %s\n", dim("path:"), fl.Path)
	if fl.Field != "" {
		fmt.Fprintf(a.stderr, "  %s %s\n", dim("field:"), fl.Field)
	}
	if fl.Kind == shapefetch.KindElementInvalid || fl.Kind == shapefetch.KindBind {
		fmt.Fprintf(a.stderr, "  %s %d\n", dim("index:"), fl.Index)
	}
	if fl.Resource != "" {
		fmt.Fprintf(a.stderr, "  %s %s\n", dim("resource:"), fl.Resource)
	}
	if fl.Cause != nil {
		if _, nested := shapefetch.AsFailure(fl.Cause); !nested {
			fmt.Fprintf(a.stderr, "  %s %v\n", dim("cause:"), fl.Cause)
		}
	}
}

func (a *app) printJSON(v any) error {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(b))
	return err
}
