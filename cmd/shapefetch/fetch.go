package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	shapefetch "github.com/reoring/shapefetch"
	"github.com/reoring/shapefetch/shapefile"
	"github.com/reoring/shapefetch/transport/filetransport"
	"github.com/reoring/shapefetch/transport/httptransport"
)

// checkFlags are shared by fetch and check.
type checkFlags struct {
	field string
	shape string
	all   bool
}

func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.field, "field", "", "collection field holding the elements (empty: validate the whole body)")
	cmd.Flags().StringVar(&f.shape, "shape", "", "shape file (YAML)")
	cmd.Flags().BoolVar(&f.all, "all", false, "report every invalid element instead of the first")
}

func (a *app) fetchCmd() *cobra.Command {
	var (
		flags   checkFlags
		baseURL string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fetch <resource>",
		Short: "GET a resource over HTTP and validate it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := a.cfg.Transport()
			if cmd.Flags().Changed("base-url") {
				tc.BaseURL = baseURL
			}
			if cmd.Flags().Changed("timeout") {
				tc.Timeout = timeout
			}
			tr, err := httptransport.New(tc)
			if err != nil {
				return err
			}
			return a.validate(cmd.Context(), tr, args[0], flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL for relative resources")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "request timeout")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a recorded JSON response on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := filetransport.New(filepath.Dir(args[0]))
			if err != nil {
				return err
			}
			return a.validate(cmd.Context(), tr, filepath.Base(args[0]), flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) loadShape(path string) (*shapefetch.Shape, error) {
	if path == "" {
		path = a.cfg.Shape
	}
	if path == "" {
		return nil, errors.New("--shape is required")
	}
	return shapefile.Load(path)
}

func (a *app) validate(ctx context.Context, tr shapefetch.Transport, resource string, flags checkFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shape, err := a.loadShape(flags.shape)
	if err != nil {
		return err
	}
	field := flags.field
	if field == "" {
		field = a.cfg.Field
	}
	opt, err := a.cfg.DecodeOpt()
	if err != nil {
		return err
	}
	opt.OnWarn = func(f *shapefetch.Failure) { a.warn(f) }
	f := shapefetch.NewFetcher(tr, shapefetch.WithLogger(a.log), shapefetch.WithDecodeOpt(opt))

	switch {
	case field == "":
		rec, err := f.FetchRecord(ctx, resource, shape)
		if err != nil {
			a.reportFailure(err)
			return err
		}
		a.ok(fmt.Sprintf("%s matches shape %s", resource, shape.Name()))
		return a.printJSON(rec)
	case flags.all:
		u, err := f.Fetch(ctx, resource)
		if err != nil {
			a.reportFailure(err)
			return err
		}
		if fs := shapefetch.CheckAll(u, field, shape); len(fs) > 0 {
			for _, fl := range fs {
				fl.Resource = resource
				a.reportFailure(fl)
			}
			return fs
		}
		recs, err := shapefetch.ValidateCollection(u, field, shape)
		if err != nil {
			return err
		}
		a.ok(fmt.Sprintf("%s: %d %s records valid", resource, len(recs), shape.Name()))
		return a.printJSON(recs)
	default:
		recs, err := f.FetchValidated(ctx, resource, field, shape)
		if err != nil {
			a.reportFailure(err)
			return err
		}
		a.ok(fmt.Sprintf("%s: %d %s records valid", resource, len(recs), shape.Name()))
		return a.printJSON(recs)
	}
}
