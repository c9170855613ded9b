package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"sheet_data/internal/app"
	"sheet_data/internal/sheetdata"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type rootOptions struct {
	settings app.Settings
	pretty   bool
	logLevel string
}

type rangeOptions struct {
	startRow    int
	startColumn int
	endColumn   int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "sheet_data",
		Short: "Read spreadsheet ranges as records",
		Long: `sheet_data finds the last populated row of a sheet column, resolves the
data range below a header row, and prints its values or records as JSON.
Sheets come from a local .xlsx file or a Google spreadsheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.SetupEnvironment(opts.logLevel)
			opts.applyEnv(cmd, app.LoadSettings())
			return opts.settings.Validate()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.settings.XLSXPath, "xlsx", "", "Path of a local .xlsx workbook (env XLSX_PATH)")
	flags.StringVar(&opts.settings.SpreadsheetID, "spreadsheet-id", "", "Google spreadsheet ID (env SPREADSHEET_ID)")
	flags.StringVar(&opts.settings.CredentialsFile, "credentials", "", "Service account credentials file (env GOOGLE_CREDENTIALS, default credentials.json)")
	flags.StringSliceVar(&opts.settings.SheetNames, "sheet", nil, "Sheet to read, repeatable (env SHEET_NAMES, default all sheets of a workbook)")
	flags.BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level, overrides LOGLEVEL")

	rootCmd.AddCommand(
		newLastRowCmd(opts),
		newRangeCmd(opts),
		newValuesCmd(opts),
		newRecordsCmd(opts),
	)
	return rootCmd
}

// applyEnv fills settings whose flags were not given from the environment,
// which by now includes any .env file.
func (opts *rootOptions) applyEnv(cmd *cobra.Command, env app.Settings) {
	flags := cmd.Flags()
	if !flags.Changed("xlsx") {
		opts.settings.XLSXPath = env.XLSXPath
	}
	if !flags.Changed("spreadsheet-id") {
		opts.settings.SpreadsheetID = env.SpreadsheetID
	}
	if !flags.Changed("credentials") {
		opts.settings.CredentialsFile = env.CredentialsFile
	}
	if !flags.Changed("sheet") {
		opts.settings.SheetNames = env.SheetNames
	}
}

func newLastRowCmd(opts *rootOptions) *cobra.Command {
	var column int
	cmd := &cobra.Command{
		Use:   "last-row",
		Short: "Print the last populated row of a column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerSheet(cmd, opts, func(ctx context.Context, sheet *sheetdata.Sheet) (any, error) {
				return sheet.LastRow(ctx, column)
			})
		},
	}
	cmd.Flags().IntVar(&column, "column", 1, "Column number, 1-indexed")
	return cmd
}

func newRangeCmd(opts *rootOptions) *cobra.Command {
	ro := &rangeOptions{}
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print the resolved data range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerSheet(cmd, opts, func(ctx context.Context, sheet *sheetdata.Sheet) (any, error) {
				return sheet.ResolveRange(ctx, ro.request())
			})
		},
	}
	ro.bind(cmd)
	return cmd
}

func newValuesCmd(opts *rootOptions) *cobra.Command {
	ro := &rangeOptions{}
	cmd := &cobra.Command{
		Use:   "values",
		Short: "Print the raw values of the resolved range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerSheet(cmd, opts, func(ctx context.Context, sheet *sheetdata.Sheet) (any, error) {
				rng, err := sheet.Range(ctx, ro.request())
				if err != nil {
					return nil, err
				}
				return rng.Values(ctx)
			})
		},
	}
	ro.bind(cmd)
	return cmd
}

func newRecordsCmd(opts *rootOptions) *cobra.Command {
	ro := &rangeOptions{}
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print the resolved range as filtered records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerSheet(cmd, opts, func(ctx context.Context, sheet *sheetdata.Sheet) (any, error) {
				rng, err := sheet.Range(ctx, ro.request())
				if err != nil {
					return nil, err
				}
				return rng.Records(ctx)
			})
		},
	}
	ro.bind(cmd)
	return cmd
}

func (ro *rangeOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&ro.startRow, "start-row", 0, "First row, defaults to 1")
	cmd.Flags().IntVar(&ro.startColumn, "start-column", 0, "First column, defaults to 1")
	cmd.Flags().IntVar(&ro.endColumn, "end-column", 0, "Last column, defaults to the sheet's last column")
}

func (ro *rangeOptions) request() sheetdata.RangeRequest {
	return sheetdata.RangeRequest{
		StartRow:    ro.startRow,
		StartColumn: ro.startColumn,
		EndColumn:   ro.endColumn,
	}
}

// runPerSheet runs fn against every selected sheet concurrently and prints
// the results as one JSON object keyed by sheet name.
func runPerSheet(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *sheetdata.Sheet) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sources, closeSources, err := app.OpenSources(ctx, opts.settings)
	if err != nil {
		return err
	}
	defer closeSources()

	var mu sync.Mutex
	results := make(map[string]any, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			result, err := fn(gctx, sheetdata.NewSheet(src))
			if err != nil {
				return fmt.Errorf("sheet %q: %w", src.Name(), err)
			}
			log.Debug().Str("sheet", src.Name()).Str("command", cmd.Name()).Msg("Sheet done")

			mu.Lock()
			results[src.Name()] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var out []byte
	if opts.pretty {
		out, err = json.MarshalIndent(results, "", "  ")
	} else {
		out, err = json.Marshal(results)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
