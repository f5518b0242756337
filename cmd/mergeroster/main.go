// Package main provides the mergeroster binary. It merges public school and
// charter school roster extracts into the createtao input layout.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/test-registration/internal/service"
	"github.com/noah-isme/test-registration/pkg/config"
	appErrors "github.com/noah-isme/test-registration/pkg/errors"
	"github.com/noah-isme/test-registration/pkg/logger"
	"github.com/noah-isme/test-registration/pkg/storage"
)

type options struct {
	charter     bool
	public      bool
	publicFile  string
	charterFile string
	testList    string
	year        int
	output      string
	outputDir   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var typed *appErrors.Error
		if !errors.As(err, &typed) {
			os.Exit(appErrors.ExitUsage)
		}
		os.Exit(appErrors.ExitCode(err))
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mergeroster",
		Short: "Merge roster extracts into a registration file",
		Long: `mergeroster normalizes the charter school exam-scan extract, appends it to
the public school student-request extract and writes a timestamped file in
the layout createtao reads.

Without -C or -P both extracts are merged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.charter, "charter", "C", false, "Merge charter school students")
	flags.BoolVarP(&opts.public, "public", "P", false, "Merge public school students")
	flags.StringVar(&opts.publicFile, "public-file", "", "Public school student-request extract (csv or xlsx)")
	flags.StringVar(&opts.charterFile, "charter-file", "", "Charter school exam-scan extract (csv or xlsx)")
	flags.StringVar(&opts.testList, "testlist", "", "File with comma-separated exam codes to keep")
	flags.IntVar(&opts.year, "year", 0, "Keep only this school year (0 keeps all)")
	flags.StringVar(&opts.output, "output", "", "Output base name (default from ROSTER_OUTPUT)")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory receiving the merged file (default from OUTPUT_DIR)")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrInvalidOption, err, "failed to load config")
	}
	if opts.output != "" {
		cfg.Roster.Output = opts.output
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrInternal, err, "failed to init logger")
	}
	defer logr.Sync() //nolint:errcheck

	includeCharter, includePublic := service.ResolveSources(opts.charter, opts.public)
	if includeCharter && opts.charterFile == "" && includePublic && opts.publicFile == "" {
		return appErrors.Clone(appErrors.ErrInvalidOption, "at least one of --public-file or --charter-file is required")
	}
	if opts.charter && !opts.public && opts.charterFile == "" {
		return appErrors.Clone(appErrors.ErrInvalidOption, "--charter requires --charter-file")
	}
	if opts.public && !opts.charter && opts.publicFile == "" {
		return appErrors.Clone(appErrors.ErrInvalidOption, "--public requires --public-file")
	}

	mergeOpts := service.RosterMergeOptions{
		PublicFile:     opts.publicFile,
		CharterFile:    opts.charterFile,
		IncludePublic:  includePublic,
		IncludeCharter: includeCharter,
		Year:           opts.year,
		CharterPrefix:  cfg.Roster.CharterPrefix,
		Output:         cfg.Roster.Output,
	}
	if opts.testList != "" {
		content, err := os.ReadFile(opts.testList)
		if err != nil {
			return appErrors.WrapAs(appErrors.ErrInputNotFound, err, fmt.Sprintf("could not read test list %q", opts.testList))
		}
		mergeOpts.TestCodes = service.ParseTestList(string(content))
		logr.Info("filtering by exam codes", zap.Int("codes", len(mergeOpts.TestCodes)))
	}

	store, err := storage.NewLocalStorage(cfg.Output.Dir)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrOutputWrite, err, "")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := service.NewRosterService(store, logr, nil).Merge(ctx, mergeOpts)
	if err != nil {
		logr.Error("roster merge failed", zap.Error(err))
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d public, %d charter)\n", result.Path, result.PublicRecords, result.CharterRecords)
	return nil
}
