// Package main provides the createtao binary. It validates a registration
// roster and writes the group, account and ticket files for test delivery.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/test-registration/internal/models"
	"github.com/noah-isme/test-registration/internal/repository"
	"github.com/noah-isme/test-registration/internal/service"
	"github.com/noah-isme/test-registration/internal/validation"
	"github.com/noah-isme/test-registration/pkg/config"
	appErrors "github.com/noah-isme/test-registration/pkg/errors"
	"github.com/noah-isme/test-registration/pkg/logger"
	"github.com/noah-isme/test-registration/pkg/metrics"
	"github.com/noah-isme/test-registration/pkg/storage"
)

type options struct {
	selection    models.Selection
	numAdmins    int
	outputDir    string
	format       string
	ticketFormat string
	seed         uint64
	metricsFile  string
	crlf         bool
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
		Use:   "createtao <input>",
		Short: "Create TAO account files from a registration roster",
		Long: `createtao validates every roster row, writes rejected rows to a rejects
file and generates groups plus the selected account files.

Without -s, -p, -a or -t all four outputs are produced. Student accounts and
tickets share passwords only when they are created by the same run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.selection.Students, "students", "s", false, "Create student accounts")
	flags.BoolVarP(&opts.selection.Proctors, "proctors", "p", false, "Create proctor accounts")
	flags.BoolVarP(&opts.selection.Admins, "admins", "a", false, "Create admin accounts")
	flags.BoolVarP(&opts.selection.Tickets, "tickets", "t", false, "Create student tickets")
	flags.IntVar(&opts.numAdmins, "num-admins", service.DefaultNumAdmins, "Admin accounts per school and year")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", ".", "Directory receiving output files")
	flags.StringVar(&opts.format, "format", config.FormatCSV, "Account file format (csv, xlsx)")
	flags.StringVar(&opts.ticketFormat, "ticket-format", config.FormatCSV, "Ticket file format (csv, xlsx, pdf)")
	flags.BoolVar(&opts.crlf, "crlf", false, "End CSV records with CRLF")
	flags.Uint64Var(&opts.seed, "seed", 0, "Password seed for reproducible runs (0 is random)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics to this node-exporter textfile")

	return cmd
}

func run(cmd *cobra.Command, input string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrInvalidOption, err, "failed to load config")
	}
	applyFlags(cmd, cfg, opts)

	logr, err := logger.New(cfg)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrInternal, err, "failed to init logger")
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewLocalStorage(cfg.Output.Dir)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrOutputWrite, err, "")
	}
	validator, err := validation.NewRowValidator(nil)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrInternal, err, "")
	}
	recorder := metrics.NewRecorder()

	svc := service.NewRegistrationService(
		repository.NewRegistrationRepository(cfg.Input.InferNumericColumns, logr),
		store,
		validator,
		service.NewPasswordGenerator(cfg.Accounts.PasswordSeed),
		service.RegistrationConfig{
			OutputFormat: cfg.Output.Format,
			TicketFormat: cfg.Output.TicketFormat,
			CSVCRLF:      cfg.Output.CSVCRLF,
			NumAdmins:    cfg.Accounts.NumAdmins,
		},
		logr,
		recorder,
	)

	out := cmd.OutOrStdout()
	sel := opts.selection.Resolve()
	fmt.Fprintf(out, "Create Students: %t, Create Proctors: %t, Create Admins: %t, Create Tickets: %t\n",
		sel.Students, sel.Proctors, sel.Admins, sel.Tickets)

	report, err := svc.Process(ctx, input, opts.selection)
	if err != nil {
		logr.Error("registration run failed", zap.Error(err))
		return err
	}
	printSummary(out, report)

	if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logr.Warn("could not write metrics", zap.Error(err))
	}
	return report.Err()
}

// applyFlags lets explicitly set flags win over configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	flags := cmd.Flags()
	if flags.Changed("num-admins") {
		cfg.Accounts.NumAdmins = opts.numAdmins
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = opts.outputDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("ticket-format") {
		cfg.Output.TicketFormat = opts.ticketFormat
	}
	if flags.Changed("crlf") {
		cfg.Output.CSVCRLF = opts.crlf
	}
	if flags.Changed("seed") {
		cfg.Accounts.PasswordSeed = opts.seed
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.metricsFile
	}
}

func printSummary(w io.Writer, report *service.RunReport) {
	fmt.Fprintf(w, "Rows: %d total, %d valid, %d invalid\n", report.TotalRows, report.ValidRows, report.InvalidRows)
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
	if len(report.Outputs) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tFILE\tRECORDS\tSTATUS")
	for _, o := range report.Outputs {
		status := "ok"
		if o.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", o.Kind, o.Path, o.Records, status)
	}
	tw.Flush() //nolint:errcheck
}
