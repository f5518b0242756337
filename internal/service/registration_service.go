package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/test-registration/internal/models"
	"github.com/noah-isme/test-registration/internal/validation"
	"github.com/noah-isme/test-registration/pkg/config"
	appErrors "github.com/noah-isme/test-registration/pkg/errors"
	"github.com/noah-isme/test-registration/pkg/export"
	"github.com/noah-isme/test-registration/pkg/logger"
	"github.com/noah-isme/test-registration/pkg/metrics"
)

// TimestampLayout stamps every file of a run.
const TimestampLayout = "20060102_150405"

type registrationLoader interface {
	Load(ctx context.Context, path string) (*models.RegistrationTable, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// RegistrationConfig tunes a registration run.
type RegistrationConfig struct {
	OutputFormat string
	TicketFormat string
	// CSVCRLF ends CSV records with \r\n.
	CSVCRLF bool
	// NumAdmins is taken as given: zero creates no admins and negative
	// values are rejected.
	NumAdmins int
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// OutputFile describes one emitted (or failed) table.
type OutputFile struct {
	Kind    models.OutputKind
	Path    string
	Records int
	Err     error
}

// RunReport summarises a registration run.
type RunReport struct {
	RunID       string
	Timestamp   string
	Selection   models.Selection
	TotalRows   int
	ValidRows   int
	InvalidRows int
	Rejected    []models.RejectedRow
	Outputs     []OutputFile
	Warnings    []string
}

// Failed returns outputs that could not be written.
func (r *RunReport) Failed() []OutputFile {
	failed := make([]OutputFile, 0)
	for _, o := range r.Outputs {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err joins every output failure into a single ErrOutputWrite, or nil.
func (r *RunReport) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, f := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Kind, f.Err))
	}
	return appErrors.WrapAs(appErrors.ErrOutputWrite, errors.Join(errs...), fmt.Sprintf("%d output file(s) could not be written", len(failed)))
}

// RegistrationService runs the roster validation and account generation pipeline.
type RegistrationService struct {
	loader      registrationLoader
	storage     fileStorage
	partitioner *Partitioner
	passwords   *PasswordGenerator
	csv         csvRenderer
	xlsx        xlsxRenderer
	pdf         pdfRenderer
	recorder    *metrics.Recorder
	logger      *zap.Logger
	cfg         RegistrationConfig
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(loader registrationLoader, storage fileStorage, validator *validation.RowValidator, passwords *PasswordGenerator, cfg RegistrationConfig, log *zap.Logger, recorder *metrics.Recorder) *RegistrationService {
	if log == nil {
		log = zap.NewNop()
	}
	if passwords == nil {
		passwords = NewPasswordGenerator(0)
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = config.FormatCSV
	}
	if cfg.TicketFormat == "" {
		cfg.TicketFormat = config.FormatCSV
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	csv := export.NewCSVExporter()
	if cfg.CSVCRLF {
		csv = export.NewCSVExporterCRLF()
	}
	return &RegistrationService{
		loader:      loader,
		storage:     storage,
		partitioner: NewPartitioner(validator, log),
		passwords:   passwords,
		csv:         csv,
		xlsx:        export.NewXLSXExporter(""),
		pdf:         export.NewPDFExporter(),
		recorder:    recorder,
		logger:      log,
		cfg:         cfg,
	}
}

// Process runs the pipeline over the roster at input. The returned error is
// reserved for fatal problems (bad options, unreadable input, missing
// columns); output write failures are reported through RunReport.Err.
func (s *RegistrationService) Process(ctx context.Context, input string, selection models.Selection) (*RunReport, error) {
	if err := s.checkOptions(); err != nil {
		return nil, err
	}

	started := s.cfg.Now()
	sel := selection.Resolve()
	report := &RunReport{
		RunID:     uuid.NewString(),
		Timestamp: started.Format(TimestampLayout),
		Selection: sel,
	}
	log := logger.WithRun(s.logger, report.RunID)
	log.Info("registration run started",
		zap.String("input", input),
		zap.Bool("students", sel.Students),
		zap.Bool("proctors", sel.Proctors),
		zap.Bool("admins", sel.Admins),
		zap.Bool("tickets", sel.Tickets),
	)
	if sel.PasswordMismatchRisk() {
		msg := "student accounts and tickets are not generated together; passwords will not match files from another run"
		log.Warn(msg)
		report.Warnings = append(report.Warnings, msg)
	}

	table, err := s.loader.Load(ctx, input)
	if err != nil {
		log.Error("could not load input", zap.Error(err))
		return nil, err
	}
	if missing := table.MissingColumns(models.RequiredColumns); len(missing) > 0 {
		err := appErrors.Clone(appErrors.ErrMissingColumns, fmt.Sprintf("missing required columns in %s: %v", input, missing))
		log.Error("input schema check failed", zap.Strings("missing", missing))
		return nil, err
	}

	part := s.partitioner.Partition(table)
	report.TotalRows = len(table.Rows)
	report.ValidRows = len(part.Valid)
	report.InvalidRows = len(part.Rejected)
	report.Rejected = part.Rejected
	s.recorder.ObserveRows(report.ValidRows, report.InvalidRows)

	if len(part.Rejected) > 0 {
		s.emit(log, report, models.OutputRejects, s.filename(models.OutputRejects, report.Timestamp, s.cfg.OutputFormat),
			ProjectRejects(table.Columns, part.Rejected), s.cfg.OutputFormat, "")
	}

	log.Info("csv processing complete",
		zap.Int("total_rows", report.TotalRows),
		zap.Int("valid_rows", report.ValidRows),
		zap.Int("invalid_rows", report.InvalidRows),
	)

	if len(part.Valid) == 0 {
		log.Warn("no valid records to process for account creation")
		s.finish(report, started)
		return report, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enriched := NewEnricher(s.passwords, s.cfg.NumAdmins).Enrich(part.Valid)

	format := s.cfg.OutputFormat
	s.emit(log, report, models.OutputGroups, s.filename(models.OutputGroups, report.Timestamp, format), ProjectGroups(enriched), format, "")
	if sel.Students {
		s.emit(log, report, models.OutputStudents, s.filename(models.OutputStudents, report.Timestamp, format), ProjectStudents(enriched), format, "")
	}
	if sel.Proctors {
		s.emit(log, report, models.OutputProctors, s.filename(models.OutputProctors, report.Timestamp, format), ProjectProctors(enriched), format, "")
	}
	if sel.Admins {
		s.emit(log, report, models.OutputAdmins, s.filename(models.OutputAdmins, report.Timestamp, format), ProjectAdmins(enriched), format, "")
	}
	if sel.Tickets {
		for _, sheet := range ProjectTickets(enriched) {
			name := fmt.Sprintf("%s_tickets.%s", sanitizeFilename(sheet.SchoolDBN), s.cfg.TicketFormat)
			s.emit(log, report, models.OutputTickets, name, sheet.Data, s.cfg.TicketFormat, "Tickets "+sheet.SchoolDBN)
		}
	}

	s.finish(report, started)
	return report, nil
}

func (s *RegistrationService) finish(report *RunReport, started time.Time) {
	s.recorder.ObserveRun(started, s.cfg.Now())
	s.logger.Info("registration run finished",
		zap.String("run_id", report.RunID),
		zap.Int("outputs", len(report.Outputs)),
		zap.Int("failed_outputs", len(report.Failed())),
	)
}

// emit renders and stores one table. Failures are recorded on the report and
// never stop the remaining outputs.
func (s *RegistrationService) emit(log *zap.Logger, report *RunReport, kind models.OutputKind, filename string, data export.Dataset, format, title string) {
	out := OutputFile{Kind: kind, Path: filename, Records: data.Len()}
	payload, err := s.render(data, format, title)
	if err == nil {
		out.Path, err = s.storage.Save(filename, payload)
		if err != nil {
			out.Path = filename
		}
	}
	if err != nil {
		out.Err = appErrors.WrapAs(appErrors.ErrOutputWrite, err, fmt.Sprintf("write %s file %s", kind, filename))
		log.Error("error writing output file", zap.String("kind", string(kind)), zap.String("file", filename), zap.Error(err))
		s.recorder.ObserveFailure(string(kind))
	} else {
		log.Info("created output file", zap.String("kind", string(kind)), zap.String("file", out.Path), zap.Int("records", out.Records))
		s.recorder.ObserveOutput(string(kind), out.Records)
	}
	report.Outputs = append(report.Outputs, out)
}

func (s *RegistrationService) render(data export.Dataset, format, title string) ([]byte, error) {
	switch format {
	case config.FormatCSV:
		return s.csv.Render(data)
	case config.FormatXLSX:
		return s.xlsx.Render(data)
	case config.FormatPDF:
		return s.pdf.Render(data, title)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

func (s *RegistrationService) checkOptions() error {
	if s.cfg.NumAdmins < 0 {
		return appErrors.Clone(appErrors.ErrInvalidOption, fmt.Sprintf("number of admins must not be negative, got %d", s.cfg.NumAdmins))
	}
	switch s.cfg.OutputFormat {
	case config.FormatCSV, config.FormatXLSX:
	default:
		return appErrors.Clone(appErrors.ErrInvalidOption, fmt.Sprintf("unsupported output format %q (csv, xlsx)", s.cfg.OutputFormat))
	}
	switch s.cfg.TicketFormat {
	case config.FormatCSV, config.FormatXLSX, config.FormatPDF:
	default:
		return appErrors.Clone(appErrors.ErrInvalidOption, fmt.Sprintf("unsupported ticket format %q (csv, xlsx, pdf)", s.cfg.TicketFormat))
	}
	return nil
}

func (s *RegistrationService) filename(kind models.OutputKind, timestamp, format string) string {
	return fmt.Sprintf("%s_%s.%s", kind, timestamp, format)
}
