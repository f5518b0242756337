package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/test-registration/internal/models"
	appErrors "github.com/noah-isme/test-registration/pkg/errors"
	"github.com/noah-isme/test-registration/pkg/tabular"
)

// RegistrationRepository loads registration rosters from disk.
type RegistrationRepository struct {
	inferNumeric bool
	logger       *zap.Logger
}

// NewRegistrationRepository constructs a RegistrationRepository. When
// inferNumeric is set, columns whose non-empty cells are all integers are
// loaded as integer values.
func NewRegistrationRepository(inferNumeric bool, logger *zap.Logger) *RegistrationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationRepository{inferNumeric: inferNumeric, logger: logger}
}

// Load reads and parses the roster at path.
func (r *RegistrationRepository) Load(ctx context.Context, path string) (*models.RegistrationTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.WrapAs(appErrors.ErrInputNotFound, err, fmt.Sprintf("input file %q was not found", path))
		}
		return nil, appErrors.WrapAs(appErrors.ErrInputUnreadable, err, fmt.Sprintf("read input file %q", path))
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInputUnreadable, fmt.Sprintf("input file %q is empty", path))
	}

	table, err := tabular.Parse(path, data)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInputUnreadable, err, fmt.Sprintf("could not parse %q", path))
	}
	for _, w := range table.Warnings {
		r.logger.Warn("input row padded", zap.Int("row", w.Row), zap.String("detail", w.Message))
	}

	result := r.build(path, table)
	r.logger.Debug("input loaded",
		zap.String("path", path),
		zap.String("encoding", table.Encoding),
		zap.Int("columns", len(result.Columns)),
		zap.Int("rows", len(result.Rows)),
	)
	return result, nil
}

func (r *RegistrationRepository) build(path string, table *tabular.Table) *models.RegistrationTable {
	headers := dedupeHeaders(table.Headers)
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	rows := make([]models.RegistrationRow, 0, len(table.Rows))
	for i, raw := range table.Rows {
		cells := make([]models.Value, len(raw))
		for col, cell := range raw {
			cells[col] = toValue(cell, r.inferNumeric)
		}
		rows = append(rows, models.NewRegistrationRow(i+1, index, cells))
	}

	return &models.RegistrationTable{
		Source:   path,
		Encoding: table.Encoding,
		Columns:  headers,
		Rows:     rows,
	}
}

// dedupeHeaders renames repeated column names to "name.1", "name.2", ... so
// that every column stays addressable and survives into the rejects table.
func dedupeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	used := make(map[string]bool, len(headers))
	counts := make(map[string]int, len(headers))
	for i, h := range headers {
		name := h
		for used[name] {
			counts[h]++
			name = fmt.Sprintf("%s.%d", h, counts[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// toValue types one cell on its own text: a cell that parses as a base-10
// integer is stored as an integer, everything else as text.
func toValue(cell string, inferNumeric bool) models.Value {
	if inferNumeric && cell != "" {
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return models.IntegerValue(cell, n)
		}
	}
	return models.TextValue(cell)
}
