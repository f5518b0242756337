package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/test-registration/internal/models"
	"github.com/noah-isme/test-registration/internal/validation"
)

// Partition splits a roster into accepted and rejected rows, both in input order.
type Partition struct {
	Valid    []models.RegistrationRow
	Rejected []models.RejectedRow
}

// Partitioner applies the row validator to every row of a table.
type Partitioner struct {
	validator *validation.RowValidator
	logger    *zap.Logger
}

// NewPartitioner constructs a Partitioner.
func NewPartitioner(validator *validation.RowValidator, logger *zap.Logger) *Partitioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Partitioner{validator: validator, logger: logger}
}

// Partition validates every row. Rows are never repaired; any failed field
// rejects the whole row.
func (p *Partitioner) Partition(table *models.RegistrationTable) Partition {
	result := Partition{
		Valid:    make([]models.RegistrationRow, 0, len(table.Rows)),
		Rejected: make([]models.RejectedRow, 0),
	}
	for _, row := range table.Rows {
		verdict := p.validator.Validate(row)
		if verdict.Valid {
			result.Valid = append(result.Valid, row)
			continue
		}
		for _, field := range verdict.FailedFields {
			p.logger.Warn("invalid entry",
				zap.Int("row", row.Line),
				zap.String("field", field),
				zap.String("value", row.Value(field).Raw),
			)
		}
		p.logger.Warn("ignoring row due to invalid entries", zap.Int("row", row.Line), zap.Strings("fields", verdict.FailedFields))
		result.Rejected = append(result.Rejected, models.RejectedRow{Row: row, Verdict: verdict})
	}
	return result
}
