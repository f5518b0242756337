package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/test-registration/internal/models"
	"github.com/noah-isme/test-registration/internal/repository"
	"github.com/noah-isme/test-registration/internal/validation"
)

func newPartitioner(t *testing.T, logger *zap.Logger) *Partitioner {
	t.Helper()
	v, err := validation.NewRowValidator(nil)
	require.NoError(t, err)
	return NewPartitioner(v, logger)
}

func TestPartitionSplitsRowsInOrder(t *testing.T) {
	entries := sampleEntries()
	bad := entries[1]
	bad.dbn = "10X99"
	entries[1] = bad

	part := newPartitioner(t, nil).Partition(buildTable(entries...))

	require.Len(t, part.Valid, 3)
	require.Len(t, part.Rejected, 1)
	assert.Equal(t, []int{1, 3, 4}, []int{part.Valid[0].Line, part.Valid[1].Line, part.Valid[2].Line})
	assert.Equal(t, 2, part.Rejected[0].Row.Line)
	assert.Equal(t, []string{models.ColumnSchoolDBN}, part.Rejected[0].Verdict.FailedFields)
}

func TestPartitionLogsEveryFailedField(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	entry := sampleEntries()[0]
	entry.term = "9"
	entry.section = "100"

	part := newPartitioner(t, zap.New(core)).Partition(buildTable(entry))
	require.Len(t, part.Rejected, 1)

	invalid := logs.FilterMessage("invalid entry").All()
	require.Len(t, invalid, 2)
	assert.Equal(t, models.ColumnAssignedSectionID, invalid[0].ContextMap()["field"])
	assert.Equal(t, "100", invalid[0].ContextMap()["value"])
	assert.Equal(t, int64(1), invalid[0].ContextMap()["row"])
	assert.Equal(t, models.ColumnTermID, invalid[1].ContextMap()["field"])
	assert.Equal(t, 1, logs.FilterMessage("ignoring row due to invalid entries").Len())
}

func TestPartitionAllValid(t *testing.T) {
	part := newPartitioner(t, nil).Partition(buildTable(sampleEntries()...))
	assert.Len(t, part.Valid, 4)
	assert.Empty(t, part.Rejected)
}

func TestPartitionVerdictIgnoresOtherRows(t *testing.T) {
	load := func(termOfSecondRow string) Partition {
		input := writeInput(t,
			rosterHeader,
			"ABC12,10M999,Ana,Lopez,123456789,5,,9,,,2025,02,,ana@x",
			"ABC12,10M999,Ben,Ng,223456789,5,,9,,,2025,"+termOfSecondRow+",,ben@x",
		)
		table, err := repository.NewRegistrationRepository(true, nil).Load(context.Background(), input)
		require.NoError(t, err)
		return newPartitioner(t, nil).Partition(table)
	}

	before := load("2")
	require.Len(t, before.Valid, 2)
	assert.Empty(t, before.Rejected)

	after := load("X")
	require.Len(t, after.Valid, 1)
	assert.Equal(t, 1, after.Valid[0].Line)
	require.Len(t, after.Rejected, 1)
	assert.Equal(t, 2, after.Rejected[0].Row.Line)
	assert.Equal(t, []string{models.ColumnTermID}, after.Rejected[0].Verdict.FailedFields)
}
