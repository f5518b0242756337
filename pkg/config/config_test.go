package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	for _, key := range []string{"ENV", "LOG_LEVEL", "OUTPUT_DIR", "OUTPUT_FORMAT", "TICKET_FORMAT", "NUM_ADMINS", "PASSWORD_SEED", "METRICS_TEXTFILE", "OUTPUT_CSV_CRLF"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, FormatCSV, cfg.Output.Format)
	assert.Equal(t, FormatCSV, cfg.Output.TicketFormat)
	assert.False(t, cfg.Output.CSVCRLF)
	assert.Equal(t, 2, cfg.Accounts.NumAdmins)
	assert.Zero(t, cfg.Accounts.PasswordSeed)
	assert.True(t, cfg.Input.InferNumericColumns)
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.Equal(t, "registrations.csv", cfg.Roster.Output)
	assert.Equal(t, "84", cfg.Roster.CharterPrefix)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OUTPUT_FORMAT", " XLSX ")
	t.Setenv("TICKET_FORMAT", "pdf")
	t.Setenv("NUM_ADMINS", "4")
	t.Setenv("PASSWORD_SEED", "1234")
	t.Setenv("INFER_NUMERIC_COLUMNS", "false")
	t.Setenv("OUTPUT_CSV_CRLF", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, cfg.Output.Format)
	assert.Equal(t, FormatPDF, cfg.Output.TicketFormat)
	assert.Equal(t, 4, cfg.Accounts.NumAdmins)
	assert.Equal(t, uint64(1234), cfg.Accounts.PasswordSeed)
	assert.False(t, cfg.Input.InferNumericColumns)
	assert.True(t, cfg.Output.CSVCRLF)
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("NUM_ADMINS", "")
	t.Setenv("OUTPUT_DIR", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NUM_ADMINS=3\nOUTPUT_DIR=out\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Accounts.NumAdmins)
	assert.Equal(t, "out", cfg.Output.Dir)
}

func TestLoadRejectsNegativeAdminCount(t *testing.T) {
	chdirTemp(t)
	t.Setenv("NUM_ADMINS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NUM_ADMINS")
}

func TestLoadAllowsZeroAdmins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("NUM_ADMINS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Accounts.NumAdmins)
}
