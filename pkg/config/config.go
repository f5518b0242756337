package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported file formats for emitted tables.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

type Config struct {
	Env string

	Log      LogConfig
	Output   OutputConfig
	Accounts AccountsConfig
	Input    InputConfig
	Metrics  MetricsConfig
	Roster   RosterConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// OutputConfig controls where and how account tables are written.
type OutputConfig struct {
	Dir          string
	Format       string
	TicketFormat string
	CSVCRLF      bool
}

// AccountsConfig tunes generated accounts.
type AccountsConfig struct {
	NumAdmins    int
	PasswordSeed uint64
}

// InputConfig governs roster loading.
type InputConfig struct {
	InferNumericColumns bool
}

// MetricsConfig points at a node-exporter textfile; empty disables metrics output.
type MetricsConfig struct {
	Textfile string
}

// RosterConfig holds defaults for merging roster extracts.
type RosterConfig struct {
	Output        string
	CharterPrefix string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := fromViper(v)
	if cfg.Accounts.NumAdmins < 0 {
		return nil, fmt.Errorf("NUM_ADMINS must not be negative, got %d", cfg.Accounts.NumAdmins)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Output = OutputConfig{
		Dir:          v.GetString("OUTPUT_DIR"),
		Format:       normalizeFormat(v.GetString("OUTPUT_FORMAT"), FormatCSV),
		TicketFormat: normalizeFormat(v.GetString("TICKET_FORMAT"), FormatCSV),
		CSVCRLF:      v.GetBool("OUTPUT_CSV_CRLF"),
	}

	cfg.Accounts = AccountsConfig{
		NumAdmins:    v.GetInt("NUM_ADMINS"),
		PasswordSeed: v.GetUint64("PASSWORD_SEED"),
	}

	cfg.Input = InputConfig{
		InferNumericColumns: v.GetBool("INFER_NUMERIC_COLUMNS"),
	}

	cfg.Metrics = MetricsConfig{
		Textfile: v.GetString("METRICS_TEXTFILE"),
	}

	cfg.Roster = RosterConfig{
		Output:        v.GetString("ROSTER_OUTPUT"),
		CharterPrefix: v.GetString("ROSTER_CHARTER_PREFIX"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("OUTPUT_DIR", ".")
	v.SetDefault("OUTPUT_FORMAT", FormatCSV)
	v.SetDefault("TICKET_FORMAT", FormatCSV)
	v.SetDefault("OUTPUT_CSV_CRLF", false)

	v.SetDefault("NUM_ADMINS", 2)
	v.SetDefault("PASSWORD_SEED", 0)

	v.SetDefault("INFER_NUMERIC_COLUMNS", true)
	v.SetDefault("METRICS_TEXTFILE", "")

	v.SetDefault("ROSTER_OUTPUT", "registrations.csv")
	v.SetDefault("ROSTER_CHARTER_PREFIX", "84")
}

func normalizeFormat(raw, fallback string) string {
	format := strings.ToLower(strings.TrimSpace(raw))
	if format == "" {
		return fallback
	}
	return format
}
