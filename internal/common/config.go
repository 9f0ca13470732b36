package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/payslip-extractor/constants"
)

// Config holds all application configuration
type Config struct {
	Source SourceConfig `yaml:"source"`
	Parser ParserConfig `yaml:"parser"`
	OCR    OCRConfig    `yaml:"ocr"`
	Output OutputConfig `yaml:"output"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig describes where payslip documents are read from
type SourceConfig struct {
	Dir            string   `yaml:"dir"`
	Extensions     []string `yaml:"extensions"`
	FilenamePrefix string   `yaml:"filename_prefix"`
	SkipHidden     bool     `yaml:"skip_hidden"`
}

// ParserConfig holds the layout markers of the payslip documents
type ParserConfig struct {
	Anchor string `yaml:"anchor"`
	Marker string `yaml:"marker"`
}

// OCRConfig holds text-extraction configuration
type OCRConfig struct {
	Pdftotext string `yaml:"pdftotext"`
}

// OutputConfig holds result artifact locations
type OutputConfig struct {
	JSONPath string `yaml:"json_path"`
	XLSXPath string `yaml:"xlsx_path"`
	CSVPath  string `yaml:"csv_path"`
	Quiet    bool   `yaml:"quiet"` // do not print the result to stdout
}

// StoreConfig selects the optional run archive: "", "sqlite" or "postgres"
type StoreConfig struct {
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Database   DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN                string        `yaml:"dsn"`
	MaxConns           int32         `yaml:"max_conns"`
	MinConns           int32         `yaml:"min_conns"`
	MaxConnLifetime    time.Duration `yaml:"-"`
	MaxConnIdleTime    time.Duration `yaml:"-"`
	DialTimeout        time.Duration `yaml:"-"`
	MaxConnLifetimeRaw string        `yaml:"max_conn_lifetime"`
	MaxConnIdleTimeRaw string        `yaml:"max_conn_idle_time"`
	DialTimeoutRaw     string        `yaml:"dial_timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Extensions:     []string{"pdf"},
			FilenamePrefix: constants.DefaultFilenamePrefix,
		},
		Parser: ParserConfig{
			Anchor: constants.DefaultAnchor,
			Marker: constants.DefaultMarker,
		},
		OCR: OCRConfig{Pdftotext: "pdftotext"},
		Output: OutputConfig{
			JSONPath: constants.DefaultOutputPath,
		},
		Store: StoreConfig{
			SQLitePath: "payroll.db",
			Database: DatabaseConfig{
				MaxConns:        5,
				MinConns:        1,
				MaxConnLifetime: 30 * time.Minute,
				MaxConnIdleTime: 5 * time.Minute,
				DialTimeout:     3 * time.Second,
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// and environment variables, in that order of precedence (env wins).
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file "+path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "parse config yaml", err)
		}
		if err := cfg.Store.Database.parseDurations(); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "parse database durations", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Source.Dir = getEnv("PAYSLIP_SOURCE_DIR", c.Source.Dir)
	c.Source.Extensions = getEnvAsList("PAYSLIP_EXTENSIONS", c.Source.Extensions)
	c.Source.FilenamePrefix = getEnv("PAYSLIP_FILENAME_PREFIX", c.Source.FilenamePrefix)
	c.Parser.Anchor = getEnv("PAYSLIP_ANCHOR", c.Parser.Anchor)
	c.Parser.Marker = getEnv("PAYSLIP_MARKER", c.Parser.Marker)
	c.OCR.Pdftotext = getEnv("PDFTOTEXT_BIN", c.OCR.Pdftotext)
	c.Output.JSONPath = getEnv("PAYSLIP_OUTPUT", c.Output.JSONPath)
	c.Output.XLSXPath = getEnv("XLSX_OUTPUT", c.Output.XLSXPath)
	c.Output.CSVPath = getEnv("CSV_OUTPUT", c.Output.CSVPath)
	c.Store.Driver = strings.ToLower(getEnv("STORE_DRIVER", c.Store.Driver))
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)

	db := &c.Store.Database
	db.DSN = getEnv("DB_URL", db.DSN)
	db.MaxConns = getEnvAsInt32("DB_MAX_CONNS", db.MaxConns)
	db.MinConns = getEnvAsInt32("DB_MIN_CONNS", db.MinConns)
	db.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", db.MaxConnLifetime)
	db.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", db.MaxConnIdleTime)
	db.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", db.DialTimeout)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (d *DatabaseConfig) parseDurations() error {
	for _, f := range []struct {
		raw string
		dst *time.Duration
	}{
		{d.MaxConnLifetimeRaw, &d.MaxConnLifetime},
		{d.MaxConnIdleTimeRaw, &d.MaxConnIdleTime},
		{d.DialTimeoutRaw, &d.DialTimeout},
	} {
		if f.raw == "" {
			continue
		}
		v, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("duration %q: %w", f.raw, err)
		}
		*f.dst = v
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// SlogLevel maps the configured level name onto slog.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("source.dir", c.Source.Dir, Required).
		Field("parser.anchor", c.Parser.Anchor, Required).
		Field("parser.marker", c.Parser.Marker, Required).
		Field("output.json_path", c.Output.JSONPath, Required).
		Field("store.driver", c.Store.Driver, OneOf("", StoreSQLite, StorePostgres))
	switch c.Store.Driver {
	case StoreSQLite:
		v.Field("store.sqlite_path", c.Store.SQLitePath, Required)
	case StorePostgres:
		v.Field("store.database.dsn", c.Store.Database.DSN, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// Supported run archive drivers.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)
