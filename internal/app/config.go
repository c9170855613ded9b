package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"sheet_data/internal/sheetdata"
	"sheet_data/internal/sheets"
	"sheet_data/internal/workbook"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
// A non-empty levelOverride takes precedence over LOGLEVEL.
func SetupEnvironment(levelOverride string) {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(levelOverride)
	if levelStr == "" {
		levelStr = strings.ToLower(os.Getenv("LOGLEVEL"))
	}
	zerolog.SetGlobalLevel(parseLevel(levelStr))

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

func parseLevel(levelStr string) zerolog.Level {
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	case "":
		// reads go to stdout, so stay quiet by default
		if os.Getenv("ENV") == "production" {
			return zerolog.ErrorLevel
		}
		return zerolog.WarnLevel
	default:
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to warn.", levelStr)
		return zerolog.WarnLevel
	}
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Settings selects where sheets are read from. Exactly one of XLSXPath and
// SpreadsheetID must be set.
type Settings struct {
	XLSXPath        string
	SpreadsheetID   string
	CredentialsFile string
	SheetNames      []string
}

// LoadSettings reads XLSX_PATH, SPREADSHEET_ID, GOOGLE_CREDENTIALS and
// SHEET_NAMES (comma-separated) from the environment.
func LoadSettings() Settings {
	return Settings{
		XLSXPath:        os.Getenv("XLSX_PATH"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: GetEnvWithDefault("GOOGLE_CREDENTIALS", "credentials.json"),
		SheetNames:      SplitList(os.Getenv("SHEET_NAMES")),
	}
}

// SplitList splits a comma-separated list, dropping empty entries.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s Settings) Validate() error {
	switch {
	case s.XLSXPath == "" && s.SpreadsheetID == "":
		return errors.New("either an xlsx path or a spreadsheet ID is required")
	case s.XLSXPath != "" && s.SpreadsheetID != "":
		return errors.New("an xlsx path and a spreadsheet ID cannot be used together")
	case s.SpreadsheetID != "" && len(s.SheetNames) == 0:
		return errors.New("at least one sheet name is required for a Google spreadsheet")
	}
	return nil
}

// OpenSources opens every requested sheet. For a workbook with no sheet names
// given, all sheets are opened. The returned close function releases the
// workbook, if any.
func OpenSources(ctx context.Context, s Settings) ([]sheetdata.Source, func() error, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	if s.XLSXPath != "" {
		return openWorkbookSources(s)
	}
	return openSpreadsheetSources(ctx, s)
}

func openWorkbookSources(s Settings) ([]sheetdata.Source, func() error, error) {
	wb, err := workbook.Open(s.XLSXPath)
	if err != nil {
		return nil, nil, err
	}

	names := s.SheetNames
	if len(names) == 0 {
		names = wb.SheetNames()
	}

	sources := make([]sheetdata.Source, 0, len(names))
	for _, name := range names {
		g, err := wb.Sheet(name)
		if err != nil {
			wb.Close()
			return nil, nil, err
		}
		sources = append(sources, g)
	}

	log.Debug().
		Str("path", s.XLSXPath).
		Strs("sheets", names).
		Msg("Opened workbook sources")
	return sources, wb.Close, nil
}

func openSpreadsheetSources(ctx context.Context, s Settings) ([]sheetdata.Source, func() error, error) {
	client, err := sheets.NewClient(ctx, s.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	sources := make([]sheetdata.Source, 0, len(s.SheetNames))
	for _, name := range s.SheetNames {
		src, err := sheets.OpenSource(ctx, client, s.SpreadsheetID, name)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sheet %q: %w", name, err)
		}
		sources = append(sources, src)
	}

	log.Debug().
		Str("spreadsheet_id", s.SpreadsheetID).
		Strs("sheets", s.SheetNames).
		Msg("Opened spreadsheet sources")
	return sources, func() error { return nil }, nil
}
