// Package importer turns contact exports (CSV, JSON, vCard, XLSX) into
// normalized Contact records for the map.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/locale"
)

// Importer runs import pipelines. It holds no mutable state and is safe for
// concurrent use.
type Importer struct {
	// Catalog localizes diagnostics; nil means English.
	Catalog *locale.Catalog

	// NewID generates contact IDs; nil means random UUIDs.
	NewID func() string
}

// New returns an importer reporting diagnostics through catalog.
func New(catalog *locale.Catalog) *Importer {
	return &Importer{Catalog: catalog}
}

func (imp *Importer) newID() string {
	if imp.NewID != nil {
		return imp.NewID()
	}
	return uuid.NewString()
}

// ImportCSV parses CSV text and maps every data row to a contact.
// The file fails as a whole only when it has no data rows or no name column;
// a row without a first name is skipped with a warning.
func (imp *Importer) ImportCSV(text string) (res Result) {
	defer imp.recoverInto(&res, config.FormatCSV, locale.MsgCSVParseFailed)
	return imp.importRows(config.FormatCSV, ParseRows(text))
}

// importRows is the shared tail of the CSV and XLSX pipelines.
func (imp *Importer) importRows(format string, rows [][]string) Result {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyFormat, format,
	)
	log.Debug(config.MsgImportStarted, config.LogKeyRows, len(rows))

	if len(rows) < config.MinCSVRows {
		return failed(imp.Catalog.Format(locale.MsgCSVTooFewRows, nil))
	}

	cols := DetectColumns(rows[0])
	if !cols.HasName() {
		return failed(imp.Catalog.Format(locale.MsgCSVNoNameColumn, nil))
	}

	res := Result{Contacts: []Contact{}, Errors: []string{}, Warnings: []string{}}
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		// i+2: one for the header row, one for 1-based numbering.
		rowNum := i + 2
		c, ok := imp.MapRow(row, cols, rowNum)
		if !ok {
			res.Warnings = append(res.Warnings, imp.Catalog.Format(locale.MsgCSVRowSkipped, map[string]any{"Row": rowNum}))
			continue
		}
		res.Contacts = append(res.Contacts, c)
	}
	res.Success = len(res.Contacts) > 0

	imp.logFinished(log, res, start)
	return res
}

// ImportJSON validates a decoded JSON value, which must be an array of
// contact objects. Invalid elements are excluded and their field errors
// reported in order.
func (imp *Importer) ImportJSON(data any) Result {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyFormat, config.FormatJSON,
	)

	items, ok := data.([]any)
	if !ok {
		return failed(imp.Catalog.Format(locale.MsgJSONNotArray, nil))
	}

	res := Result{Contacts: []Contact{}, Errors: []string{}, Warnings: []string{}}
	invalid := 0
	for i, item := range items {
		v := imp.ValidateContact(item, i)
		if v.Valid {
			res.Contacts = append(res.Contacts, *v.Contact)
			continue
		}
		invalid++
		res.Errors = append(res.Errors, v.Errors...)
	}

	res.Success = len(res.Contacts) > 0
	if len(res.Errors) > 0 {
		res.Warnings = append(res.Warnings, imp.Catalog.Format(locale.MsgJSONFailedSummary, map[string]any{"Count": invalid}))
	}

	imp.logFinished(log, res, start)
	return res
}

// ImportJSONBytes decodes raw JSON and runs ImportJSON on it.
func (imp *Importer) ImportJSONBytes(data []byte) Result {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return failed(imp.Catalog.Format(locale.MsgJSONParseFailed, map[string]any{"Reason": err.Error()}))
	}
	return imp.ImportJSON(decoded)
}

// ImportFile reads r fully and dispatches on format.
func (imp *Importer) ImportFile(format string, r io.Reader) Result {
	if format == config.FormatXLSX {
		return imp.ImportXLSX(r)
	}
	if format == config.FormatVCard {
		return imp.ImportVCard(r)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return failed(fmt.Sprintf("%s: %v", config.ErrReadSource, err))
	}

	switch format {
	case config.FormatCSV:
		return imp.ImportCSV(buf.String())
	case config.FormatJSON:
		return imp.ImportJSONBytes(buf.Bytes())
	default:
		return failed(imp.Catalog.Format(locale.MsgFormatUnsupported, map[string]any{"Format": format}))
	}
}

// DetectFormat maps a file name to an import format by extension.
func DetectFormat(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case config.ExtCSV:
		return config.FormatCSV, nil
	case config.ExtJSON:
		return config.FormatJSON, nil
	case config.ExtVCF, config.ExtVCard:
		return config.FormatVCard, nil
	case config.ExtXLSX:
		return config.FormatXLSX, nil
	default:
		return "", fmt.Errorf("%s: %q", config.ErrFormatUnknown, name)
	}
}

// ValidFormat reports whether format names a supported import format.
func ValidFormat(format string) bool {
	switch format {
	case config.FormatCSV, config.FormatJSON, config.FormatVCard, config.FormatXLSX:
		return true
	}
	return false
}

// recoverInto turns a panic inside a pipeline into a failed Result so that a
// malformed input can never take the caller down.
func (imp *Importer) recoverInto(res *Result, format string, msg *i18n.Message) {
	r := recover()
	if r == nil {
		return
	}
	slog.Error(config.MsgImportRecovered,
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyFormat, format,
		config.LogKeyError, r,
	)
	*res = failed(imp.Catalog.Format(msg, map[string]any{"Reason": fmt.Sprint(r)}))
}

func (imp *Importer) logFinished(log *slog.Logger, res Result, start time.Time) {
	log.Info(config.MsgImportFinished,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyContacts, len(res.Contacts)),
			slog.Int(config.LogKeyErrors, len(res.Errors)),
			slog.Int(config.LogKeyWarnings, len(res.Warnings)),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
}
