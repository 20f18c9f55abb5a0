package importer

import (
	"strings"

	"github.com/tartampluch/orbita/internal/config"
)

// ParseRows splits delimited text into rows of trimmed cells.
//
// Lines are separated by LF or CRLF and whitespace-only lines are dropped.
// A double quote toggles quoted mode, in which commas are literal; a doubled
// quote inside quoted mode yields one literal quote. Quoted fields cannot
// span lines. Rows may have different lengths.
func ParseRows(text string) [][]string {
	var rows [][]string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, parseLine(line))
	}

	return rows
}

func parseLine(line string) []string {
	var (
		row      []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; {
		case ch == config.CSVQuote:
			if inQuotes && i+1 < len(runes) && runes[i+1] == config.CSVQuote {
				current.WriteRune(config.CSVQuote)
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == config.CSVSeparator && !inQuotes:
			row = append(row, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(row, strings.TrimSpace(current.String()))
}

// blankRow reports whether every cell of row is empty.
func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
