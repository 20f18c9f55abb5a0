package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/locale"
	"github.com/xuri/excelize/v2"
)

// ImportXLSX reads the first sheet of a workbook and runs the CSV pipeline on
// its rows. Empty rows are dropped as blank CSV lines would be.
func (imp *Importer) ImportXLSX(r io.Reader) (res Result) {
	defer imp.recoverInto(&res, config.FormatXLSX, locale.MsgXLSXFailed)

	rows, err := readSheetRows(r)
	if err != nil {
		return failed(imp.Catalog.Format(locale.MsgXLSXFailed, map[string]any{"Reason": err.Error()}))
	}
	return imp.importRows(config.FormatXLSX, rows)
}

func readSheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrXLSXOpen, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(config.ErrXLSXNoSheet)
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrXLSXOpen, err)
	}

	rows := make([][]string, 0, len(raw))
	for _, cells := range raw {
		if blankRow(cells) {
			continue
		}
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
