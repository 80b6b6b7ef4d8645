package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "tfcli/internal/errors"
)

// tableRow is one raw data row. Err is set when the row itself was
// structurally malformed (bad quoting in CSV); the file as a whole is still
// readable and the row becomes a ParseIssue downstream.
type tableRow struct {
	cells []string
	err   error
}

// readTable reads the input file into a header row plus data rows,
// dispatching on file extension. A missing or unreadable file is fatal.
func readTable(path string) ([]string, []tableRow, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, apperrors.ErrInputNotFound.WithMessage("input file %s not found", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcel(path)
	default:
		return readCSV(path)
	}
}

// readCSV reads a delimited file with a header row. Field counts may vary
// between rows; per-row quoting errors are carried on the row instead of
// aborting the read.
func readCSV(path string) ([]string, []tableRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.ErrInputUnreadable.WithMessage("failed to open %s", path).Wrap(err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, apperrors.ErrInputUnreadable.WithMessage("failed to read header from %s", path).Wrap(err)
	}

	var rows []tableRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rows = append(rows, tableRow{err: err})
				continue
			}
			return nil, nil, apperrors.ErrInputUnreadable.WithMessage("failed to read rows from %s", path).Wrap(err)
		}
		rows = append(rows, tableRow{cells: record})
	}

	return header, rows, nil
}

// readExcel reads the first sheet that contains at least a header row.
// Survey platforms export a single data sheet, so no sheet name is assumed.
func readExcel(path string) ([]string, []tableRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.ErrInputUnreadable.WithMessage("failed to open %s", path).Wrap(err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil || len(sheetRows) == 0 {
			continue
		}
		header := sheetRows[0]
		rows := make([]tableRow, 0, len(sheetRows)-1)
		for _, cells := range sheetRows[1:] {
			rows = append(rows, tableRow{cells: cells})
		}
		return header, rows, nil
	}

	return nil, nil, apperrors.ErrInputUnreadable.WithMessage("no sheet with a header row in %s", path)
}

// rowRef formats the stable 1-based source row reference
func rowRef(dataRow int) string {
	return fmt.Sprintf("R%04d", dataRow)
}
