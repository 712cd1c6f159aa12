package workbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/playerscore/internal/domain/types"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used for exports.
const DefaultSheet = "Sheet1"

// Format is an export encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a user-supplied name to a Format. Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName returns the download name for the format.
func (f Format) FileName() string {
	return "filtered_data." + string(f)
}

// Write encodes t in the given format.
func Write(w io.Writer, f Format, t types.Table) error {
	switch f {
	case FormatXLSX:
		return Encode(w, t, DefaultSheet)
	case FormatCSV:
		return EncodeCSV(w, t)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Encode writes t as a single-sheet xlsx workbook with a header row.
func Encode(w io.Writer, t types.Table, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// EncodeCSV writes t as comma-separated values with a header row.
func EncodeCSV(w io.Writer, t types.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
