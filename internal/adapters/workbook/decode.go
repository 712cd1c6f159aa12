// Package workbook converts between xlsx spreadsheets and player datasets.
package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okian/playerscore/internal/domain/player"
	"github.com/xuri/excelize/v2"
)

// DecodeOptions controls how a sheet is read.
type DecodeOptions struct {
	// Sheet selects the sheet by name; empty means the first sheet.
	Sheet string
	// ScoreMarker overrides player.DefaultScoreMarker.
	ScoreMarker string
}

// Report summarizes a decode.
type Report struct {
	Sheet   string
	Rows    int
	Dropped int
	Columns []string
}

// required columns every dataset must carry.
var required = []string{
	player.ColPlayer,
	player.ColPosition,
	player.ColAge,
	player.ColUsage,
	player.ColTier,
	player.ColLeague,
}

// aliases maps lower-cased header spellings to canonical column names.
var aliases = map[string]string{
	"player":           player.ColPlayer,
	"name":             player.ColPlayer,
	"team":             player.ColTeam,
	"club":             player.ColTeam,
	"position":         player.ColPosition,
	"pos":              player.ColPosition,
	"age":              player.ColAge,
	"usage":            player.ColUsage,
	"tier":             player.ColTier,
	"league":           player.ColLeague,
	"contract expiry":  player.ColContractExpiry,
	"contractexpiry":   player.ColContractExpiry,
	"contract_expiry":  player.ColContractExpiry,
	"contract expires": player.ColContractExpiry,
	"contract end":     player.ColContractExpiry,
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Decode reads the sheet into a normalized dataset. Rows with a contract
// expiry that does not parse are dropped and counted in the report.
func Decode(r io.Reader, opts DecodeOptions) (*player.Dataset, Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, Report{}, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if len(rows) == 0 {
		return nil, Report{}, fmt.Errorf("%w: sheet %q has no header row", ErrMissingColumn, sheet)
	}

	columns := canonicalHeader(rows[0])
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, Report{}, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
	}
	for _, c := range required {
		if _, ok := index[c]; !ok {
			return nil, Report{}, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}

	marker := opts.ScoreMarker
	if marker == "" {
		marker = player.DefaultScoreMarker
	}
	var scoreCols []string
	for _, c := range columns {
		if player.IsScoreColumn(c, marker) {
			scoreCols = append(scoreCols, c)
		}
	}
	if len(scoreCols) == 0 {
		return nil, Report{}, fmt.Errorf("%w: no column contains %q", ErrNoScoreColumns, marker)
	}
	_, hasContracts := index[player.ColContractExpiry]

	report := Report{Sheet: sheet, Columns: columns}
	records := make([]player.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := player.Record{
			Player:   cell(player.ColPlayer),
			Team:     cell(player.ColTeam),
			Position: cell(player.ColPosition),
			Age:      number(cell(player.ColAge)),
			Usage:    number(cell(player.ColUsage)),
			Tier:     cell(player.ColTier),
			League:   cell(player.ColLeague),
			Scores:   make(map[string]float64, len(scoreCols)),
		}
		if hasContracts {
			t, ok := parseDate(cell(player.ColContractExpiry), date1904)
			if !ok {
				report.Dropped++
				continue
			}
			rec.ContractExpiry = t
			rec.ContractYear = t.Year()
			rec.HasContract = true
		}
		for _, c := range scoreCols {
			rec.Scores[c] = number(cell(c))
		}
		for _, c := range columns {
			if isCanonical(c) || player.IsScoreColumn(c, marker) {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[c] = cell(c)
		}
		records = append(records, rec)
	}
	report.Rows = len(records)

	ds := player.NewDataset(columns, records, player.WithScoreMarker(marker))
	return ds, report, nil
}

func canonicalHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if canon, ok := aliases[strings.ToLower(h)]; ok {
			h = canon
		}
		if h == "" {
			h = "Column " + strconv.Itoa(i+1)
		}
		out[i] = h
	}
	return out
}

func isCanonical(c string) bool {
	switch c {
	case player.ColPlayer, player.ColTeam, player.ColPosition, player.ColAge,
		player.ColUsage, player.ColTier, player.ColLeague, player.ColContractExpiry:
		return true
	}
	return false
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// number parses a numeric cell; empty or malformed cells count as zero.
func number(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDate accepts excel serial dates and common textual layouts.
func parseDate(s string, date1904 bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
