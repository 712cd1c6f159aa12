package workbook_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

const overall = "Overall Score (0-100)"

// sheetBytes builds an xlsx with the given rows on a sheet.
func sheetBytes(sheet string, rows [][]any) []byte {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			panic(err)
		}
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			panic(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	Convey("Given a sheet with the dashboard columns", t, func() {
		data := sheetBytes("Sheet1", [][]any{
			{"Player", "Team", "Position", "Age", "Usage", "Tier", "League", overall, "Passing Score (0-100)", "Foot"},
			{"X", "Blues", "FW", 22, 30, "1", "A", 80, 55.5, "L"},
			{"Y", "Reds", "MF", 28, "", "1", "A", 90, "", "R"},
			{"", "", "", "", "", "", "", "", "", ""},
			{"Z", "Greens", "DF", "n/a", 45, 2, "B", "", 12, ""},
		})

		Convey("When decoding", func() {
			ds, report, err := workbook.Decode(bytes.NewReader(data), workbook.DecodeOptions{})

			Convey("Then every non-blank row becomes a record", func() {
				So(err, ShouldBeNil)
				So(report.Sheet, ShouldEqual, "Sheet1")
				So(report.Rows, ShouldEqual, 3)
				So(report.Dropped, ShouldEqual, 0)
				So(ds.Len(), ShouldEqual, 3)
			})

			Convey("And missing or malformed numbers are zero", func() {
				So(ds.At(1).Usage, ShouldEqual, 0)
				So(ds.At(1).Score("Passing Score (0-100)"), ShouldEqual, 0)
				So(ds.At(2).Age, ShouldEqual, 0)
				So(ds.At(2).Score(overall), ShouldEqual, 0)
			})

			Convey("And typed cells are read as text or numbers", func() {
				So(ds.At(0).Age, ShouldEqual, 22)
				So(ds.At(0).Score("Passing Score (0-100)"), ShouldEqual, 55.5)
				So(ds.At(2).Tier, ShouldEqual, "2")
			})

			Convey("And score and extra columns are separated", func() {
				So(ds.ScoreColumns(), ShouldResemble, []string{overall, "Passing Score (0-100)"})
				So(ds.At(0).Extra["Foot"], ShouldEqual, "L")
				So(ds.HasContracts(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a sheet with contract dates", t, func() {
		data := sheetBytes("Players", [][]any{
			{"player", "POSITION", "Age", "Usage", "Tier", "League", "Contract Expiry", overall},
			{"A", "FW", 20, 10, "1", "A", "2026-06-30", 50},
			{"B", "FW", 21, 10, "1", "A", 46203, 60},
			{"C", "FW", 22, 10, "1", "A", "unknown", 70},
			{"D", "FW", 23, 10, "1", "A", "", 80},
			{"E", "FW", 24, 10, "1", "A", "06/30/2027", 90},
		})

		Convey("When decoding the named sheet", func() {
			ds, report, err := workbook.Decode(bytes.NewReader(data), workbook.DecodeOptions{Sheet: "Players"})

			Convey("Then rows with unparseable dates are dropped at load", func() {
				So(err, ShouldBeNil)
				So(report.Dropped, ShouldEqual, 2)
				So(ds.Len(), ShouldEqual, 3)
				So(ds.HasContracts(), ShouldBeTrue)
			})

			Convey("And contract years are derived from text and serial dates", func() {
				So(ds.At(0).ContractYear, ShouldEqual, 2026)
				So(ds.At(1).ContractYear, ShouldEqual, 2026)
				So(ds.At(2).Player, ShouldEqual, "E")
				So(ds.At(2).ContractYear, ShouldEqual, 2027)
			})

			Convey("And headers are canonicalized", func() {
				So(report.Columns[0], ShouldEqual, "Player")
				So(report.Columns[1], ShouldEqual, "Position")
				So(report.Columns[6], ShouldEqual, "Contract expiry")
			})
		})

		Convey("When the sheet does not exist", func() {
			_, _, err := workbook.Decode(bytes.NewReader(data), workbook.DecodeOptions{Sheet: "Nope"})
			So(errors.Is(err, workbook.ErrSheetNotFound), ShouldBeTrue)
		})
	})

	Convey("Given malformed workbooks", t, func() {
		Convey("When a required column is missing", func() {
			data := sheetBytes("Sheet1", [][]any{{"Player", "Age", overall}, {"X", 20, 1}})
			_, _, err := workbook.Decode(bytes.NewReader(data), workbook.DecodeOptions{})
			So(errors.Is(err, workbook.ErrMissingColumn), ShouldBeTrue)
		})

		Convey("When there is no score column", func() {
			data := sheetBytes("Sheet1", [][]any{{"Player", "Position", "Age", "Usage", "Tier", "League"}})
			_, _, err := workbook.Decode(bytes.NewReader(data), workbook.DecodeOptions{})
			So(errors.Is(err, workbook.ErrNoScoreColumns), ShouldBeTrue)
		})

		Convey("When a custom marker is configured", func() {
			data := sheetBytes("Sheet1", [][]any{{"Player", "Position", "Age", "Usage", "Tier", "League", "xG rating"}, {"X", "FW", 20, 1, "1", "A", 3}})
			ds, _, err := workbook.Decode(bytes.NewReader(data), workbook.DecodeOptions{ScoreMarker: "rating"})
			So(err, ShouldBeNil)
			So(ds.ScoreColumns(), ShouldResemble, []string{"xG rating"})
		})

		Convey("When columns repeat", func() {
			data := sheetBytes("Sheet1", [][]any{{"Player", "Name", "Position", "Age", "Usage", "Tier", "League", overall}})
			_, _, err := workbook.Decode(bytes.NewReader(data), workbook.DecodeOptions{})
			So(errors.Is(err, workbook.ErrDuplicateColumn), ShouldBeTrue)
		})

		Convey("When the bytes are not a workbook", func() {
			_, _, err := workbook.Decode(bytes.NewReader([]byte("not a zip")), workbook.DecodeOptions{})
			So(errors.Is(err, workbook.ErrOpen), ShouldBeTrue)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Given a ranked table", t, func() {
		tbl := types.Table{
			Columns: []string{"Player", "Age", overall},
			Rows:    [][]any{{"Y", 28.0, 90.0}, {"X", 22.0, 80.5}},
		}

		Convey("When encoding as xlsx", func() {
			var buf bytes.Buffer
			err := workbook.Encode(&buf, tbl, "")

			Convey("Then the workbook has a header and the rows in order", func() {
				So(err, ShouldBeNil)
				f, err := excelize.OpenReader(&buf)
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()
				rows, err := f.GetRows(workbook.DefaultSheet)
				So(err, ShouldBeNil)
				So(rows[0], ShouldResemble, []string{"Player", "Age", overall})
				So(rows[1], ShouldResemble, []string{"Y", "28", "90"})
				So(rows[2], ShouldResemble, []string{"X", "22", "80.5"})
			})
		})

		Convey("When encoding into a named sheet", func() {
			var buf bytes.Buffer
			So(workbook.Encode(&buf, tbl, "Shortlist"), ShouldBeNil)
			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer func() { _ = f.Close() }()
			So(f.GetSheetList(), ShouldResemble, []string{"Shortlist"})
		})

		Convey("When encoding as csv", func() {
			var buf bytes.Buffer
			So(workbook.Write(&buf, workbook.FormatCSV, tbl), ShouldBeNil)
			lines, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)
			So(lines, ShouldResemble, [][]string{{"Player", "Age", overall}, {"Y", "28", "90"}, {"X", "22", "80.5"}})
		})
	})

	Convey("Given export format names", t, func() {
		f, err := workbook.ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, workbook.FormatXLSX)
		So(f.FileName(), ShouldEqual, "filtered_data.xlsx")
		So(f.ContentType(), ShouldEqual, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

		f, err = workbook.ParseFormat("CSV")
		So(err, ShouldBeNil)
		So(f.ContentType(), ShouldStartWith, "text/csv")

		_, err = workbook.ParseFormat("pdf")
		So(errors.Is(err, workbook.ErrUnknownFormat), ShouldBeTrue)
		So(errors.Is(workbook.Write(&bytes.Buffer{}, workbook.Format("pdf"), types.Table{}), workbook.ErrUnknownFormat), ShouldBeTrue)
	})
}
