package sampledata_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/sampledata"
	"github.com/okian/playerscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a sample config", t, func() {
		cfg := sampledata.Config{Players: 200, Seed: 42, BadContractRate: 0.1, BaseYear: 2026}

		Convey("When generating twice", func() {
			a, badA := sampledata.Generate(cfg)
			b, badB := sampledata.Generate(cfg)

			Convey("Then the output is deterministic", func() {
				So(a, ShouldResemble, b)
				So(badA, ShouldEqual, badB)
				So(a.Len(), ShouldEqual, 200)
				So(a.Columns, ShouldResemble, sampledata.Columns())
			})
		})

		Convey("When decoding the written workbook", func() {
			var buf bytes.Buffer
			So(sampledata.Write(context.Background(), &buf, cfg, workbook.FormatXLSX), ShouldBeNil)
			_, bad := sampledata.Generate(cfg)

			ds, report, err := workbook.Decode(&buf, workbook.DecodeOptions{Sheet: sampledata.SheetName})

			Convey("Then unparseable contracts are dropped", func() {
				So(err, ShouldBeNil)
				So(report.Dropped, ShouldEqual, bad)
				So(ds.Len(), ShouldEqual, 200-bad)
				So(ds.ScoreColumns(), ShouldResemble, sampledata.ScoreColumns)
			})

			Convey("And every league belongs to one tier", func() {
				owner := map[string]string{}
				for i := 0; i < ds.Len(); i++ {
					r := ds.At(i)
					if t, ok := owner[r.League]; ok {
						So(t, ShouldEqual, r.Tier)
					}
					owner[r.League] = r.Tier
					So(sampledata.LeaguesByTier[r.Tier], ShouldContain, r.League)
				}
			})

			Convey("And contract years span the configured window", func() {
				lo, hi, ok := ds.ContractYearBounds()
				So(ok, ShouldBeTrue)
				So(lo, ShouldBeGreaterThanOrEqualTo, 2026)
				So(hi, ShouldBeLessThanOrEqualTo, 2030)
			})

			Convey("And the player id passes through", func() {
				So(ds.At(0).Extra[sampledata.ColPlayerID], ShouldHaveLength, 36)
			})
		})
	})
}
