package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get should return a usable logger", func() {
			l := Get()
			So(l, ShouldNotBeNil)
			So(func() { l.Info(context.Background(), "test message", String("k", "v")) }, ShouldNotPanic)
		})

		Convey("And Named should return a child logger", func() {
			So(Named("test"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		So(Init(), ShouldBeNil)
		var buf bytes.Buffer
		SetOutput(&buf)
		defer SetOutput(os.Stdout)
		ctx := context.Background()

		Convey("When logging at info level", func() {
			Get().Info(ctx, "dataset loaded", Int("records", 12), Bool("cached", true))

			Convey("Then the message, fields and source are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "dataset loaded")
				So(out, ShouldContainSubstring, "records=12")
				So(out, ShouldContainSubstring, "cached=true")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")
			Get().Error(ctx, "shown")

			Convey("Then lower levels are suppressed", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When switching to json format", func() {
			So(SetFormat("json"), ShouldBeNil)
			defer func() { _ = SetFormat("text") }()
			Get().Warn(ctx, "as json", String("rank", "Overall Score (0-100)"))

			Convey("Then each line is a json object", func() {
				var line map[string]any
				So(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "as json")
				So(line["rank"], ShouldEqual, "Overall Score (0-100)")
			})
		})
	})
}

func TestSetLevelAndFormatValidation(t *testing.T) {
	Convey("Given level and format parsers", t, func() {
		Convey("Then known values are accepted", func() {
			for _, lvl := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
			So(SetFormat("TEXT"), ShouldBeNil)
		})

		Convey("And unknown values are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
			So(SetFormat("xml"), ShouldNotBeNil)
		})
		_ = SetLevelString("info")
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()
		So(func() { l.Named("x").Error(context.Background(), "dropped") }, ShouldNotPanic)
	})
}
