package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/playerscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Dataset, convey.ShouldEqual, "players.xlsx")
				convey.So(cfg.CacheBackend, convey.ShouldEqual, "none")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PLAYERSCORE_ADDR", ":8080")
			_ = os.Setenv("PLAYERSCORE_DATASET", "s3://scouting/players.xlsx")
			_ = os.Setenv("PLAYERSCORE_USAGE_MAX", "75")
			_ = os.Setenv("PLAYERSCORE_CACHE_BACKEND", "memory")
			_ = os.Setenv("PLAYERSCORE_DISPLAY_COLUMNS", "Player, Team ,Age")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Dataset, convey.ShouldEqual, "s3://scouting/players.xlsx")
				convey.So(cfg.UsageMax, convey.ShouldEqual, 75)
				convey.So(cfg.CacheBackend, convey.ShouldEqual, "memory")
				convey.So(cfg.DisplayColumns, convey.ShouldResemble, []string{"Player", "Team", "Age"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
dataset: "https://example.com/players.xlsx"
sheet: "Players"
usage_min: 10
usage_max: 60
cors_allowed_origins:
  - "https://scouting.example.com"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYERSCORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Dataset, convey.ShouldEqual, "https://example.com/players.xlsx")
				convey.So(cfg.Sheet, convey.ShouldEqual, "Players")
				convey.So(cfg.UsageMin, convey.ShouldEqual, 10)
				convey.So(cfg.UsageMax, convey.ShouldEqual, 60)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://scouting.example.com"})
				convey.So(cfg.MaxResultLimit, convey.ShouldEqual, 1000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
dataset: "from-file.xlsx"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYERSCORE_CONFIG", tmpFile)
			_ = os.Setenv("PLAYERSCORE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Dataset, convey.ShouldEqual, "from-file.xlsx")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYERSCORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PLAYERSCORE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PLAYERSCORE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When usage bounds are inverted", func() {
			_ = os.Setenv("PLAYERSCORE_USAGE_MIN", "70")
			_ = os.Setenv("PLAYERSCORE_USAGE_MAX", "20")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PLAYERSCORE_MAX_RESULT_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PLAYERSCORE_CONFIG",
		"PLAYERSCORE_ADDR",
		"PLAYERSCORE_DATASET",
		"PLAYERSCORE_USAGE_MIN",
		"PLAYERSCORE_USAGE_MAX",
		"PLAYERSCORE_CACHE_BACKEND",
		"PLAYERSCORE_DISPLAY_COLUMNS",
		"PLAYERSCORE_MAX_RESULT_LIMIT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "playerscore-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
