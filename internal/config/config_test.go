package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/playerscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Dataset, convey.ShouldEqual, "players.xlsx")
			convey.So(cfg.ScoreMarker, convey.ShouldEqual, "Score (0-100)")
			convey.So(cfg.AllSentinel, convey.ShouldEqual, "All")
			convey.So(cfg.UsageMin, convey.ShouldEqual, 0)
			convey.So(cfg.UsageMax, convey.ShouldEqual, 90)
			convey.So(cfg.DisplayColumns, convey.ShouldResemble, []string{"Player", "Team", "Position", "Age", "Usage"})
			convey.So(cfg.CacheBackend, convey.ShouldEqual, config.CacheNone)
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.ReloadInterval(), convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"dataset must not be empty": func(c *config.Config) { c.Dataset = "" },
			"exceeds usage_max":         func(c *config.Config) { c.UsageMin, c.UsageMax = 80, 20 },
			"max_result_limit":          func(c *config.Config) { c.MaxResultLimit = -1 },
			"cache_ttl_seconds":         func(c *config.Config) { c.CacheTTLSeconds = -5 },
			"unknown cache backend":     func(c *config.Config) { c.CacheBackend = "memcached" },
			"reload_interval_seconds":   func(c *config.Config) { c.ReloadIntervalSeconds = -1 },
		}
		for msg, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, msg)
		}

		cfg := config.New()
		cfg.CacheBackend = "memcached"
		convey.So(errors.Is(cfg.Validate(), config.ErrUnknownCacheBackend), convey.ShouldBeTrue)
	})
}
