package config_test

import (
	"errors"
	"testing"

	"github.com/okian/smartscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.Convey("Then it validates", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.Step(), convey.ShouldAlmostEqual, 0.1)
		})

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"an unknown log level", func(c *config.Config) { c.LogLevel = "loud" }},
			{"an unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"a zero step", func(c *config.Config) { c.StepPercent = 0 }},
			{"a step above 100", func(c *config.Config) { c.StepPercent = 200 }},
			{"a zero chunk size", func(c *config.Config) { c.ChunkSize = 0 }},
			{"negative workers", func(c *config.Config) { c.WorkerCount = -1 }},
			{"a zero queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"a zero top_n", func(c *config.Config) { c.TopN = 0 }},
			{"a zero max_vectors", func(c *config.Config) { c.MaxVectors = 0 }},
			{"an unknown mode", func(c *config.Config) { c.Mode = "random" }},
		}
		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then it is rejected", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When the step is 100 percent", func() {
			cfg.StepPercent = 100
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the step does not divide 100", func() {
			cfg.StepPercent = 7
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.Step(), convey.ShouldAlmostEqual, 0.07)
		})
	})
}
