package service

import (
	"github.com/okian/playerscore/internal/adapters/source"
	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/domain/filter"
	"github.com/okian/playerscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where the dataset is read from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithDecodeOptions sets the sheet and score marker used when decoding.
func WithDecodeOptions(opts workbook.DecodeOptions) Option {
	return func(s *Service) {
		s.decode = opts
	}
}

// WithAllSentinel overrides the league value meaning "every league".
func WithAllSentinel(sentinel string) Option {
	return func(s *Service) {
		if sentinel != "" {
			s.allSentinel = sentinel
		}
	}
}

// WithDisplayColumns sets the columns shown ahead of the rank column.
func WithDisplayColumns(cols []string) Option {
	return func(s *Service) {
		if len(cols) > 0 {
			s.displayColumns = append([]string(nil), cols...)
		}
	}
}

// WithMaxResultLimit caps the rows returned by Query. Zero means unlimited.
func WithMaxResultLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.maxResultLimit = limit
		}
	}
}

// WithUsageBounds sets the usage interval offered to clients and used by
// DefaultCriteria.
func WithUsageBounds(lo, hi float64) Option {
	return func(s *Service) {
		if lo <= hi {
			s.usage = filter.Range{Min: lo, Max: hi}
		}
	}
}
