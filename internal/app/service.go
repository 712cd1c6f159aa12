// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/playerscore/internal/adapters/source"
	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/domain/filter"
	"github.com/okian/playerscore/internal/domain/player"
	"github.com/okian/playerscore/internal/domain/types"
	"github.com/okian/playerscore/pkg/logger"
	"github.com/okian/playerscore/pkg/metrics"
)

// DefaultDisplayColumns precede the rank column in results.
var DefaultDisplayColumns = []string{
	player.ColPlayer,
	player.ColTeam,
	player.ColPosition,
	player.ColAge,
	player.ColUsage,
}

// Default usage slider bounds.
const (
	DefaultUsageMin = 0
	DefaultUsageMax = 90
)

// snapshot is one loaded dataset. It is replaced whole on reload.
type snapshot struct {
	ds       *player.Dataset
	report   workbook.Report
	display  []string
	loadedAt time.Time
}

// Menu lists the choices a client can offer for a dataset.
type Menu struct {
	Positions      []string          `json:"positions"`
	Tiers          []string          `json:"tiers"`
	Leagues        []string          `json:"leagues"`
	AllSentinel    string            `json:"all_sentinel"`
	Age            filter.Range      `json:"age"`
	Usage          filter.Range      `json:"usage"`
	ContractYears  *filter.YearRange `json:"contract_years,omitempty"`
	ScoreColumns   []string          `json:"score_columns"`
	DefaultRank    string            `json:"default_rank"`
	DisplayColumns []string          `json:"display_columns"`
}

// Result is a ranked, projected query answer.
type Result struct {
	RankColumn string      `json:"rank_column"`
	Total      int         `json:"total"`
	Table      types.Table `json:"table"`
}

// Service loads a player dataset and answers filter-and-rank queries over it.
type Service struct {
	mu sync.Mutex // serializes loads

	source         source.Source
	decode         workbook.DecodeOptions
	allSentinel    string
	displayColumns []string
	maxResultLimit int
	usage          filter.Range

	current atomic.Pointer[snapshot]
	loads   atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		allSentinel:    filter.DefaultAllSentinel,
		displayColumns: slices.Clone(DefaultDisplayColumns),
		maxResultLimit: 1000,
		usage:          filter.Range{Min: DefaultUsageMin, Max: DefaultUsageMax},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset once. Calling Start on a loaded service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	if s.current.Load() != nil {
		return nil
	}
	return s.load(ctx, false)
}

// Reload fetches and decodes the dataset again and swaps it in. Queries keep
// using the previous dataset until the swap, and on failure.
func (s *Service) Reload(ctx context.Context) error {
	return s.load(ctx, true)
}

type refresher interface {
	Refresh(ctx context.Context) ([]byte, error)
}

func (s *Service) load(ctx context.Context, refresh bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return ErrNoSource
	}
	if !refresh && s.current.Load() != nil {
		return nil
	}
	s.logger.Info(ctx, "loading player dataset...",
		logger.String("location", s.source.Location()),
		logger.Bool("reload", refresh),
	)
	start := time.Now()

	fetch := s.source.Fetch
	if r, ok := s.source.(refresher); ok && refresh {
		fetch = r.Refresh
	}
	raw, err := fetch(ctx)
	if err != nil {
		metrics.RecordDatasetLoadError()
		s.logger.Error(ctx, "dataset fetch failed",
			logger.String("location", s.source.Location()),
			logger.Error(err),
		)
		return err
	}

	ds, report, err := workbook.Decode(bytes.NewReader(raw), s.decode)
	if r, ok := s.source.(refresher); err != nil && ok && !refresh {
		// A cached payload may be stale or corrupt; go to the origin once.
		s.logger.Warn(ctx, "cached dataset does not decode, refreshing from source",
			logger.String("location", s.source.Location()),
			logger.Error(err),
		)
		if raw, err = r.Refresh(ctx); err == nil {
			ds, report, err = workbook.Decode(bytes.NewReader(raw), s.decode)
		}
	}
	if err != nil {
		metrics.RecordDatasetLoadError()
		s.logger.Error(ctx, "dataset decode failed",
			logger.String("location", s.source.Location()),
			logger.Error(err),
		)
		return err
	}

	display := make([]string, 0, len(s.displayColumns))
	for _, c := range s.displayColumns {
		if !ds.HasColumn(c) {
			metrics.RecordConfigurationError("display_column")
			s.logger.Warn(ctx, "display column not in dataset, skipping",
				logger.String("column", c),
			)
			continue
		}
		display = append(display, c)
	}

	now := time.Now()
	s.current.Store(&snapshot{ds: ds, report: report, display: display, loadedAt: now})
	s.loads.Add(1)

	elapsed := time.Since(start)
	metrics.RecordDatasetLoad(float64(elapsed.Milliseconds()), report.Rows, report.Dropped, now.Unix())
	s.logger.Info(ctx, "player dataset loaded",
		logger.String("location", s.source.Location()),
		logger.String("sheet", report.Sheet),
		logger.Int("records", report.Rows),
		logger.Int("dropped", report.Dropped),
		logger.Strings("scoreColumns", ds.ScoreColumns()),
		logger.Duration("elapsed", elapsed),
	)
	return nil
}

func (s *Service) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Dataset returns the loaded dataset.
func (s *Service) Dataset() (*player.Dataset, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.ds, nil
}

// Options returns the filter menu. Leagues cascade from tiers; nil tiers
// means every tier. The sentinel is listed first when any league is reachable.
func (s *Service) Options(_ context.Context, tiers []string) (Menu, error) {
	snap, err := s.snapshot()
	if err != nil {
		return Menu{}, err
	}
	ds := snap.ds
	if tiers == nil {
		tiers = ds.Tiers()
	}

	leagues := filter.LeaguesFor(ds, tiers)
	if len(leagues) > 0 {
		leagues = append([]string{s.allSentinel}, leagues...)
	}
	ageLo, ageHi := ds.AgeBounds()
	m := Menu{
		Positions:      ds.Positions(),
		Tiers:          ds.Tiers(),
		Leagues:        leagues,
		AllSentinel:    s.allSentinel,
		Age:            filter.Range{Min: ageLo, Max: ageHi},
		Usage:          s.usage,
		ScoreColumns:   ds.ScoreColumns(),
		DisplayColumns: slices.Clone(snap.display),
	}
	if lo, hi, ok := ds.ContractYearBounds(); ok {
		m.ContractYears = &filter.YearRange{Min: lo, Max: hi}
	}
	if cols := ds.ScoreColumns(); len(cols) > 0 {
		m.DefaultRank = cols[0]
	}
	return m, nil
}

// DefaultCriteria returns the selections a fresh dashboard starts with:
// every tier, the league sentinel, full ranges and the first score column.
func (s *Service) DefaultCriteria(_ context.Context) (filter.Criteria, error) {
	snap, err := s.snapshot()
	if err != nil {
		return filter.Criteria{}, err
	}
	ds := snap.ds
	ageLo, ageHi := ds.AgeBounds()
	c := filter.Criteria{
		Age:         filter.Range{Min: ageLo, Max: ageHi},
		Usage:       s.usage,
		Tiers:       ds.Tiers(),
		Leagues:     []string{s.allSentinel},
		AllSentinel: s.allSentinel,
	}
	if lo, hi, ok := ds.ContractYearBounds(); ok {
		c.ContractYears = &filter.YearRange{Min: lo, Max: hi}
	}
	if cols := ds.ScoreColumns(); len(cols) > 0 {
		c.RankColumn = cols[0]
	}
	return c, nil
}

// Query filters and ranks the dataset and projects the display columns plus
// the rank column. limit <= 0 or above the configured cap uses the cap.
func (s *Service) Query(ctx context.Context, c filter.Criteria, limit int) (Result, error) {
	snap, err := s.snapshot()
	if err != nil {
		return Result{}, err
	}
	start := time.Now()

	records, err := s.apply(ctx, snap, c)
	if err != nil {
		return Result{}, err
	}
	total := len(records)
	if n := s.effectiveLimit(limit); n > 0 && len(records) > n {
		records = records[:n]
	}

	tbl, err := types.Project(records, columnsFor(snap.display, c.RankColumn))
	if err != nil {
		metrics.RecordConfigurationError("projection")
		return Result{}, fmt.Errorf("%w: %v", filter.ErrConfiguration, err)
	}

	metrics.RecordQuery(float64(time.Since(start).Microseconds())/1000, tbl.Len())
	return Result{RankColumn: c.RankColumn, Total: total, Table: tbl}, nil
}

// Export encodes the full filtered and ranked result in the given format.
// Every dataset column is written in header order, not only the display columns.
func (s *Service) Export(ctx context.Context, c filter.Criteria, format workbook.Format) ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	records, err := s.apply(ctx, snap, c)
	if err != nil {
		return nil, err
	}
	tbl, err := types.Project(records, columnsFor(snap.ds.Columns(), c.RankColumn))
	if err != nil {
		metrics.RecordConfigurationError("projection")
		return nil, fmt.Errorf("%w: %v", filter.ErrConfiguration, err)
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf, format, tbl); err != nil {
		return nil, err
	}
	metrics.RecordExport(string(format), tbl.Len())
	s.logger.Debug(ctx, "exported ranked players",
		logger.String("format", string(format)),
		logger.Int("rows", tbl.Len()),
		logger.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (s *Service) apply(ctx context.Context, snap *snapshot, c filter.Criteria) ([]player.Record, error) {
	if c.AllSentinel == "" {
		c.AllSentinel = s.allSentinel
	}
	records, err := filter.Apply(snap.ds, c)
	if err != nil {
		metrics.RecordConfigurationError("rank_column")
		s.logger.Debug(ctx, "query rejected",
			logger.String("rankColumn", c.RankColumn),
			logger.Error(err),
		)
		return nil, err
	}
	return records, nil
}

func (s *Service) effectiveLimit(limit int) int {
	if s.maxResultLimit == 0 {
		return limit
	}
	if limit <= 0 || limit > s.maxResultLimit {
		return s.maxResultLimit
	}
	return limit
}

func columnsFor(columns []string, rank string) []string {
	cols := slices.Clone(columns)
	if !slices.Contains(cols, rank) {
		cols = append(cols, rank)
	}
	return cols
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"loaded":         false,
		"loads":          s.loads.Load(),
		"allSentinel":    s.allSentinel,
		"maxResultLimit": s.maxResultLimit,
	}
	if s.source != nil {
		stats["location"] = s.source.Location()
	}
	snap := s.current.Load()
	if snap == nil {
		return stats
	}
	stats["loaded"] = true
	stats["loadedAt"] = snap.loadedAt.UTC().Format(time.RFC3339)
	stats["sheet"] = snap.report.Sheet
	stats["records"] = snap.ds.Len()
	stats["droppedRows"] = snap.report.Dropped
	stats["scoreColumns"] = snap.ds.ScoreColumns()
	stats["tiers"] = len(snap.ds.Tiers())
	stats["leagues"] = len(snap.ds.Leagues())
	if n, err := metrics.Gather(); err == nil {
		stats["metricFamilies"] = n
	}
	return stats
}
