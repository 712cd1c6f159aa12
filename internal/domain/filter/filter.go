// Package filter implements the filter-and-rank engine: a conjunctive
// filter over a player dataset followed by a stable descending sort on one
// score column.
//
// Apply and LeaguesFor are pure. They never mutate the dataset and keep no
// state between calls.
package filter

import (
	"fmt"
	"slices"

	"github.com/okian/playerscore/internal/domain/player"
)

// DefaultAllSentinel is the league value meaning "every league of the
// selected tiers".
const DefaultAllSentinel = "All"

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// YearRange is an inclusive interval of contract years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether y lies in [Min, Max].
func (r YearRange) Contains(y int) bool {
	return y >= r.Min && y <= r.Max
}

// Criteria is the full set of user selections for one evaluation.
type Criteria struct {
	// Positions restricts Position when non-empty.
	Positions []string
	Age       Range
	Usage     Range
	// Tiers is mandatory-inclusive: empty selects nothing.
	Tiers []string
	// Leagues is resolved against the leagues reachable from Tiers. A value
	// equal to AllSentinel selects the whole reachable set.
	Leagues []string
	// ContractYears is applied only when non-nil.
	ContractYears *YearRange
	RankColumn    string

	// AllSentinel overrides DefaultAllSentinel when set.
	AllSentinel string
}

func (c Criteria) allSentinel() string {
	if c.AllSentinel != "" {
		return c.AllSentinel
	}
	return DefaultAllSentinel
}

// Apply returns the records of ds satisfying every predicate of c, sorted
// by c.RankColumn descending. Records with equal rank values keep their
// dataset order. The result shares no mutable state with ds.
func Apply(ds *player.Dataset, c Criteria) ([]player.Record, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	if c.RankColumn == "" {
		return nil, fmt.Errorf("%w: rank column is required", ErrUnknownRankColumn)
	}
	if !ds.IsScoreColumn(c.RankColumn) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRankColumn, c.RankColumn)
	}

	tiers := toSet(c.Tiers)
	leagues := toSet(ResolveLeagues(ds, c.Tiers, c.Leagues, c.allSentinel()))
	positions := toSet(c.Positions)

	out := make([]player.Record, 0)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if !matches(r, c, tiers, leagues, positions) {
			continue
		}
		out = append(out, r.Clone())
	}

	col := c.RankColumn
	slices.SortStableFunc(out, func(a, b player.Record) int {
		av, bv := a.Score(col), b.Score(col)
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		}
		return 0
	})
	return out, nil
}

func matches(r player.Record, c Criteria, tiers, leagues, positions map[string]struct{}) bool {
	if !c.Age.Contains(r.Age) || !c.Usage.Contains(r.Usage) {
		return false
	}
	if _, ok := tiers[r.Tier]; !ok {
		return false
	}
	if _, ok := leagues[r.League]; !ok {
		return false
	}
	if len(positions) > 0 {
		if _, ok := positions[r.Position]; !ok {
			return false
		}
	}
	if c.ContractYears != nil {
		if !r.HasContract || !c.ContractYears.Contains(r.ContractYear) {
			return false
		}
	}
	return true
}

// LeaguesFor returns the leagues of records whose tier is in tiers, in
// first-seen dataset order.
func LeaguesFor(ds *player.Dataset, tiers []string) []string {
	if ds == nil || len(tiers) == 0 {
		return []string{}
	}
	want := toSet(tiers)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if _, ok := want[r.Tier]; !ok {
			continue
		}
		if _, ok := seen[r.League]; ok {
			continue
		}
		seen[r.League] = struct{}{}
		out = append(out, r.League)
	}
	return out
}

// ResolveLeagues narrows a league selection to the set reachable from
// tiers. The sentinel anywhere in selected takes precedence and yields the
// whole reachable set; otherwise leagues outside it are discarded.
func ResolveLeagues(ds *player.Dataset, tiers, selected []string, sentinel string) []string {
	reachable := LeaguesFor(ds, tiers)
	if slices.Contains(selected, sentinel) {
		return reachable
	}
	want := toSet(selected)
	out := make([]string, 0, len(selected))
	for _, l := range reachable {
		if _, ok := want[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
