package player

import (
	"maps"
	"slices"
)

// Dataset is an ordered, read-only sequence of normalized records.
// Build it with NewDataset; nothing mutates it afterwards.
type Dataset struct {
	columns      []string
	scoreColumns []string
	records      []Record
	hasContracts bool
}

// Option configures dataset construction.
type Option func(*datasetOptions)

type datasetOptions struct {
	scoreMarker string
}

// WithScoreMarker overrides the header substring that marks score columns.
func WithScoreMarker(marker string) Option {
	return func(o *datasetOptions) {
		if marker != "" {
			o.scoreMarker = marker
		}
	}
}

// NewDataset copies records and normalizes them: every score column gets a
// value on every record (zero when absent) and non-finite numbers become
// zero. columns is the ordered header of the source table.
func NewDataset(columns []string, records []Record, opts ...Option) *Dataset {
	o := datasetOptions{scoreMarker: DefaultScoreMarker}
	for _, opt := range opts {
		opt(&o)
	}

	ds := &Dataset{columns: slices.Clone(columns)}
	for _, c := range columns {
		if IsScoreColumn(c, o.scoreMarker) {
			ds.scoreColumns = append(ds.scoreColumns, c)
		}
		if c == ColContractExpiry {
			ds.hasContracts = true
		}
	}

	ds.records = make([]Record, len(records))
	for i, r := range records {
		r.Age = normalize(r.Age)
		r.Usage = normalize(r.Usage)
		scores := make(map[string]float64, len(ds.scoreColumns))
		for _, c := range ds.scoreColumns {
			scores[c] = normalize(r.Scores[c])
		}
		r.Scores = scores
		r.Extra = maps.Clone(r.Extra)
		if !ds.hasContracts {
			r.HasContract = false
			r.ContractYear = 0
		}
		ds.records[i] = r
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record. The maps inside are shared with the dataset
// and must not be written.
func (d *Dataset) At(i int) Record { return d.records[i] }

// Records returns an independent copy of every record.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	for i, r := range d.records {
		out[i] = r.Clone()
	}
	return out
}

// Columns returns the ordered header.
func (d *Dataset) Columns() []string { return slices.Clone(d.columns) }

// ScoreColumns returns the rankable columns in header order.
func (d *Dataset) ScoreColumns() []string { return slices.Clone(d.scoreColumns) }

// HasColumn reports whether name is part of the header.
func (d *Dataset) HasColumn(name string) bool { return slices.Contains(d.columns, name) }

// IsScoreColumn reports whether name is one of the dataset's score columns.
func (d *Dataset) IsScoreColumn(name string) bool { return slices.Contains(d.scoreColumns, name) }

// HasContracts reports whether the source carried contract expiry dates.
func (d *Dataset) HasContracts() bool { return d.hasContracts }

// Positions returns distinct positions in first-seen order.
func (d *Dataset) Positions() []string {
	return d.distinct(func(r Record) string { return r.Position })
}

// Tiers returns distinct tiers in first-seen order.
func (d *Dataset) Tiers() []string {
	return d.distinct(func(r Record) string { return r.Tier })
}

// Leagues returns distinct leagues in first-seen order.
func (d *Dataset) Leagues() []string {
	return d.distinct(func(r Record) string { return r.League })
}

func (d *Dataset) distinct(field func(Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// AgeBounds returns the minimum and maximum age, zeros for an empty dataset.
func (d *Dataset) AgeBounds() (lo, hi float64) {
	for i, r := range d.records {
		if i == 0 || r.Age < lo {
			lo = r.Age
		}
		if i == 0 || r.Age > hi {
			hi = r.Age
		}
	}
	return lo, hi
}

// ContractYearBounds returns the span of contract years. ok is false when
// no record carries a contract.
func (d *Dataset) ContractYearBounds() (lo, hi int, ok bool) {
	for _, r := range d.records {
		if !r.HasContract {
			continue
		}
		if !ok || r.ContractYear < lo {
			lo = r.ContractYear
		}
		if !ok || r.ContractYear > hi {
			hi = r.ContractYear
		}
		ok = true
	}
	return lo, hi, ok
}

// Clone returns a copy of r that shares no maps with it.
func (r Record) Clone() Record {
	r.Scores = maps.Clone(r.Scores)
	r.Extra = maps.Clone(r.Extra)
	return r
}
