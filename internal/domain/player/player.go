// Package player holds the normalized player dataset the dashboard filters.
package player

import (
	"math"
	"strings"
	"time"
)

// DefaultScoreMarker identifies a rankable 0-100 score column by its header.
const DefaultScoreMarker = "Score (0-100)"

// Canonical column names.
const (
	ColPlayer         = "Player"
	ColTeam           = "Team"
	ColPosition       = "Position"
	ColAge            = "Age"
	ColUsage          = "Usage"
	ColTier           = "Tier"
	ColLeague         = "League"
	ColContractExpiry = "Contract expiry"
	ColContractYear   = "Contract year"
)

// Record is one row of the dataset.
type Record struct {
	Player   string
	Team     string
	Position string
	Age      float64
	Usage    float64
	Tier     string
	League   string

	// ContractYear is only meaningful when HasContract is set.
	ContractExpiry time.Time
	ContractYear   int
	HasContract    bool

	Scores map[string]float64
	Extra  map[string]string
}

// Score returns the named score, zero when absent.
func (r Record) Score(column string) float64 {
	return r.Scores[column]
}

// Value returns the record's value for a column name, or false if the
// record has no such column.
func (r Record) Value(column string) (any, bool) {
	switch column {
	case ColPlayer:
		return r.Player, true
	case ColTeam:
		return r.Team, true
	case ColPosition:
		return r.Position, true
	case ColAge:
		return r.Age, true
	case ColUsage:
		return r.Usage, true
	case ColTier:
		return r.Tier, true
	case ColLeague:
		return r.League, true
	case ColContractExpiry:
		if !r.HasContract {
			return "", true
		}
		return r.ContractExpiry.Format(time.DateOnly), true
	case ColContractYear:
		if !r.HasContract {
			return 0, true
		}
		return r.ContractYear, true
	}
	if v, ok := r.Scores[column]; ok {
		return v, true
	}
	if v, ok := r.Extra[column]; ok {
		return v, true
	}
	return nil, false
}

// IsScoreColumn reports whether a header marks a 0-100 score.
func IsScoreColumn(name, marker string) bool {
	if marker == "" {
		marker = DefaultScoreMarker
	}
	return strings.Contains(name, marker)
}

// normalize replaces values that would otherwise need missing-value
// handling downstream with zero.
func normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
