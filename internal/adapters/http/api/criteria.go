package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/playerscore/internal/domain/filter"
)

// listParam returns the values of a repeatable, comma-separated parameter.
// present is false when the key is absent; a present key with only blank
// values yields an empty, non-nil slice.
func listParam(q url.Values, key string) (values []string, present bool) {
	raw, present := q[key]
	if !present {
		return nil, false
	}
	values = make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values, true
}

func floatParam(q url.Values, key string, def float64) (float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", ErrBadRequest, key)
	}
	return v, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, key)
	}
	return v, nil
}

// parseCriteria overlays query parameters on the dashboard defaults. Absent
// tier and league parameters keep the defaults; blank ones select nothing.
// Contract bounds apply only when the dataset carries contracts.
func parseCriteria(q url.Values, defaults filter.Criteria) (filter.Criteria, error) {
	c := defaults

	if v, ok := listParam(q, "position"); ok {
		c.Positions = v
	}
	if v, ok := listParam(q, "tier"); ok {
		c.Tiers = v
	}
	if v, ok := listParam(q, "league"); ok {
		c.Leagues = v
	}
	if rank := strings.TrimSpace(q.Get("rank")); rank != "" {
		c.RankColumn = rank
	}

	var err error
	if c.Age.Min, err = floatParam(q, "age_min", defaults.Age.Min); err != nil {
		return filter.Criteria{}, err
	}
	if c.Age.Max, err = floatParam(q, "age_max", defaults.Age.Max); err != nil {
		return filter.Criteria{}, err
	}
	if c.Usage.Min, err = floatParam(q, "usage_min", defaults.Usage.Min); err != nil {
		return filter.Criteria{}, err
	}
	if c.Usage.Max, err = floatParam(q, "usage_max", defaults.Usage.Max); err != nil {
		return filter.Criteria{}, err
	}
	if c.Age.Min > c.Age.Max {
		return filter.Criteria{}, fmt.Errorf("%w: age", ErrBadRange)
	}
	if c.Usage.Min > c.Usage.Max {
		return filter.Criteria{}, fmt.Errorf("%w: usage", ErrBadRange)
	}

	if defaults.ContractYears != nil {
		years := *defaults.ContractYears
		if years.Min, err = intParam(q, "contract_min", years.Min); err != nil {
			return filter.Criteria{}, err
		}
		if years.Max, err = intParam(q, "contract_max", years.Max); err != nil {
			return filter.Criteria{}, err
		}
		if years.Min > years.Max {
			return filter.Criteria{}, fmt.Errorf("%w: contract", ErrBadRange)
		}
		c.ContractYears = &years
	}
	return c, nil
}
