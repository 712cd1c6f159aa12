// Package sampledata generates synthetic player workbooks for demos and
// local runs.
package sampledata

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/domain/player"
	"github.com/okian/playerscore/internal/domain/types"
	"github.com/okian/playerscore/pkg/logger"
)

// ColPlayerID is the pass-through identifier column.
const ColPlayerID = "Player ID"

// SheetName is the sheet generated workbooks use.
const SheetName = "Players"

// ScoreColumns are the generated score columns, overall first.
var ScoreColumns = []string{
	"Overall Score (0-100)",
	"Attacking Score (0-100)",
	"Passing Score (0-100)",
	"Defending Score (0-100)",
	"Physical Score (0-100)",
}

// Positions are the generated playing positions.
var Positions = []string{"GK", "DF", "MF", "FW"}

// LeaguesByTier assigns every league to exactly one tier.
var LeaguesByTier = map[string][]string{
	"1": {"Premier League", "La Liga", "Serie A", "Bundesliga"},
	"2": {"Championship", "Segunda Division", "Serie B"},
	"3": {"League One", "Eredivisie", "Primeira Liga"},
}

// tierOrder keeps generation independent of map iteration order.
var tierOrder = []string{"1", "2", "3"}

var teamSuffixes = []string{"United", "City", "Athletic", "Rovers", "Wanderers", "Albion"}

var firstNames = []string{"Alex", "Bruno", "Carlos", "Dani", "Emil", "Felix", "Goran", "Hugo", "Ivan", "Jonas", "Kai", "Luca", "Mateo", "Nico", "Oscar", "Pablo"}

var lastNames = []string{"Almeida", "Berg", "Costa", "Duarte", "Eriksen", "Fischer", "Garcia", "Hansen", "Ibarra", "Jensen", "Kovac", "Lopez", "Moreau", "Novak", "Olsen", "Petrov"}

// Config controls generation.
type Config struct {
	Players int
	Seed    uint64
	// BadContractRate is the share of rows given an unparseable contract date.
	BadContractRate float64
	// BaseYear is the first contract expiry year; contracts run up to four years past it.
	BaseYear int
}

// DefaultConfig returns a config for a few hundred players.
func DefaultConfig() Config {
	return Config{Players: 500, Seed: 1, BadContractRate: 0.03, BaseYear: time.Now().Year()}
}

// Columns returns the header of generated workbooks.
func Columns() []string {
	cols := []string{
		ColPlayerID,
		player.ColPlayer,
		player.ColTeam,
		player.ColPosition,
		player.ColAge,
		player.ColUsage,
		player.ColTier,
		player.ColLeague,
		player.ColContractExpiry,
	}
	return append(cols, ScoreColumns...)
}

// Generate builds the rows of a synthetic dataset. The same config always
// yields the same table.
func Generate(cfg Config) (types.Table, int) {
	if cfg.BaseYear == 0 {
		cfg.BaseYear = DefaultConfig().BaseYear
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	tbl := types.Table{Columns: Columns(), Rows: make([][]any, 0, cfg.Players)}

	bad := 0
	for i := 0; i < cfg.Players; i++ {
		tier := tierOrder[rng.IntN(len(tierOrder))]
		leagues := LeaguesByTier[tier]
		league := leagues[rng.IntN(len(leagues))]
		team := league + " " + teamSuffixes[rng.IntN(len(teamSuffixes))]
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("player/"+strconv.FormatUint(cfg.Seed, 10)+"/"+strconv.Itoa(i)))

		contract := time.Date(cfg.BaseYear+rng.IntN(5), time.Month(6+rng.IntN(2)), 30, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
		if rng.Float64() < cfg.BadContractRate {
			contract = "TBD"
			bad++
		}

		row := []any{
			id.String(),
			firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))],
			team,
			Positions[rng.IntN(len(Positions))],
			17 + rng.IntN(20),
			round1(rng.Float64() * 100),
			tier,
			league,
			contract,
		}
		for range ScoreColumns {
			row = append(row, round1(clamp(50+rng.NormFloat64()*18, 0, 100)))
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, bad
}

// Write generates a dataset and encodes it in the given format.
func Write(ctx context.Context, w io.Writer, cfg Config, format workbook.Format) error {
	tbl, bad := Generate(cfg)
	var err error
	switch format {
	case workbook.FormatXLSX:
		err = workbook.Encode(w, tbl, SheetName)
	default:
		err = workbook.Write(w, format, tbl)
	}
	if err != nil {
		return fmt.Errorf("write sample data: %w", err)
	}
	logger.Get().Info(ctx, "generated sample players",
		logger.Int("players", tbl.Len()),
		logger.Int("badContracts", bad),
		logger.String("format", string(format)),
	)
	return nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
