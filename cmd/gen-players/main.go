package main

import (
	"context"
	"flag"
	"os"

	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/sampledata"
	"github.com/okian/playerscore/pkg/logger"
)

func main() {
	def := sampledata.DefaultConfig()
	var (
		out     = flag.String("out", "players.xlsx", "Output file")
		players = flag.Int("players", def.Players, "Number of players to generate")
		seed    = flag.Uint64("seed", def.Seed, "Random seed")
		badRate = flag.Float64("bad-contracts", def.BadContractRate, "Share of rows with an unparseable contract date")
		year    = flag.Int("base-year", def.BaseYear, "First contract expiry year")
		format  = flag.String("format", "xlsx", "Output format: xlsx or csv")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Get()

	f, err := workbook.ParseFormat(*format)
	if err != nil {
		log.Fatal(ctx, "invalid format", logger.Error(err))
	}

	file, err := os.Create(*out)
	if err != nil {
		log.Fatal(ctx, "failed to create output", logger.String("path", *out), logger.Error(err))
	}
	cfg := sampledata.Config{Players: *players, Seed: *seed, BadContractRate: *badRate, BaseYear: *year}
	if err := sampledata.Write(ctx, file, cfg, f); err != nil {
		_ = file.Close()
		log.Fatal(ctx, "failed to write sample data", logger.Error(err))
	}
	if err := file.Close(); err != nil {
		log.Fatal(ctx, "failed to close output", logger.Error(err))
	}
	log.Info(ctx, "sample workbook written", logger.String("path", *out))
}
