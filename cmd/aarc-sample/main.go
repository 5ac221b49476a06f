package main

import (
	"context"
	"flag"
	"math/rand"

	"aarcnorm/internal/adapters/tabular"
	"aarcnorm/internal/core/sample"
	"aarcnorm/internal/platform/config"
	"aarcnorm/internal/platform/logger"
)

func main() {
	cfg := config.New().Prefix("CORE_SAMPLE_")

	var (
		fIn   = flag.String("in", cfg.MayString("IN", "data/raw/aarc.csv"), "full raw appointment file")
		fOut  = flag.String("out", cfg.MayString("OUT", "data/raw/sample.csv"), "sampled csv to write")
		fN    = flag.Int("n", cfg.MayInt("DEPARTMENTS", sample.DefaultDepartments), "departments to keep")
		fSeed = flag.Int64("seed", int64(cfg.MayInt("SEED", 0)), "shuffle seed")
	)
	flag.Parse()

	l := logger.Named("sample")
	ctx := context.Background()

	raw, err := tabular.ReadRaw(ctx, *fIn, tabular.Options{Sanitize: true})
	if err != nil {
		l.Fatal().Err(err).Str("in", *fIn).Msg("read raw failed")
	}

	res, err := sample.Departments(raw, *fN, rand.New(rand.NewSource(*fSeed)))
	if err != nil {
		l.Fatal().Err(err).Int("n", *fN).Msg("sample failed")
	}

	if err := tabular.WriteFile(*fOut, res.Table); err != nil {
		l.Fatal().Err(err).Str("out", *fOut).Msg("write sample failed")
	}

	ids := make([]string, 0, len(res.Departments))
	for _, v := range res.Departments {
		ids = append(ids, v.Text())
	}
	l.Info().
		Int("raw_rows", raw.Len()).
		Int("rows", res.Table.Len()).
		Strs("departments", ids).
		Str("out", *fOut).
		Msg("sample written")
}
