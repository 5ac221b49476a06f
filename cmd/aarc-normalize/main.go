package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"aarcnorm/internal/modkit"
	"aarcnorm/internal/modkit/module"
	"aarcnorm/internal/modkit/repokit"
	"aarcnorm/internal/platform/config"
	"aarcnorm/internal/platform/logger"
	"aarcnorm/internal/platform/store"

	normdom "aarcnorm/internal/services/normalizer/domain"
	normmod "aarcnorm/internal/services/normalizer/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	opts := normmod.FromConfig(root)

	var (
		fRaw   = flag.String("raw", opts.RawPath, "raw appointment file, csv or csv.gz")
		fOut   = flag.String("out", opts.OutDir, "directory for one csv per relation, empty skips the write")
		fPG    = flag.Bool("pg", opts.ExportPG, "publish every relation to postgres (SERVICE_PGSQL_DBURL)")
		fCH    = flag.Bool("ch", opts.ExportCH, "publish appointments and the bridge to clickhouse (SERVICE_CLICKHOUSE_DBURL)")
		fQuiet = flag.Bool("quiet", !opts.Verbose, "do not log relation counts")
		fNFC   = flag.Bool("nfc", opts.NFC, "compose text cells into unicode NFC")
		fRunID = flag.String("run-id", "", "uuid stamped on exported rows, empty generates one")
	)
	flag.Parse()

	l := logger.Named("normalize")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scfg := store.Config{AppName: "aarc-normalize"}
	if *fPG {
		scfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	}
	if *fCH {
		scfg.CH = store.CHConfig{
			Enabled:    true,
			URL:        chCfg.MustString("DBURL"),
			LogSQL:     chCfg.MayBool("LOG_SQL", false),
			ClientRole: "normalize",
			ClientTag:  "cli",
		}
	}
	st, err := store.Open(ctx, scfg, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	// requested sinks must answer before the raw file is read
	repokit.MustGuard(ctx, st)

	opts.RawPath = *fRaw
	opts.OutDir = *fOut
	opts.ExportPG = *fPG
	opts.ExportCH = *fCH
	opts.Verbose = !*fQuiet
	opts.NFC = *fNFC

	deps := modkit.Deps{Cfg: root, PG: st.PG, CH: st.CH, Log: *l}
	nm := normmod.NewWithOptions(deps, opts)
	module.Register(nm.Name(), nm.Ports())

	run := module.MustPortsOf[normdom.RunnerPort](nm)
	rep, err := run.Run(ctx, normdom.Job{RunID: *fRunID})
	if err != nil {
		l.Error().Err(err).Str("raw", *fRaw).Msg("normalization failed")
		_ = st.Close(context.Background())
		os.Exit(1)
	}
	l.Info().
		Str("run_id", rep.RunID).
		Interface("counts", rep.Counts).
		Str("out", rep.OutDir).
		Strs("sinks", rep.Sinks).
		Int("elapsed_ms", rep.ElapsedMS).
		Msg("done")
}
