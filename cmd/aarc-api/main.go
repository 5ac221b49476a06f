package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aarcnorm/internal/platform/config"
	"aarcnorm/internal/platform/logger"
	phttp "aarcnorm/internal/platform/net/http"
	"aarcnorm/internal/platform/store"

	"aarcnorm/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Named("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// sinks are optional for the api; a backend is opened only when its url is set
	scfg := store.Config{AppName: "aarc-api"}
	if url := pgCfg.MayString("DBURL", ""); url != "" {
		scfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         url,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	}
	if url := chCfg.MayString("DBURL", ""); url != "" {
		scfg.CH = store.CHConfig{
			Enabled:    true,
			URL:        url,
			LogSQL:     chCfg.MayBool("LOG_SQL", false),
			ClientRole: "api",
			ClientTag:  "api",
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

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	l.Info().
		Str("addr", srv.Addr()).
		Str("data_dir", apiCfg.MayString("DATA_DIR", "data/normalized")).
		Msg("api listening")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
