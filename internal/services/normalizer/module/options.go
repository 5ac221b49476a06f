package module

import (
	"time"

	"aarcnorm/internal/platform/config"
	"aarcnorm/internal/services/normalizer/repo"
)

// Options holds configuration options for the normalizer
type Options struct {
	RawPath  string
	OutDir   string
	Verbose  bool
	NFC      bool
	Sanitize bool

	// default sinks; a sink is only built when its store is present
	ExportPG bool
	ExportCH bool

	PGChunk     int
	Schema      string
	Ledger      bool
	CHRelations []string

	RunTimeout     time.Duration
	LoadTimeout    time.Duration
	PublishTimeout time.Duration

	// HTTPPaths lets http callers choose raw_path and out_dir
	HTTPPaths bool
}

// FromConfig reads the normalizer options from config with CORE_NORMALIZE_ prefix
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_NORMALIZE_")
	return Options{
		RawPath:        n.MayString("RAW_PATH", "data/raw/aarc.csv"),
		OutDir:         n.MayString("OUT_DIR", "data/normalized"),
		Verbose:        n.MayBool("VERBOSE", true),
		NFC:            n.MayBool("NFC", false),
		Sanitize:       n.MayBool("SANITIZE", true),
		ExportPG:       n.MayBool("EXPORT_PG", false),
		ExportCH:       n.MayBool("EXPORT_CH", false),
		PGChunk:        n.MayInt("PG_CHUNK", repo.DefaultChunk),
		Schema:         n.MayString("SCHEMA", ""),
		Ledger:         n.MayBool("LEDGER", true),
		CHRelations:    n.MayCSV("CH_RELATIONS", repo.DefaultCHRelations),
		RunTimeout:     n.MayDuration("RUN_TIMEOUT", 30*time.Minute),
		LoadTimeout:    n.MayDuration("LOAD_TIMEOUT", 5*time.Minute),
		PublishTimeout: n.MayDuration("PUBLISH_TIMEOUT", 10*time.Minute),
		HTTPPaths:      n.MayBool("HTTP_PATHS", false),
	}
}
