package ch

import (
	"cmp"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Product is the first client product reported to the server
const Product = "aarcnorm"

// BuildClientInfo tags the connection so system.query_log shows who ran what
// role is the binary, e.g. normalize or api; blank values read unknown
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	pairs := [][2]string{
		{Product, tag},
		{"role", role},
		{"go", runtime.Version()},
		{"commit", revision()},
		{"host", host},
	}
	ci := clickhouse.ClientInfo{}
	for _, p := range pairs {
		ci.Products = append(ci.Products, struct{ Name, Version string }{
			Name:    p[0],
			Version: cmp.Or(strings.TrimSpace(p[1]), "unknown"),
		})
	}
	return ci
}

// revision is the short vcs hash stamped by go build
func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value[:min(7, len(s.Value))]
		}
	}
	return ""
}
