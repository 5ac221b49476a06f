package ch

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func TestOptions_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := Options(Config{URL: "  "})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
	if e, ok := perr.As(err); !ok || e.Field() != "URL" {
		t.Fatalf("want field URL, got %v", err)
	}
}

func TestOptions_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Options(Config{URL: "://nope"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestOptions_ClientInfoAndTimeout(t *testing.T) {
	t.Parallel()

	opts, err := Options(Config{
		URL:         "clickhouse://default:@localhost:9000/aarc",
		Role:        "normalize",
		Tag:         "v1",
		DialTimeout: 7 * time.Second,
	})
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Auth.Database != "aarc" {
		t.Fatalf("database = %q", opts.Auth.Database)
	}
	if opts.DialTimeout != 7*time.Second {
		t.Fatalf("dial timeout = %v", opts.DialTimeout)
	}
	p := opts.ClientInfo.Products
	if len(p) == 0 || p[0].Name != Product || p[0].Version != "v1" {
		t.Fatalf("unexpected products %+v", p)
	}
	if p[1].Name != "role" || p[1].Version != "normalize" {
		t.Fatalf("role product = %+v", p[1])
	}
}

func TestOpen_WrapsDriverError(t *testing.T) {
	testkit.Serial(t)
	boom := errors.New("dial refused")
	testkit.Swap(t, &openConn, func(*clickhouse.Options) (driver.Conn, error) { return nil, boom })

	_, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/aarc"})
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped driver error, got %v", err)
	}
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable code, got %v", perr.CodeOf(err))
	}
}

func TestBuildClientInfo_BlankValues(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo(" ", "")
	for _, p := range ci.Products {
		if p.Version == "" {
			t.Fatalf("product %q has empty version", p.Name)
		}
	}
	if ci.Products[1].Version != "unknown" {
		t.Fatalf("blank role should read unknown, got %q", ci.Products[1].Version)
	}
}
