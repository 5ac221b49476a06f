package tabular

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
)

func TestDecode_TypesAndRaggedRows(t *testing.T) {
	in := "PersonId,Rank,PrimaryAppointment,DegreeYear\n" +
		"1,Assoc,True,1999\n" +
		"2,Full\n" +
		"3,Lect,False,2001,extra\n"
	res, err := Decode(strings.NewReader(in), "raw", Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tb := res.Table
	if tb.Len() != 3 || tb.Width() != 4 {
		t.Fatalf("shape = %dx%d", tb.Len(), tb.Width())
	}
	if len(res.Warnings) != 2 || res.Warnings[0].Row != 3 || res.Warnings[1].Row != 4 {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
	if tb.Get(0, "PersonId") != table.Int(1) || tb.Get(0, "PrimaryAppointment") != table.Bool(true) {
		t.Fatalf("row 0 = %v", tb.Row(0))
	}
	if !tb.Get(1, "PrimaryAppointment").IsNull() || !tb.Get(1, "DegreeYear").IsNull() {
		t.Fatalf("padded cells should be null: %v", tb.Row(1))
	}
	if tb.Get(2, "DegreeYear") != table.Int(2001) {
		t.Fatalf("row 2 = %v", tb.Row(2))
	}
	if res.Encoding != EncUTF8 {
		t.Fatalf("encoding = %s", res.Encoding)
	}
}

func TestDecode_HeaderHandling(t *testing.T) {
	if _, err := Decode(strings.NewReader(""), "raw", Options{}); !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("empty input should be an io error, got %v", err)
	}

	res, err := Decode(strings.NewReader(" Field ,Field,Field\nCS,Math,Bio\n"), "raw", Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := strings.Join(res.Table.Columns(), "|")
	if got != "Field|Field.1|Field.2" {
		t.Fatalf("columns = %s", got)
	}

	headerOnly, err := Decode(strings.NewReader("FieldId,Field\n"), "fields", Options{})
	if err != nil || headerOnly.Table.Len() != 0 || headerOnly.Table.Width() != 2 {
		t.Fatalf("header-only file: %v %v", headerOnly, err)
	}
}

func TestDecode_SemicolonAndNFC(t *testing.T) {
	in := "PersonName;Gender\nJose\u0301;M\n"
	res, err := Decode(strings.NewReader(in), "raw", Options{Comma: ';', NFC: true})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Table.Get(0, "PersonName") != table.String("Jos\u00e9") {
		t.Fatalf("PersonName = %v", res.Table.Get(0, "PersonName"))
	}
}

func TestReadRaw_GzipAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aarc.csv.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("PersonId,Year\n1,2020\n1,2021\n")); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tb, err := ReadRaw(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.Len() != 2 || tb.Name() != RawName || tb.Get(1, "Year") != table.Int(2021) {
		t.Fatalf("raw = %d rows %v", tb.Len(), tb.Row(1))
	}

	if _, err := ReadRaw(context.Background(), filepath.Join(dir, "nope.csv"), Options{}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file should be not found, got %v", err)
	}
}
