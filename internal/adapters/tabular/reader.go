// Package tabular reads and writes relations as delimited text with a header row
package tabular

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"aarcnorm/internal/core/table"
	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"
)

// Options tunes decoding
type Options struct {
	// Comma is the field delimiter; zero means ','
	Comma rune
	// NFC composes text cells into Unicode NFC
	NFC bool
	// Sanitize strips control characters and invalid UTF-8 from text cells
	Sanitize bool
}

// Warning is a non-fatal issue met while parsing
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result is a decoded relation plus what the parser noticed on the way
type Result struct {
	Table    *table.Table
	Encoding string
	Warnings []Warning
}

// Decode parses a header row and data rows into a typed table named name
// rows with too few cells are padded with missing values and rows with too many
// are truncated, each with a warning; a row the CSV reader rejects is skipped with a warning
func Decode(r io.Reader, name string, opt Options) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "%s: read", name)
	}
	decoded, enc, err := Detect(data)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "%s: decode %s", name, enc)
	}

	cr := csv.NewReader(bytes.NewReader(decoded))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, perr.IOf("%s: empty file, no header row", name)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "%s: header row", name)
	}
	header = dedupeHeader(header)
	width := len(header)

	res := &Result{Encoding: enc}
	cells := make([][]string, width)
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{Row: line, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}
		switch {
		case len(row) < width:
			res.Warnings = append(res.Warnings, Warning{Row: line,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with missing values", len(row), width)})
		case len(row) > width:
			res.Warnings = append(res.Warnings, Warning{Row: line,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), width)})
		}
		for j := 0; j < width; j++ {
			s := ""
			if j < len(row) {
				s = row[j]
			}
			cells[j] = append(cells[j], s)
		}
	}

	clean := cleaner(opt)
	cols := make([][]table.Value, width)
	for j := range cells {
		cols[j] = InferColumn(cells[j])
		if clean == nil {
			continue
		}
		for i, v := range cols[j] {
			if s, ok := v.AsString(); ok {
				cols[j][i] = table.String(clean(s))
			}
		}
	}

	t := table.New(name, header)
	rows := 0
	if width > 0 {
		rows = len(cells[0])
	}
	row := make([]table.Value, width)
	for i := 0; i < rows; i++ {
		for j := range cols {
			row[j] = cols[j][i]
		}
		t.MustAppend(row...)
	}
	res.Table = t
	return res, nil
}

// dedupeHeader trims header names and suffixes repeats with .1, .2 and so on
func dedupeHeader(h []string) []string {
	out := make([]string, len(h))
	taken := make(map[string]bool, len(h))
	for i, name := range h {
		name = strings.TrimSpace(name)
		cand := name
		for n := 1; taken[cand]; n++ {
			cand = name + "." + strconv.Itoa(n)
		}
		taken[cand] = true
		out[i] = cand
	}
	return out
}

// Open opens path for reading, transparently gunzipping *.gz files
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "open %s", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		if cerr := f.Close(); cerr != nil {
			return nil, perr.Wrapf(cerr, perr.ErrorCodeIO, "close %s", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "gunzip %s", path)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	ferr := g.f.Close()
	if gerr != nil {
		return gerr
	}
	return ferr
}

// ReadFile decodes the table stored at path
func ReadFile(path, name string, opt Options) (res *Result, err error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = perr.Wrapf(cerr, perr.ErrorCodeIO, "close %s", path)
		}
	}()
	return Decode(rc, name, opt)
}

// RawName is the relation name given to the loaded raw table
const RawName = "raw"

// ReadRaw loads the raw appointment table and logs parser warnings
func ReadRaw(ctx context.Context, path string, opt Options) (*table.Table, error) {
	res, err := ReadFile(path, RawName, opt)
	if err != nil {
		return nil, err
	}
	log := logger.C(ctx)
	for _, w := range res.Warnings {
		log.Warn().Str("path", path).Int("row", w.Row).Msg(w.Message)
	}
	log.Debug().
		Str("path", path).
		Str("encoding", res.Encoding).
		Int("rows", res.Table.Len()).
		Int("columns", res.Table.Width()).
		Msg("raw table loaded")
	return res.Table, nil
}
