package repo

import (
	"testing"

	"aarcnorm/internal/core/table"
)

func TestColumns_InferKinds(t *testing.T) {
	t.Parallel()

	tb := table.New("x", []string{"i", "mixnum", "mixed", "empty", "b"})
	tb.MustAppend(table.Int(1), table.Int(1), table.Int(1), table.Null(), table.Bool(true))
	tb.MustAppend(table.Null(), table.Float(2.5), table.String("a"), table.Null(), table.Null())

	got := Columns(tb)
	want := []table.Kind{table.KindInt, table.KindFloat, table.KindString, table.KindString, table.KindBool}
	for i, c := range got {
		if c.Kind != want[i] {
			t.Fatalf("column %s kind = %v, want %v", c.Name, c.Kind, want[i])
		}
	}
}

func TestRows_RunIDFirstAndConverted(t *testing.T) {
	t.Parallel()

	tb := table.New("x", []string{"n", "s"})
	tb.MustAppend(table.Int(3), table.Int(7))
	tb.MustAppend(table.Float(1.5), table.String("z"))
	tb.MustAppend(table.Null(), table.Null())

	cols := Columns(tb)
	rows := Rows(tb, cols, "run-1")

	if len(rows) != 3 || rows[0][0] != "run-1" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if v, ok := rows[0][1].(float64); !ok || v != 3 {
		t.Fatalf("int in float column should widen, got %#v", rows[0][1])
	}
	if rows[0][2] != "7" {
		t.Fatalf("int in text column should render as text, got %#v", rows[0][2])
	}
	if rows[2][1] != nil || rows[2][2] != nil {
		t.Fatalf("null should be nil, got %v", rows[2])
	}
}

func TestNames_RunIDFirst(t *testing.T) {
	t.Parallel()

	got := Names([]Column{{Name: "a"}, {Name: "b"}})
	if len(got) != 3 || got[0] != RunIDColumn || got[2] != "b" {
		t.Fatalf("names = %v", got)
	}
}
