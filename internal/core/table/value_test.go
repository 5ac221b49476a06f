package table

import (
	"encoding/json"
	"math"
	"slices"
	"testing"
)

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() || v.Kind() != KindNull {
		t.Fatalf("zero Value should be null, got %v", v.Kind())
	}
	if Null() != v {
		t.Fatalf("Null() should equal the zero Value")
	}
	if !Float(math.NaN()).IsNull() {
		t.Fatalf("NaN should be stored as null")
	}
}

func TestValue_Text(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{Null(), ""},
		{Int(-42), "-42"},
		{Float(2.5), "2.5"},
		{Bool(true), "True"},
		{Bool(false), "False"},
		{String("Assoc"), "Assoc"},
	}
	for _, c := range cases {
		if got := c.in.Text(); got != c.want {
			t.Fatalf("Text(%v) = %q, want %q", c.in.Kind(), got, c.want)
		}
	}
}

func TestValue_Accessors(t *testing.T) {
	if i, ok := Int(7).AsInt(); !ok || i != 7 {
		t.Fatalf("AsInt = %d %v", i, ok)
	}
	if f, ok := Int(7).AsFloat(); !ok || f != 7 {
		t.Fatalf("AsFloat on int = %v %v", f, ok)
	}
	if _, ok := String("7").AsFloat(); ok {
		t.Fatalf("AsFloat on string should fail")
	}
	if s, ok := String("x").AsString(); !ok || s != "x" {
		t.Fatalf("AsString = %q %v", s, ok)
	}
	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Fatalf("AsBool = %v %v", b, ok)
	}
	if Int(1).Any() != int64(1) || Null().Any() != nil {
		t.Fatalf("Any mismatch")
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	row := []Value{Int(1), Null(), Bool(true), String(`a"b`), Float(0.5)}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `[1,null,true,"a\"b",0.5]`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}
}

func TestCompare_NullsLastAndNumeric(t *testing.T) {
	vals := []Value{Null(), Int(3), Float(1.5), Int(1), Null(), Int(2)}
	slices.SortStableFunc(vals, Compare)
	want := []Value{Int(1), Float(1.5), Int(2), Int(3), Null(), Null()}
	if !slices.Equal(vals, want) {
		t.Fatalf("sorted = %v, want %v", vals, want)
	}

	if Compare(String("a"), String("b")) >= 0 {
		t.Fatalf("strings should compare lexically")
	}
	if Compare(Bool(false), Bool(true)) >= 0 {
		t.Fatalf("false should sort before true")
	}
	if Compare(Int(1), String("1")) >= 0 {
		t.Fatalf("ints should sort before strings")
	}
}

func TestKey_NullAware(t *testing.T) {
	if Key(Null(), Int(1)) != Key(Null(), Int(1)) {
		t.Fatalf("nulls in the same position should group together")
	}
	if Key(Null()) == Key(String("")) {
		t.Fatalf("null must not collide with the empty string")
	}
	if Key(Int(1)) == Key(String("1")) {
		t.Fatalf("kinds must not collide")
	}
	// length prefix keeps adjacent payloads apart
	if Key(String("ab"), String("c")) == Key(String("a"), String("bc")) {
		t.Fatalf("composite key boundary collision")
	}
}
