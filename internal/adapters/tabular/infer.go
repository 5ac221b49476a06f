package tabular

import (
	"math"
	"strconv"

	"aarcnorm/internal/core/table"
)

// naValues are the cell spellings read as missing
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a raw cell denotes a missing value
func IsNA(s string) bool {
	_, ok := naValues[s]
	return ok
}

// InferColumn types one column of cells as a whole
// the narrowest kind that accepts every non-missing cell wins:
// Int64 (including floats that are all integral), Float64, boolean, then string
func InferColumn(cells []string) []table.Value {
	out := make([]table.Value, len(cells))
	kind := inferKind(cells)
	for i, s := range cells {
		if IsNA(s) {
			continue
		}
		switch kind {
		case table.KindInt:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				out[i] = table.Int(n)
				continue
			}
			f, _ := strconv.ParseFloat(s, 64)
			out[i] = table.Int(int64(f))
		case table.KindFloat:
			f, _ := strconv.ParseFloat(s, 64)
			out[i] = table.Float(f)
		case table.KindBool:
			b, _ := parseBool(s)
			out[i] = table.Bool(b)
		default:
			out[i] = table.String(s)
		}
	}
	return out
}

func inferKind(cells []string) table.Kind {
	ints, floats, integral, bools, seen := true, true, true, true, false
	for _, s := range cells {
		if IsNA(s) {
			continue
		}
		seen = true
		if ints {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				ints = false
			}
		}
		if !ints && floats {
			f, err := strconv.ParseFloat(s, 64)
			switch {
			case err != nil:
				floats = false
			case f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53:
				integral = false
			}
		}
		if bools {
			if _, ok := parseBool(s); !ok {
				bools = false
			}
		}
		if !ints && !floats && !bools {
			return table.KindString
		}
	}
	switch {
	case !seen:
		return table.KindNull
	case ints:
		return table.KindInt
	case floats && integral:
		return table.KindInt
	case floats:
		return table.KindFloat
	case bools:
		return table.KindBool
	}
	return table.KindString
}

// parseBool accepts the spellings a CSV writer emits for booleans
func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}
