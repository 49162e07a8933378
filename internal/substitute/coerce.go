package substitute

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/harrison/varsub/internal/document"
)

// Coerce converts raw into the value stored in a slot that currently holds
// current. The choice depends only on the kind of current:
//
//	number          raw as a json.Number when it is numeric text, else raw
//	boolean         true for "true", false for "false", else raw
//	object/array/null  raw decoded as JSON, else raw
//	string          raw decoded as JSON when it is an object or array, else raw
func Coerce(current any, raw string) any {
	switch KindOf(current) {
	case KindNumber:
		if n, ok := parseNumber(raw); ok {
			return formatNumber(n)
		}
		return raw
	case KindBool:
		switch raw {
		case "true":
			return true
		case "false":
			return false
		}
		return raw
	case KindObject, KindArray, KindNull:
		if v, err := parseJSON(raw); err == nil {
			return v
		}
		return raw
	default:
		if v, err := parseJSON(raw); err == nil {
			if k := KindOf(v); k == KindObject || k == KindArray {
				return v
			}
		}
		return raw
	}
}

func parseJSON(raw string) (any, error) {
	return document.DecodeJSON([]byte(raw))
}

// formatNumber renders f the way JSON serializers print numbers: plain
// decimals between 1e-6 and 1e21, exponent form outside. f is finite.
func formatNumber(f float64) json.Number {
	b, _ := json.Marshal(f)
	return json.Number(b)
}

// parseNumber accepts decimal, exponent and 0x/0o/0b integer text.
// Blank text is zero. Infinities and NaN are rejected because they have no
// JSON representation.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
