package match

import (
	"strconv"
	"strings"
)

// maxBraceExpansions bounds the patterns one brace expression may expand to.
// Larger expressions are kept literally.
const maxBraceExpansions = 10000

// expandBraces expands {a,b} alternations and {x..y[..step]} sequences into
// the list of concrete patterns they describe, left to right. Groups that
// contain neither a top-level comma nor a valid sequence are kept literally,
// though anything nested inside them is still expanded. A backslash escapes
// the following character.
func expandBraces(pattern string) []string {
	start, end, ok := findBraceGroup(pattern)
	if !ok {
		return []string{pattern}
	}

	pre, body, post := pattern[:start], pattern[start+1:end], pattern[end+1:]
	tails := expandBraces(post)

	alternatives := splitTopLevel(body)
	if len(alternatives) < 2 {
		seq, isSeq := expandSequence(body)
		if !isSeq {
			var out []string
			for _, b := range expandBraces(body) {
				for _, tail := range tails {
					if len(out) == maxBraceExpansions {
						return []string{pattern}
					}
					out = append(out, pre+"{"+b+"}"+tail)
				}
			}
			return out
		}
		alternatives = seq
	}

	var out []string
	for _, alt := range alternatives {
		for _, head := range expandBraces(alt) {
			for _, tail := range tails {
				if len(out) == maxBraceExpansions {
					return []string{pattern}
				}
				out = append(out, pre+head+tail)
			}
		}
	}
	return out
}

// findBraceGroup returns the positions of the first balanced, unescaped
// brace pair in s.
func findBraceGroup(s string) (int, int, bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			if end, ok := closingBrace(s, i); ok {
				return i, end, true
			}
		}
	}
	return 0, 0, false
}

func closingBrace(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// splitTopLevel splits a brace body on commas that are not nested in an
// inner group.
func splitTopLevel(body string) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, body[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, body[last:])
}

// expandSequence expands numeric (1..5, 01..10..3) and single letter (a..e)
// ranges.
func expandSequence(body string) ([]string, bool) {
	fields := strings.Split(body, "..")
	if len(fields) != 2 && len(fields) != 3 {
		return nil, false
	}

	step := 1
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, false
		}
		if n < 0 {
			n = -n
		}
		if n < 0 {
			// the negation of the minimum integer
			return nil, false
		}
		if n != 0 {
			step = n
		}
	}

	if from, err := strconv.Atoi(fields[0]); err == nil {
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, false
		}
		if rangeLen(from, to, step) > maxBraceExpansions {
			return nil, false
		}
		width := 0
		if isPadded(fields[0]) || isPadded(fields[1]) {
			width = max(len(fields[0]), len(fields[1]))
		}
		var out []string
		for _, n := range stepRange(from, to, step) {
			out = append(out, pad(n, width))
		}
		return out, true
	}

	if len(fields[0]) == 1 && len(fields[1]) == 1 && isLetter(fields[0][0]) && isLetter(fields[1][0]) {
		var out []string
		for _, n := range stepRange(int(fields[0][0]), int(fields[1][0]), step) {
			out = append(out, string(rune(n)))
		}
		return out, true
	}

	return nil, false
}

// rangeLen counts the values of from..to by step without overflowing.
func rangeLen(from, to, step int) uint64 {
	var span uint64
	if from <= to {
		span = uint64(to) - uint64(from)
	} else {
		span = uint64(from) - uint64(to)
	}
	return span/uint64(step) + 1
}

// stepRange lists from..to by step. The loop stops before stepping past to,
// so ranges ending near the integer limits terminate.
func stepRange(from, to, step int) []int {
	var out []int
	if from <= to {
		for n := from; ; n += step {
			out = append(out, n)
			if uint64(to)-uint64(n) < uint64(step) {
				break
			}
		}
	} else {
		for n := from; ; n -= step {
			out = append(out, n)
			if uint64(n)-uint64(to) < uint64(step) {
				break
			}
		}
	}
	return out
}

func isPadded(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0'
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	if width == 0 {
		return s
	}
	neg := n < 0
	if neg {
		s = s[1:]
		width--
	}
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
