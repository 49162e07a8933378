package match

import "runtime"

// windows selects backslash separator handling. It is a variable so tests
// can exercise both separator conventions on any host.
var windows = runtime.GOOS == "windows"

// Options controls how search patterns are interpreted.
// Options values are never modified by Match: each pattern derives its own
// copy and latches its comment, negation and brace flags on that copy.
type Options struct {
	// Debug raises per-pattern traces from debug to info level.
	Debug bool
	// NoBrace disables {a,b} and {1..3} expansion.
	NoBrace bool
	// NoGlobstar makes ** behave like a single *.
	NoGlobstar bool
	// Dot allows wildcards to match path segments that start with a dot.
	Dot bool
	// NoExt disables @(a|b) and ?(a|b) extended glob groups.
	NoExt bool
	// NoCase matches case-insensitively.
	NoCase bool
	// NoNull makes a pattern without matches yield the pattern itself.
	NoNull bool
	// MatchBase matches slash-less patterns against the base name only.
	MatchBase bool
	// NoComment treats a leading '#' as a literal character.
	NoComment bool
	// NoNegate treats a leading '!' as a literal character.
	NoNegate bool
	// FlipNegate inverts the include/exclude meaning of negation parity.
	FlipNegate bool
}

// DefaultOptions returns the options used when a caller supplies none:
// brace expansion off, dot files visible, case-insensitive on Windows.
func DefaultOptions() Options {
	return Options{
		NoBrace: true,
		Dot:     true,
		NoCase:  windows,
	}
}

// SearchOptions returns the options used to resolve workspace search patterns:
// base-name matching, brace expansion on, dot files hidden, case-insensitive on
// Windows.
func SearchOptions() Options {
	return Options{
		MatchBase: true,
		NoCase:    windows,
	}
}

// latched returns o with the prefix-handling flags marked as processed.
// Brace expansion can produce sub-patterns with a leading '#' or '!', and
// those must not be treated as comments or negations a second time.
func (o Options) latched() Options {
	o.NoComment = true
	o.NoNegate = true
	o.FlipNegate = false
	o.NoBrace = true
	return o
}
