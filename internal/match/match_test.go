package match

import (
	"bytes"
	"testing"

	"github.com/harrison/varsub/internal/logger"
	"github.com/stretchr/testify/assert"
)

// setWindows switches separator handling for the duration of a test.
func setWindows(t *testing.T, on bool) {
	t.Helper()
	prev := windows
	windows = on
	t.Cleanup(func() { windows = prev })
}

func TestMatch_Properties(t *testing.T) {
	m := NewMatcher(nil)

	tests := []struct {
		name     string
		list     []string
		patterns []string
		root     string
		want     []string
	}{
		{
			name:     "negation removes earlier include",
			list:     []string{"a.txt", "secret.txt", "b.log"},
			patterns: []string{"*.txt", "!secret.txt"},
			want:     []string{"a.txt"},
		},
		{
			name:     "later include reinstates",
			list:     []string{"x.log"},
			patterns: []string{"!*.log", "*.log"},
			want:     []string{"x.log"},
		},
		{
			name:     "exclude of absent entry is a no-op",
			list:     []string{"a.txt"},
			patterns: []string{"!b.txt", "*.txt"},
			want:     []string{"a.txt"},
		},
		{
			name:     "double negation includes",
			list:     []string{"a.txt", "b.txt"},
			patterns: []string{"!!a.txt"},
			want:     []string{"a.txt"},
		},
		{
			name:     "triple negation excludes",
			list:     []string{"a.txt", "b.txt"},
			patterns: []string{"*.txt", "!!!a.txt"},
			want:     []string{"b.txt"},
		},
		{
			name:     "overlapping patterns do not duplicate",
			list:     []string{"b.json", "a.json"},
			patterns: []string{"a.json", "*.json", "b.*"},
			want:     []string{"b.json", "a.json"},
		},
		{
			name:     "empty and comment patterns skipped",
			list:     []string{"a.json", "#x"},
			patterns: []string{"", "   ", "#x", " a.json "},
			want:     []string{"a.json"},
		},
		{
			name:     "rooted relative pattern",
			list:     []string{"/repo/src/a.json", "/repo/b.json", "/other/src/c.json"},
			patterns: []string{"src/*.json"},
			root:     "/repo",
			want:     []string{"/repo/src/a.json"},
		},
		{
			name:     "root with trailing separator",
			list:     []string{"/repo/src/a.json"},
			patterns: []string{"src/*.json"},
			root:     "/repo/",
			want:     []string{"/repo/src/a.json"},
		},
		{
			name:     "absolute pattern ignores root",
			list:     []string{"/repo/a.json", "/other/a.json"},
			patterns: []string{"/other/*.json"},
			root:     "/repo",
			want:     []string{"/other/a.json"},
		},
		{
			name:     "globstar crosses directories",
			list:     []string{"/r/a.json", "/r/x/b.json", "/r/x/y/c.json", "/r/x/y/c.txt"},
			patterns: []string{"/r/**/*.json"},
			want:     []string{"/r/a.json", "/r/x/b.json", "/r/x/y/c.json"},
		},
		{
			name:     "braces literal by default",
			list:     []string{"a.json", "{a,b}.json"},
			patterns: []string{"{a,b}.json"},
			want:     []string{"{a,b}.json"},
		},
		{
			name:     "dot files visible by default",
			list:     []string{".env.json", "a.json"},
			patterns: []string{"*.json"},
			want:     []string{".env.json", "a.json"},
		},
		{
			name:     "character class",
			list:     []string{"a1.json", "a2.json", "ab.json"},
			patterns: []string{"a[0-9].json"},
			want:     []string{"a1.json", "a2.json"},
		},
		{
			name:     "malformed pattern matches nothing",
			list:     []string{"a.json", "[.json"},
			patterns: []string{"[.json"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.list, tt.patterns, tt.root, DefaultOptions())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_RootingEquivalence(t *testing.T) {
	m := NewMatcher(nil)
	list := []string{"/repo/src/a.json", "/repo/src/b.txt", "/repo/src/deep/c.json", "/repo/d.json"}

	rooted := m.Match(list, []string{"src/*.json"}, "/repo", DefaultOptions())
	absolute := m.Match(list, []string{"/repo/src/*.json"}, "", DefaultOptions())
	assert.Equal(t, absolute, rooted)
	assert.Equal(t, []string{"/repo/src/a.json"}, rooted)
}

func TestMatch_SubsequenceAndDeterminism(t *testing.T) {
	m := NewMatcher(nil)
	list := []string{"/w/z.json", "/w/a.yaml", "/w/k/b.json", "/w/k/c.yml", "/w/m.txt"}
	patterns := []string{"/w/**/*.json", "/w/**/*.{yaml,yml}", "!/w/k/b.json"}
	opts := DefaultOptions()
	opts.NoBrace = false

	first := m.Match(list, patterns, "", opts)
	second := m.Match(list, patterns, "", opts)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"/w/z.json", "/w/a.yaml", "/w/k/c.yml"}, first)

	// every result appears in list order
	pos := 0
	for _, item := range first {
		for pos < len(list) && list[pos] != item {
			pos++
		}
		assert.Less(t, pos, len(list), "%s out of order", item)
	}
}

func TestMatch_Options(t *testing.T) {
	m := NewMatcher(nil)

	tests := []struct {
		name     string
		opts     func(o *Options)
		list     []string
		patterns []string
		root     string
		want     []string
	}{
		{
			name:     "brace expansion",
			opts:     func(o *Options) { o.NoBrace = false },
			list:     []string{"a.json", "b.json", "c.json"},
			patterns: []string{"{a,c}.json"},
			want:     []string{"a.json", "c.json"},
		},
		{
			name:     "brace expansion roots every alternative",
			opts:     func(o *Options) { o.NoBrace = false },
			list:     []string{"/repo/x/a.json", "/repo/y/a.json", "/repo/z/a.json"},
			patterns: []string{"{x,/repo/z}/a.json"},
			root:     "/repo",
			want:     []string{"/repo/x/a.json", "/repo/z/a.json"},
		},
		{
			name:     "negated brace pattern",
			opts:     func(o *Options) { o.NoBrace = false },
			list:     []string{"a.json", "b.json", "c.json"},
			patterns: []string{"*.json", "!{a,b}.json"},
			want:     []string{"c.json"},
		},
		{
			name:     "expansion cannot introduce a negation",
			opts:     func(o *Options) { o.NoBrace = false },
			list:     []string{"!a.json", "a.json"},
			patterns: []string{"{!a,x}.json"},
			want:     []string{"!a.json"},
		},
		{
			name:     "no globstar",
			opts:     func(o *Options) { o.NoGlobstar = true },
			list:     []string{"/r/a.json", "/r/x/b.json"},
			patterns: []string{"/r/**/*.json"},
			want:     []string{"/r/x/b.json"},
		},
		{
			name:     "dot off hides dot segments",
			opts:     func(o *Options) { o.Dot = false },
			list:     []string{"/r/.env.json", "/r/a.json", "/r/.git/c.json"},
			patterns: []string{"/r/**/*.json"},
			want:     []string{"/r/a.json"},
		},
		{
			name:     "dot off with explicit dot segment",
			opts:     func(o *Options) { o.Dot = false },
			list:     []string{"/r/.git/c.json", "/r/.cache/d.json"},
			patterns: []string{"/r/.git/*.json"},
			want:     []string{"/r/.git/c.json"},
		},
		{
			name:     "dot segment in one position does not reveal another",
			opts:     func(o *Options) { o.Dot = false },
			list:     []string{"/r/.a/x.json", "/r/.a/.secret.json"},
			patterns: []string{"/r/.*/*.json"},
			want:     []string{"/r/.a/x.json"},
		},
		{
			name:     "explicit dot segment is matched by position",
			opts:     func(o *Options) { o.Dot = false },
			list:     []string{"/r/.a/.a/x.json", "/r/.a/b/x.json"},
			patterns: []string{"/r/.a/*/x.json"},
			want:     []string{"/r/.a/b/x.json"},
		},
		{
			name:     "globstar does not descend into dot directories",
			opts:     func(o *Options) { o.Dot = false },
			list:     []string{"/r/.git/x/c.json", "/r/src/x/c.json", "/r/.git/c.json"},
			patterns: []string{"/r/.git/**/*.json", "/r/src/**/*.json"},
			want:     []string{"/r/.git/x/c.json", "/r/src/x/c.json", "/r/.git/c.json"},
		},
		{
			name:     "dot on matches dot segments with wildcards",
			opts:     func(o *Options) { o.Dot = true },
			list:     []string{"/r/.a/.secret.json"},
			patterns: []string{"/r/*/*.json"},
			want:     []string{"/r/.a/.secret.json"},
		},
		{
			name:     "case insensitive",
			opts:     func(o *Options) { o.NoCase = true },
			list:     []string{"/R/App.JSON", "/r/other.txt"},
			patterns: []string{"/r/*.json"},
			want:     []string{"/R/App.JSON"},
		},
		{
			name:     "case sensitive",
			opts:     func(o *Options) { o.NoCase = false },
			list:     []string{"/R/App.JSON", "/r/app.json"},
			patterns: []string{"/r/*.json"},
			want:     []string{"/r/app.json"},
		},
		{
			name:     "match base",
			opts:     func(o *Options) { o.MatchBase = true },
			list:     []string{"/r/a/app.json", "/r/b/app.json", "/r/b/other.json"},
			patterns: []string{"app.json"},
			root:     "/r",
			want:     []string{"/r/a/app.json", "/r/b/app.json"},
		},
		{
			name:     "match base roots patterns with a slash",
			opts:     func(o *Options) { o.MatchBase = true },
			list:     []string{"/r/a/app.json", "/r/b/app.json"},
			patterns: []string{"a/app.json"},
			root:     "/r",
			want:     []string{"/r/a/app.json"},
		},
		{
			name:     "no comment treats hash literally",
			opts:     func(o *Options) { o.NoComment = true },
			list:     []string{"#notes", "a"},
			patterns: []string{"#notes"},
			want:     []string{"#notes"},
		},
		{
			name:     "no negate treats bang literally",
			opts:     func(o *Options) { o.NoNegate = true },
			list:     []string{"!a.json", "a.json"},
			patterns: []string{"!a.json"},
			want:     []string{"!a.json"},
		},
		{
			name:     "flip negate turns single bang into include",
			opts:     func(o *Options) { o.FlipNegate = true },
			list:     []string{"a.json", "b.json"},
			patterns: []string{"!a.json"},
			want:     []string{"a.json"},
		},
		{
			name:     "flip negate turns double bang into exclude",
			opts:     func(o *Options) { o.FlipNegate = true },
			list:     []string{"a.json", "b.json"},
			patterns: []string{"*.json", "!!a.json"},
			want:     []string{"b.json"},
		},
		{
			name:     "flip negate leaves plain patterns as includes",
			opts:     func(o *Options) { o.FlipNegate = true },
			list:     []string{"a.json"},
			patterns: []string{"a.json"},
			want:     []string{"a.json"},
		},
		{
			name:     "extglob alternatives",
			opts:     func(o *Options) { o.NoExt = false },
			list:     []string{"app.json", "app.yaml", "app.txt"},
			patterns: []string{"app.@(json|yaml)"},
			want:     []string{"app.json", "app.yaml"},
		},
		{
			name:     "extglob optional group",
			opts:     func(o *Options) { o.NoExt = false },
			list:     []string{"app.json", "app.prod.json", "app.dev.json"},
			patterns: []string{"app?(.prod).json"},
			want:     []string{"app.json", "app.prod.json"},
		},
		{
			name:     "extglob disabled",
			opts:     func(o *Options) { o.NoExt = true },
			list:     []string{"app.json", "app.@(json|yaml)"},
			patterns: []string{"app.@(json|yaml)"},
			want:     []string{"app.@(json|yaml)"},
		},
		{
			name:     "no null does not leak into result",
			opts:     func(o *Options) { o.NoNull = true },
			list:     []string{"a.json"},
			patterns: []string{"*.yaml"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.NoCase = false
			tt.opts(&opts)
			got := m.Match(tt.list, tt.patterns, tt.root, opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_DoesNotMutateOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.NoBrace = false
	before := opts

	NewMatcher(nil).Match([]string{"a"}, []string{"!{a,b}", "#c"}, "", opts)
	assert.Equal(t, before, opts)
}

func TestMatchList_NoNull(t *testing.T) {
	m := NewMatcher(nil)
	opts := DefaultOptions()
	opts.NoNull = true

	assert.Equal(t, []string{"*.yaml"}, m.matchList([]string{"a.json"}, "*.yaml", opts))
	assert.Equal(t, []string{"a.json"}, m.matchList([]string{"a.json"}, "*.json", opts))
}

func TestCompile(t *testing.T) {
	t.Run("comment", func(t *testing.T) {
		_, ok := compile("# note", DefaultOptions())
		assert.False(t, ok)
	})

	t.Run("negation parity", func(t *testing.T) {
		for pattern, include := range map[string]bool{
			"a":    true,
			"!a":   false,
			"!!a":  true,
			"!!!a": false,
		} {
			cp, ok := compile(pattern, DefaultOptions())
			assert.True(t, ok)
			assert.Equal(t, include, cp.include, pattern)
			assert.Equal(t, []string{"a"}, cp.patterns, pattern)
		}
	})

	t.Run("latches prefix flags", func(t *testing.T) {
		base := Options{FlipNegate: true}
		cp, ok := compile("!{a,b}", base)
		assert.True(t, ok)
		assert.True(t, cp.include)
		assert.Equal(t, []string{"a", "b"}, cp.patterns)
		assert.True(t, cp.opts.NoComment)
		assert.True(t, cp.opts.NoNegate)
		assert.True(t, cp.opts.NoBrace)
		assert.False(t, cp.opts.FlipNegate)
	})

	t.Run("windows converts separators before expansion", func(t *testing.T) {
		setWindows(t, true)
		cp, ok := compile(`src\{a,b}.json`, Options{})
		assert.True(t, ok)
		assert.Equal(t, []string{"src/a.json", "src/b.json"}, cp.patterns)
	})
}

func TestMatch_WindowsSeparators(t *testing.T) {
	setWindows(t, true)
	m := NewMatcher(nil)
	list := []string{`C:\repo\src\a.json`, `C:\repo\src\b.txt`}

	got := m.Match(list, []string{`src\*.json`}, `C:\repo`, Options{NoCase: true})
	assert.Equal(t, []string{`C:\repo\src\a.json`}, got)
}

func TestDotSegmentsMatched(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{pattern: "/r/*.json", name: "/r/a.json", want: true},
		{pattern: "/r/*.json", name: "/r/.a.json", want: false},
		{pattern: "/r/.*", name: "/r/.a", want: true},
		{pattern: "/r/.*/*", name: "/r/.a/.b", want: false},
		{pattern: "/r/**/x", name: "/r/a/b/x", want: true},
		{pattern: "/r/**/x", name: "/r/.a/b/x", want: false},
		{pattern: "/r/**/.x", name: "/r/a/.x", want: true},
		{pattern: "/r/**", name: "/r", want: true},
		{pattern: "/r/**/**/x", name: "/r/a/b/c/x", want: true},
		{pattern: "/r/./x", name: "/r/./x", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dotSegmentsMatched(tt.pattern, tt.name))
		})
	}
}

func TestMatch_SearchOptionsHideDotFiles(t *testing.T) {
	setWindows(t, false)
	m := NewMatcher(nil)

	got := m.Match([]string{"/r/.a/x.json", "/r/.a/.secret.json"}, []string{"/r/.*/*.json"}, "", SearchOptions())
	assert.Equal(t, []string{"/r/.a/x.json"}, got)

	got = m.Match([]string{"/r/.a/.a/x.json"}, []string{"/r/.a/*/x.json"}, "", SearchOptions())
	assert.Empty(t, got)
}

func TestUnsupportedExtglob(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "x+(a).json", want: "+("},
		{pattern: "!(a|b).json", want: "!("},
		{pattern: "dir/*(x).yaml", want: "*("},
		{pattern: `x\+(a).json`, want: ""},
		{pattern: "@(a|b).json", want: ""},
		{pattern: "*.json", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, unsupportedExtglob(tt.pattern))
		})
	}
}

func TestMatch_UnsupportedExtglobIsTraced(t *testing.T) {
	setWindows(t, false)
	var buf bytes.Buffer
	m := NewMatcher(logger.NewConsoleLogger(&buf, "debug"))

	got := m.Match([]string{"x+(a).json", "xa.json"}, []string{"x+(a).json"}, "", Options{})
	assert.Equal(t, []string{"x+(a).json"}, got)
	assert.Contains(t, buf.String(), "extglob group '+(...)' in 'x+(a).json' is matched literally")
}

func TestMatch_CandidateTraces(t *testing.T) {
	setWindows(t, false)
	list := []string{"a.json", "b.yaml"}

	var debug bytes.Buffer
	NewMatcher(logger.NewConsoleLogger(&debug, "debug")).Match(list, []string{"*.json"}, "", Options{})
	assert.NotContains(t, debug.String(), "'a.json' matches")

	var trace bytes.Buffer
	NewMatcher(logger.NewConsoleLogger(&trace, "trace")).Match(list, []string{"*.json"}, "", Options{})
	assert.Contains(t, trace.String(), "[TRACE] 'a.json' matches '*.json'")
	assert.NotContains(t, trace.String(), "'b.yaml' matches")
}
