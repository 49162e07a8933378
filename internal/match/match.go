// Package match filters candidate paths with ordered include and exclude
// glob patterns.
//
// Patterns are applied strictly left to right. Include patterns add their
// matches to the result set and exclude patterns (an odd number of leading
// '!') remove theirs, so a later pattern can undo an earlier one. The result
// is always a subsequence of the candidate list in its original order.
package match

import (
	"errors"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/harrison/varsub/internal/logger"
)

// Matcher applies search patterns to candidate path lists.
type Matcher struct {
	log logger.Logger
}

// NewMatcher creates a Matcher that traces its progress to log.
// A nil logger discards all messages.
func NewMatcher(log logger.Logger) *Matcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Matcher{log: log}
}

// compiledPattern is one search pattern after comment, negation and brace
// processing.
type compiledPattern struct {
	include  bool
	patterns []string
	opts     Options
}

// compile derives the per-pattern view of base. It reports false for empty
// patterns and comments.
func compile(pattern string, base Options) (compiledPattern, bool) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return compiledPattern{}, false
	}

	if !base.NoComment && strings.HasPrefix(pattern, "#") {
		return compiledPattern{}, false
	}

	negations := 0
	if !base.NoNegate {
		for negations < len(pattern) && pattern[negations] == '!' {
			negations++
		}
		pattern = pattern[negations:]
	}

	include := negations%2 == 0
	if base.FlipNegate && negations > 0 {
		include = !include
	}

	var expanded []string
	if base.NoBrace {
		expanded = []string{pattern}
	} else {
		// backslashes become separators first, so braces cannot be escaped on Windows
		expanded = expandBraces(toSlash(pattern))
	}

	return compiledPattern{
		include:  include,
		patterns: expanded,
		opts:     base.latched(),
	}, true
}

// Match returns the members of list selected by patterns. Relative patterns
// are prefixed with patternRoot when it is non-empty, except for slash-less
// patterns under MatchBase, which match base names anywhere.
func (m *Matcher) Match(list []string, patterns []string, patternRoot string, opts Options) []string {
	m.trace(opts, "patternRoot: '%s'", patternRoot)

	included := make(map[string]struct{})
	for _, raw := range patterns {
		m.trace(opts, "pattern: '%s'", raw)

		cp, ok := compile(raw, opts)
		if !ok {
			m.trace(opts, "skipping empty pattern or comment")
			continue
		}

		for _, sub := range cp.patterns {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				m.trace(opts, "skipping empty pattern")
				continue
			}

			if patternRoot != "" && !IsRooted(sub) &&
				(!cp.opts.MatchBase || strings.Contains(toSlash(sub), "/")) {
				sub = EnsureRooted(patternRoot, sub)
				m.trace(opts, "rooted pattern: '%s'", sub)
			}

			matches := m.matchList(list, sub, cp.opts)
			m.trace(opts, "%d matches", len(matches))

			if cp.include {
				for _, item := range matches {
					included[item] = struct{}{}
				}
			} else {
				for _, item := range matches {
					delete(included, item)
				}
			}
		}
	}

	result := make([]string, 0, len(included))
	for _, item := range list {
		if _, ok := included[item]; ok {
			result = append(result, item)
		}
	}
	m.trace(opts, "%d final results", len(result))
	return result
}

// matchList applies a single expanded pattern to every candidate.
func (m *Matcher) matchList(list []string, pattern string, opts Options) []string {
	alternatives := []string{prepare(pattern, opts)}
	if !opts.NoExt {
		if group := unsupportedExtglob(alternatives[0]); group != "" {
			m.trace(opts, "extglob group '%s...)' in '%s' is matched literally", group, pattern)
		}
		alternatives = expandExtglob(alternatives[0])
	}
	matchBase := opts.MatchBase && !strings.Contains(alternatives[0], "/")

	var matches []string
	for _, item := range list {
		name := toSlash(item)
		if opts.NoCase {
			name = strings.ToLower(name)
		}
		if matchBase {
			name = path.Base(name)
		}

		for _, alt := range alternatives {
			ok, err := doublestar.Match(alt, name)
			if err != nil {
				if errors.Is(err, doublestar.ErrBadPattern) {
					m.log.Debugf("invalid pattern '%s': %v", pattern, err)
					return m.noMatches(pattern, opts)
				}
				continue
			}
			if ok && (opts.Dot || dotSegmentsMatched(alt, name)) {
				m.log.Tracef("'%s' matches '%s'", item, alt)
				matches = append(matches, item)
				break
			}
		}
	}

	if len(matches) == 0 {
		return m.noMatches(pattern, opts)
	}
	return matches
}

func (m *Matcher) noMatches(pattern string, opts Options) []string {
	if opts.NoNull {
		return []string{pattern}
	}
	return nil
}

// prepare converts a rooted sub-pattern into the engine's syntax.
func prepare(pattern string, opts Options) string {
	pattern = escapeBraces(toSlash(pattern))
	if opts.NoGlobstar {
		for strings.Contains(pattern, "**") {
			pattern = strings.ReplaceAll(pattern, "**", "*")
		}
	}
	if opts.NoCase {
		pattern = strings.ToLower(pattern)
	}
	return pattern
}

// escapeBraces makes braces literal. Expansion has already happened by the
// time a pattern reaches the engine.
func escapeBraces(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i++
			continue
		}
		if c == '{' || c == '}' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// dotSegmentsMatched walks pattern and name segment by segment and reports
// whether every name segment starting with a dot lines up with a pattern
// segment that also starts with one. "**" spans only segments without a
// leading dot, so wildcards alone never reveal dot files.
func dotSegmentsMatched(pattern, name string) bool {
	w := dotWalk{
		pattern: strings.Split(pattern, "/"),
		name:    strings.Split(name, "/"),
		seen:    make(map[[2]int]bool),
	}
	return w.match(0, 0)
}

type dotWalk struct {
	pattern []string
	name    []string
	// failed positions; "**" makes the walk branch
	seen map[[2]int]bool
}

func (w *dotWalk) match(p, n int) bool {
	if p == len(w.pattern) {
		return n == len(w.name)
	}
	if w.seen[[2]int{p, n}] {
		return false
	}

	ok := w.step(p, n)
	if !ok {
		w.seen[[2]int{p, n}] = true
	}
	return ok
}

func (w *dotWalk) step(p, n int) bool {
	seg := w.pattern[p]
	if seg == "**" {
		if w.match(p+1, n) {
			return true
		}
		return n < len(w.name) && !isDotSegment(w.name[n]) && w.match(p, n+1)
	}

	if n == len(w.name) {
		return false
	}
	if isDotSegment(w.name[n]) && !explicitDot(seg) {
		return false
	}
	if ok, _ := doublestar.Match(seg, w.name[n]); !ok {
		return false
	}
	return w.match(p+1, n+1)
}

func isDotSegment(seg string) bool {
	return strings.HasPrefix(seg, ".") && seg != "." && seg != ".."
}

func explicitDot(patternSegment string) bool {
	return strings.HasPrefix(patternSegment, ".") || strings.HasPrefix(patternSegment, `\.`)
}

func (m *Matcher) trace(opts Options, format string, args ...interface{}) {
	if opts.Debug {
		m.log.Infof(format, args...)
		return
	}
	m.log.Debugf(format, args...)
}
