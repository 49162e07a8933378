package match

// expandExtglob rewrites @(a|b) and ?(a|b) groups into the concrete
// alternatives they accept. A name matches the original pattern when it
// matches any of the returned patterns. Other extended glob forms are left
// untouched and match literally.
func expandExtglob(pattern string) []string {
	start, end, optional, ok := findExtglobGroup(pattern)
	if !ok {
		return []string{pattern}
	}

	pre, body, post := pattern[:start], pattern[start+2:end], pattern[end+1:]
	alternatives := splitAlternatives(body)
	if optional {
		alternatives = append(alternatives, "")
	}

	tails := expandExtglob(post)
	var out []string
	for _, alt := range alternatives {
		for _, head := range expandExtglob(alt) {
			for _, tail := range tails {
				out = append(out, pre+head+tail)
			}
		}
	}
	return out
}

// findExtglobGroup locates the first unescaped @( or ?( group with a
// matching close paren.
func findExtglobGroup(s string) (start, end int, optional, ok bool) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if (s[i] != '@' && s[i] != '?') || s[i+1] != '(' {
			continue
		}
		depth := 0
		for j := i + 1; j < len(s); j++ {
			switch s[j] {
			case '\\':
				j++
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i, j, s[i] == '?', true
				}
			}
		}
	}
	return 0, 0, false, false
}

func splitAlternatives(body string) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				parts = append(parts, body[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, body[last:])
}

// unsupportedExtglob returns the first unescaped !( +( or *( group opener,
// or "" when there is none. Such groups are matched as literal text.
func unsupportedExtglob(s string) string {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i+1] == '(' && (s[i] == '!' || s[i] == '+' || s[i] == '*') {
			return s[i : i+2]
		}
	}
	return ""
}
