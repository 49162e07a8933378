package match

import (
	"regexp"
	"strings"
)

var (
	driveRootRe   = regexp.MustCompile(`(?i)^[A-Z]:$`)
	drivePrefixRe = regexp.MustCompile(`(?i)^[A-Z]:`)
	uncPrefixRe   = regexp.MustCompile(`^\\\\+[^\\]`)
	backslashesRe = regexp.MustCompile(`\\\\+`)
	slashesRe     = regexp.MustCompile(`//+`)
)

func separator() string {
	if windows {
		return `\`
	}
	return "/"
}

// normalizeSeparators converts separators to the platform form and collapses
// repeated separators. A leading UNC double backslash is preserved.
func normalizeSeparators(p string) string {
	if windows {
		p = strings.ReplaceAll(p, "/", `\`)
		prefix := ""
		if uncPrefixRe.MatchString(p) {
			prefix = `\`
		}
		return prefix + backslashesRe.ReplaceAllString(p, `\`)
	}
	return slashesRe.ReplaceAllString(p, "/")
}

// IsRooted reports whether p is absolute: it starts with a separator or, on
// Windows, with a backslash or a drive letter such as C:.
func IsRooted(p string) bool {
	p = normalizeSeparators(p)
	if windows {
		return strings.HasPrefix(p, `\`) || drivePrefixRe.MatchString(p)
	}
	return strings.HasPrefix(p, "/")
}

// EnsureRooted prefixes p with root unless p is already rooted. Exactly one
// separator is placed between them, except for a bare drive root like C:
// which is concatenated directly.
func EnsureRooted(root, p string) string {
	if root == "" || IsRooted(p) {
		return p
	}

	if windows && driveRootRe.MatchString(root) {
		return root + p
	}

	if !strings.HasSuffix(root, "/") && !(windows && strings.HasSuffix(root, `\`)) {
		root += separator()
	}
	return root + p
}

// toSlash converts Windows separators so patterns and paths share the
// forward-slash form the glob engine expects.
func toSlash(p string) string {
	if windows {
		return strings.ReplaceAll(p, `\`, "/")
	}
	return p
}
