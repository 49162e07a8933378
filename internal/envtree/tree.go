// Package envtree indexes environment variables by their dot-separated names.
//
// A variable named "ConnectionStrings.Default" becomes the terminal node
// reached by the path ["ConnectionStrings", "Default"]. Interior nodes group
// every variable that shares a prefix, so a JSON object can be matched
// against the subtree for its key.
package envtree

import (
	"sort"
	"strings"
)

// DefaultExcludePrefixes are variable name prefixes set by CI runners that
// are never offered for substitution.
var DefaultExcludePrefixes = []string{"runner.", "azure_http_user_agent", "common.", "system."}

// Node is one level of the environment tree. A node can be terminal and
// still have children when both "a" and "a.b" are defined; lookups treat it
// as terminal.
type Node struct {
	Value    string
	Terminal bool
	Children map[string]*Node
}

// New returns an empty root node.
func New() *Node {
	return &Node{Children: make(map[string]*Node)}
}

// Build creates a tree from name/value pairs, skipping names that start with
// one of excludePrefixes (compared case-insensitively).
func Build(vars map[string]string, excludePrefixes []string) *Node {
	root := New()

	// sorted insertion keeps the tree independent of map iteration order
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if excluded(name, excludePrefixes) {
			continue
		}
		root.Insert(name, vars[name])
	}
	return root
}

// FromEnviron builds a tree from KEY=VALUE entries as returned by os.Environ.
// Entries without '=' are ignored; a later duplicate name wins.
func FromEnviron(environ []string, excludePrefixes []string) *Node {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = value
	}
	return Build(vars, excludePrefixes)
}

// Insert adds name, split on '.', with value as a terminal leaf.
func (n *Node) Insert(name, value string) {
	node := n
	for _, segment := range strings.Split(name, ".") {
		child, ok := node.Children[segment]
		if !ok {
			child = New()
			node.Children[segment] = child
		}
		node = child
	}
	node.Terminal = true
	node.Value = value
}

// Lookup walks segments from n and returns the node reached, or nil when
// any segment is missing. An empty path returns n itself.
func (n *Node) Lookup(segments []string) *Node {
	node := n
	for _, segment := range segments {
		if node == nil {
			return nil
		}
		child, ok := node.Children[segment]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Len returns the number of terminal nodes under n, including n.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	count := 0
	if n.Terminal {
		count++
	}
	for _, child := range n.Children {
		count += child.Len()
	}
	return count
}

func excluded(name string, prefixes []string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}
