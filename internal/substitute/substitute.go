// Package substitute overwrites values in decoded JSON and YAML documents
// with values taken from an environment tree.
//
// Every key of every object is split on '.' and resolved against the
// current environment scope. A terminal match overwrites the slot, coerced
// to the kind the slot already held; an interior match descends into the
// slot with the matched subtree as the new scope. Keys are never added, and
// array elements are addressed by their index. Unparsable replacement text
// never fails: it is stored as a plain string.
package substitute

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/harrison/varsub/internal/document"
	"github.com/harrison/varsub/internal/envtree"
	"github.com/harrison/varsub/internal/logger"
	"gopkg.in/yaml.v3"
)

// Engine substitutes environment values into documents.
type Engine struct {
	log logger.Logger
}

// New creates an Engine that traces each substituted key to log.
// A nil logger discards all messages.
func New(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{log: log}
}

// Substitute is a convenience wrapper around an Engine without logging.
func Substitute(doc any, env *envtree.Node) bool {
	return New(nil).Substitute(doc, env)
}

// Substitute mutates doc in place and reports whether any slot was
// overwritten. doc must be a *document.Object, a *yaml.Node, a
// map[string]any, map[any]any or []any; any other value is left alone.
// Ordered objects and YAML mappings are visited in document order, plain
// maps in sorted key order. env is only read.
func (e *Engine) Substitute(doc any, env *envtree.Node) bool {
	if env == nil {
		return false
	}

	changed := false
	switch node := doc.(type) {
	case *document.Object:
		for _, key := range node.Keys() {
			current, _ := node.Get(key)
			value, slotChanged := e.slot(key, current, env)
			if slotChanged {
				node.Set(key, value)
				changed = true
			}
		}

	case *yaml.Node:
		changed = e.substituteNode(node, env)

	case map[string]any:
		keys := make([]string, 0, len(node))
		for key := range node {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value, slotChanged := e.slot(key, node[key], env)
			if slotChanged {
				node[key] = value
				changed = true
			}
		}

	case map[any]any:
		keys := make([]any, 0, len(node))
		for key := range node {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})

		for _, key := range keys {
			value, slotChanged := e.slot(fmt.Sprint(key), node[key], env)
			if slotChanged {
				node[key] = value
				changed = true
			}
		}

	case []any:
		for i := range node {
			value, slotChanged := e.slot(strconv.Itoa(i), node[i], env)
			if slotChanged {
				node[i] = value
				changed = true
			}
		}
	}

	return changed
}

// slot resolves one key. For terminal matches it returns the coerced value;
// for interior matches the current value is mutated in place and returned.
func (e *Engine) slot(key string, current any, env *envtree.Node) (any, bool) {
	found := env.Lookup(strings.Split(key, "."))
	if found == nil {
		return current, false
	}

	if found.Terminal {
		e.log.Debugf("Substituting value on key %s with %s", key, KindOf(current))
		return Coerce(current, found.Value), true
	}

	return current, e.Substitute(current, found)
}

// substituteNode walks a YAML node tree. Replaced scalars keep the comments
// attached to the node they replace.
func (e *Engine) substituteNode(n *yaml.Node, env *envtree.Node) bool {
	if n == nil {
		return false
	}

	changed := false
	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			if e.substituteNode(child, env) {
				changed = true
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if e.nodeSlot(n.Content[i].Value, &n.Content[i+1], env) {
				changed = true
			}
		}
	case yaml.SequenceNode:
		for i := range n.Content {
			if e.nodeSlot(strconv.Itoa(i), &n.Content[i], env) {
				changed = true
			}
		}
	}
	return changed
}

func (e *Engine) nodeSlot(key string, slot **yaml.Node, env *envtree.Node) bool {
	current := *slot
	value, changed := e.slot(key, current, env)
	if !changed {
		return false
	}
	if same, ok := value.(*yaml.Node); ok && same == current {
		return true
	}

	replacement, err := document.YAMLNode(value)
	if err != nil {
		e.log.Warnf("Unable to encode value for key %s: %v", key, err)
		return false
	}
	if replacement.Kind == yaml.ScalarNode && replacement.ShortTag() == "!!str" &&
		current.Kind == yaml.ScalarNode && current.ShortTag() == "!!str" {
		replacement.Style = current.Style
	}
	replacement.HeadComment = current.HeadComment
	replacement.LineComment = current.LineComment
	replacement.FootComment = current.FootComment
	*slot = replacement
	return true
}
