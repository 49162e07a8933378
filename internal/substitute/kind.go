package substitute

import (
	"encoding/json"

	"github.com/harrison/varsub/internal/document"
	"gopkg.in/yaml.v3"
)

// Kind classifies a decoded document value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// KindOf returns the Kind of a decoded document value: a document.Object
// tree, a YAML node, or the result of decoding into interface{}. Scalars of
// any other type, such as YAML timestamps, are classified as strings.
func KindOf(v any) Kind {
	switch val := v.(type) {
	case *yaml.Node:
		return nodeKind(val)
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return KindNumber
	case string:
		return KindString
	case *document.Object, map[string]any, map[any]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindString
	}
}

func nodeKind(n *yaml.Node) Kind {
	if n == nil {
		return KindNull
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return KindNull
		}
		return nodeKind(n.Content[0])
	case yaml.AliasNode:
		return nodeKind(n.Alias)
	case yaml.MappingNode:
		return KindObject
	case yaml.SequenceNode:
		return KindArray
	}

	switch n.ShortTag() {
	case "!!null":
		return KindNull
	case "!!bool":
		return KindBool
	case "!!int", "!!float":
		return KindNumber
	}
	return KindString
}
