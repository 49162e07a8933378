package document

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// YAMLNode converts a decoded value into a YAML node. Numbers held as
// json.Number keep their text and are tagged as int or float.
func YAMLNode(v any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(yamlValue(v)); err != nil {
		return nil, err
	}
	return &node, nil
}

func yamlValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		tag := "!!float"
		if _, err := val.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = yamlValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = yamlValue(item)
		}
		return out
	}
	return v
}
