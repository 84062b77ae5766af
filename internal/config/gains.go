package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/actuate/internal/joints"
)

// GainMap is a pattern -> value mapping that keeps document order. A null
// value is kept as a placeholder entry that assigns nothing.
type GainMap joints.PatternValues

func (g GainMap) Values() joints.PatternValues {
	if g == nil {
		return nil
	}
	return joints.PatternValues(g)
}

// Uniform is a single ".*" entry.
func Uniform(v float64) GainMap {
	return GainMap{{Pattern: ".*", Value: joints.Value(v)}}
}

func (g *GainMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		*g = nil
		return nil
	}
	if node.Kind == yaml.ScalarNode {
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: gain must be a number or a mapping: %w", node.Line, err)
		}
		*g = Uniform(v)
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: gain must be a number or a mapping", node.Line)
	}

	out := make(GainMap, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		entry := joints.PatternValue{Pattern: key.Value}
		if val.ShortTag() != "!!null" {
			var v float64
			if err := val.Decode(&v); err != nil {
				return fmt.Errorf("line %d: gain for %q: %w", val.Line, key.Value, err)
			}
			entry.Value = joints.Value(v)
		}
		out = append(out, entry)
	}
	*g = out
	return nil
}

func (g GainMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range g {
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if e.Value != nil {
			val = &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(*e.Value, 'g', -1, 64)}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: e.Pattern},
			val,
		)
	}
	return node, nil
}
