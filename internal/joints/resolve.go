package joints

import (
	"fmt"
	"regexp"

	"github.com/san-kum/actuate/internal/dynamo"
)

// Selection picks the joints of a group: either every joint of the
// articulation or those matching an explicit pattern list.
type Selection struct {
	all      bool
	patterns []string
}

func AllJoints() Selection {
	return Selection{all: true}
}

func Patterns(patterns ...string) Selection {
	return Selection{patterns: append([]string(nil), patterns...)}
}

func (s Selection) IsAll() bool { return s.all }

func (s Selection) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

func (s Selection) String() string {
	if s.all {
		return "all"
	}
	return fmt.Sprintf("%q", s.patterns)
}

// JointSet is the resolved membership of a group, in articulation order.
type JointSet struct {
	Names   []string
	Indices []int
	All     bool
}

func (s JointSet) Len() int { return len(s.Indices) }

func (s JointSet) Contains(index int) bool {
	for _, i := range s.Indices {
		if i == index {
			return true
		}
	}
	return false
}

// Compile anchors pattern so it must match an entire joint name. The
// pattern must parse on its own before it is anchored.
func Compile(pattern string) (*regexp.Regexp, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, &dynamo.ConfigError{
			Field:    "joint pattern",
			Patterns: []string{pattern},
			Reason:   fmt.Sprintf("invalid match expression: %v", err),
		}
	}
	return regexp.MustCompile(`^(?:` + pattern + `)$`), nil
}

// Resolve matches sel against names. Each joint appears at most once and
// the result follows the order of names, not the order of the patterns.
// A selection that matches nothing yields an empty set, not an error.
func Resolve(sel Selection, names []string) (JointSet, error) {
	if sel.all {
		set := JointSet{
			Names:   append([]string(nil), names...),
			Indices: make([]int, len(names)),
			All:     true,
		}
		for i := range names {
			set.Indices[i] = i
		}
		return set, nil
	}

	if len(sel.patterns) == 0 {
		return JointSet{}, &dynamo.ConfigError{
			Field:  "joint_names_expr",
			Reason: "no joint patterns given",
		}
	}

	compiled := make([]*regexp.Regexp, len(sel.patterns))
	for i, p := range sel.patterns {
		re, err := Compile(p)
		if err != nil {
			return JointSet{}, err
		}
		compiled[i] = re
	}

	set := JointSet{
		Names:   make([]string, 0, len(names)),
		Indices: make([]int, 0, len(names)),
	}
	for i, name := range names {
		for _, re := range compiled {
			if re.MatchString(name) {
				set.Names = append(set.Names, name)
				set.Indices = append(set.Indices, i)
				break
			}
		}
	}
	return set, nil
}
