// Package formula parses and evaluates concept formulas such as
// "{BASE_SALARY} * 0.04 + {TRANSPORT}".
package formula

import (
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindNumber   Kind = "number"
	KindVariable Kind = "var"
	KindBinary   Kind = "binary"
	KindNegate   Kind = "neg"
)

// Node is one expression node. It is stored as JSON next to the concept so
// formulas are parsed once, at save time.
type Node struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value,omitempty"` // decimal literal for KindNumber
	Name  string `json:"name,omitempty"`  // concept code for KindVariable
	Op    string `json:"op,omitempty"`    // + - * / for KindBinary
	Left  *Node  `json:"left,omitempty"`
	Right *Node  `json:"right,omitempty"` // operand for KindNegate
}

func (n *Node) String() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindNumber:
		return n.Value
	case KindVariable:
		return "{" + n.Name + "}"
	case KindNegate:
		return "-" + n.Right.String()
	case KindBinary:
		return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
	default:
		return "?"
	}
}

// Variables returns the sorted, de-duplicated codes referenced by n.
func Variables(n *Node) []string {
	seen := map[string]struct{}{}
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == KindVariable {
			seen[n.Name] = struct{}{}
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(n)

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula syntax error at %d: %s", e.Pos, e.Msg)
}

type MissingVariablesError struct {
	Missing []string
}

func (e *MissingVariablesError) Error() string {
	return "formula references unknown variables: " + strings.Join(e.Missing, ", ")
}

type UnresolvedVariableError struct {
	Code string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("formula variable %s has no value", e.Code)
}
