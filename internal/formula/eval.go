package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrDivisionByZero = errors.New("formula division by zero")

// Validate parses src and checks every reference against known. It never
// evaluates the expression.
func Validate(src string, known map[string]struct{}) (*Node, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, v := range Variables(n) {
		if _, ok := known[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingVariablesError{Missing: missing}
	}
	return n, nil
}

// KnownSet builds a lookup set from codes, upper-casing them.
func KnownSet(codes ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range codes {
		for _, c := range group {
			set[strings.ToUpper(c)] = struct{}{}
		}
	}
	return set
}

// Eval computes n against vars. Missing variables are reported with their
// code so callers can name the concept that could not be resolved.
func Eval(n *Node, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	if n == nil {
		return decimal.Zero, errors.New("formula is empty")
	}

	switch n.Kind {
	case KindNumber:
		return decimal.NewFromString(n.Value)
	case KindVariable:
		v, ok := vars[n.Name]
		if !ok {
			return decimal.Zero, &UnresolvedVariableError{Code: n.Name}
		}
		return v, nil
	case KindNegate:
		v, err := Eval(n.Right, vars)
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	case KindBinary:
		l, err := Eval(n.Left, vars)
		if err != nil {
			return decimal.Zero, err
		}
		r, err := Eval(n.Right, vars)
		if err != nil {
			return decimal.Zero, err
		}
		switch n.Op {
		case "+":
			return l.Add(r), nil
		case "-":
			return l.Sub(r), nil
		case "*":
			return l.Mul(r), nil
		case "/":
			if r.IsZero() {
				return decimal.Zero, ErrDivisionByZero
			}
			return l.DivRound(r, 8), nil
		}
		return decimal.Zero, fmt.Errorf("unknown operator %q", n.Op)
	default:
		return decimal.Zero, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}
