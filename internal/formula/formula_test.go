package formula_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/formula"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEval(t *testing.T) {
	vars := map[string]decimal.Decimal{
		"BASE_SALARY": d("3000000"),
		"BONUS":       d("200000"),
		"ZERO":        decimal.Zero,
	}

	tests := []struct {
		src  string
		want string
	}{
		{"{BASE_SALARY} * 0.04", "120000"},
		{"{base_salary} * 4 / 100", "120000"},
		{"{BASE_SALARY} + {BONUS} * 2", "3400000"},
		{"({BASE_SALARY} + {BONUS}) * 2", "6400000"},
		{"-{BONUS} + 1000", "-199000"},
		{"10 - 2 - 3", "5"},
		{"  42  ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := formula.Parse(tt.src)
			require.NoError(t, err)
			got, err := formula.Eval(n, vars)
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	n, err := formula.Parse("{BASE_SALARY} * {MISSING}")
	require.NoError(t, err)

	_, err = formula.Eval(n, map[string]decimal.Decimal{"BASE_SALARY": d("1")})
	var unresolved *formula.UnresolvedVariableError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "MISSING", unresolved.Code)

	n, err = formula.Parse("{A} / {B}")
	require.NoError(t, err)
	_, err = formula.Eval(n, map[string]decimal.Decimal{"A": d("1"), "B": decimal.Zero})
	assert.ErrorIs(t, err, formula.ErrDivisionByZero)
}

func TestParse_SyntaxErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"{BASE_SALARY",
		"{}",
		"{BASE SALARY}",
		"1 +",
		"(1 + 2",
		"1 2",
		"1.2.3",
		"{A} % 2",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := formula.Parse(src)
			var syntaxErr *formula.SyntaxError
			assert.True(t, errors.As(err, &syntaxErr), "expected syntax error, got %v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	known := formula.KnownSet([]string{"base_salary", "BONUS"})

	_, err := formula.Validate("{BASE_SALARY} + {BONUS}", known)
	assert.NoError(t, err)

	_, err = formula.Validate("{BASE_SALARY} + {TRANSPORT} + {COMMISSION} + {TRANSPORT}", known)
	var missing *formula.MissingVariablesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"COMMISSION", "TRANSPORT"}, missing.Missing)
}

func TestVariables(t *testing.T) {
	n, err := formula.Parse("{B} + {A} * ({B} - 1)")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, formula.Variables(n))
}

func TestNode_JSONRoundTripEvaluatesTheSame(t *testing.T) {
	n, err := formula.Parse("({BASE_SALARY} / 30) * -2")
	require.NoError(t, err)

	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var restored formula.Node
	require.NoError(t, json.Unmarshal(raw, &restored))

	vars := map[string]decimal.Decimal{"BASE_SALARY": d("3000000")}
	a, err := formula.Eval(n, vars)
	require.NoError(t, err)
	b, err := formula.Eval(&restored, vars)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.True(t, d("-200000").Equal(a))
}
