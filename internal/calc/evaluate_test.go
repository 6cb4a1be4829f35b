package calc

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		mode AngleMode
		want string
	}{
		{"", Degree, "0"},
		{"", Radian, "0"},
		{"2+2", Degree, "4"},
		{"5!", Degree, "120"},
		{"sin(90)", Degree, "1"},
		{"sin(0)", Radian, "0"},
		{"ncr(5,2)", Degree, "10"},
		{"npr(5,2)", Degree, "20"},
		{"log(100)", Degree, "2"},
		{"1/0", Degree, "Error"},
		{"2+@", Degree, "Invalid Chars"},
		{"sin(cos(0))", Degree, "0.0174524064"},
		{"sin((((45))))", Degree, "0.7071067812"},
		{"sin(30)", Degree, "0.5"},
		{"cos(π)", Radian, "-1"},
		{"2^3^2", Degree, "512"},
		{"-2^2", Degree, "-4"},
		{"2^-1", Degree, "0.5"},
		{"2+3!", Degree, "8"},
		{"-3!", Degree, "-6"},
		{"2^3!", Degree, "64"},
		{"1/3", Degree, "0.3333333333"},
		{"20!", Degree, "2.43290e+18"},
		{"0.00000000001", Degree, "1.00000e-11"},
		{"1e15", Degree, "1000000000000000"},
		{"√(16)", Degree, "4"},
		{"ln(e)", Degree, "1"},
		{"exp(0)", Degree, "1"},
		{" 1 + 2 * 3 ", Degree, "7"},
		{"(1+2)*3", Degree, "9"},
		{"7-2-1", Degree, "4"},
		{"8/2/2", Degree, "2"},
		{"2.5!", Degree, "Error"},
		{"log(-1)", Degree, "Error"},
		{"√(-4)", Degree, "Error"},
		{"ncr(2,5)", Degree, "Error"},
		{"npr(-1,0)", Degree, "Error"},
		{"171!", Degree, "Error"},
		{"sin(", Degree, "Error"},
		{"(2+3", Degree, "Error"},
		{"2+3)", Degree, "Error"},
		{"2,3", Degree, "Error"},
		{"sin(1,2)", Degree, "Error"},
		{"ncr(5)", Degree, "Error"},
		{"(3)!", Degree, "Error"},
		{"5!!", Degree, "Error"},
		{"sincos(0)", Degree, "Error"},
		{"   ", Degree, "Error"},
		{"X", Degree, "Invalid Chars"},
		{"2z", Degree, "Invalid Chars"},
		{"sqrt(4)", Degree, "Invalid Chars"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.mode, tt.expr), func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.expr, tt.mode))
		})
	}
}

func TestEvaluate_NestedTrigConvertsPerCall(t *testing.T) {
	// cos(60°) = 0.5, then sin(0.5°) in degree mode.
	deg := Evaluate("sin(cos(60))", Degree)
	assert.Equal(t, "0.0087265355", deg)

	// Trig nested inside a non-trig function is still converted.
	assert.Equal(t, "1", Evaluate("√(sin(90))", Degree))
	assert.Equal(t, "2", Evaluate("log(100*sin(90))", Degree))
}

func TestEvaluate_DeepParentheses(t *testing.T) {
	expr := "sin(" + strings.Repeat("(", 100) + "45" + strings.Repeat(")", 100) + ")"
	assert.Equal(t, "0.7071067812", Evaluate(expr, Degree))
}

func TestEvaluate_NestingWellPastHandTyped(t *testing.T) {
	expr := strings.Repeat("(", 1000) + "2+3" + strings.Repeat(")", 1000)
	assert.Equal(t, "5", Evaluate(expr, Degree))

	expr = strings.Repeat("cos(", 300) + "0" + strings.Repeat(")", 300)
	assert.NotEqual(t, DisplayError, Evaluate(expr, Radian))
}

func TestEvaluate_TooDeep(t *testing.T) {
	expr := strings.Repeat("(", maxDepth+1) + "1" + strings.Repeat(")", maxDepth+1)
	assert.Equal(t, DisplayError, Evaluate(expr, Degree))
}

func TestEvaluate_FormattedResultIsFixedPoint(t *testing.T) {
	exprs := []string{
		"2+2", "1/3", "2/3", "-7/9", "sin(45)", "20!", "ncr(30,15)",
		"0.00000000001*3", "exp(40)", "π", "e", "-1e16",
	}
	for _, mode := range []AngleMode{Degree, Radian} {
		for _, expr := range exprs {
			first := Evaluate(expr, mode)
			require.False(t, IsSentinel(first), "%s evaluated to %s", expr, first)
			assert.Equal(t, first, Evaluate(first, mode), "re-evaluating %s", first)
		}
	}
}

func TestEvaluate_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			expr := fmt.Sprintf("ncr(%d,2)+sin(90)", i+2)
			want := Format(NCr(float64(i+2), 2) + 1)
			assert.Equal(t, want, Evaluate(expr, Degree))
		}(i)
	}
	wg.Wait()
}

func TestCompute_TypedErrors(t *testing.T) {
	_, err := Compute("2+@", Degree)
	require.Error(t, err)
	assert.True(t, IsInvalidCharacters(err))
	assert.False(t, IsEvaluationError(err))

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Pos)

	_, err = Compute("1/0", Degree)
	require.Error(t, err)
	assert.True(t, IsEvaluationError(err))
	assert.Equal(t, DisplayError, Display(err))

	_, err = Compute("2*(3", Radian)
	require.Error(t, err)
	assert.True(t, IsEvaluationError(err))
	assert.Contains(t, err.Error(), "expected")
}

func TestCompute_Value(t *testing.T) {
	v, err := Compute("tan(45)", Degree)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	v, err = Compute("2^0.5", Radian)
	require.NoError(t, err)
	assert.InDelta(t, 1.41421356237, v, 1e-10)
}
