package calc

import "math"

// maxFactorial is the largest n whose factorial is finite in float64.
const maxFactorial = 170

// Eval computes the value of a tree. Out-of-domain operations yield NaN or
// ±Inf rather than an error; Compute applies the finite guard.
func Eval(n Node) float64 {
	switch n := n.(type) {
	case *Number:
		return n.Value

	case *UnaryOp:
		v := Eval(n.Operand)
		if n.Op == OpSub {
			return -v
		}
		return v

	case *BinaryOp:
		l, r := Eval(n.Left), Eval(n.Right)
		switch n.Op {
		case OpAdd:
			return l + r
		case OpSub:
			return l - r
		case OpMul:
			return l * r
		case OpDiv:
			return l / r
		case OpPow:
			return math.Pow(l, r)
		}

	case *Call:
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			args[i] = Eval(a)
		}
		return apply(n.Func, args)
	}
	return math.NaN()
}

func apply(fn Func, args []float64) float64 {
	if len(args) != fn.Arity() {
		return math.NaN()
	}
	x := args[0]
	switch fn {
	case FuncSin:
		return math.Sin(x)
	case FuncCos:
		return math.Cos(x)
	case FuncTan:
		return math.Tan(x)
	case FuncLog10:
		return math.Log10(x)
	case FuncLn:
		return math.Log(x)
	case FuncExp:
		return math.Exp(x)
	case FuncSqrt:
		return math.Sqrt(x)
	case FuncFactorial:
		return Factorial(x)
	case FuncNCr:
		return NCr(x, args[1])
	case FuncNPr:
		return NPr(x, args[1])
	}
	return math.NaN()
}

// Factorial returns n! for non-negative integral n and NaN otherwise.
// Results past 170! overflow to +Inf.
func Factorial(n float64) float64 {
	if n < 0 || n != math.Trunc(n) {
		return math.NaN()
	}
	if n > maxFactorial {
		return math.Inf(1)
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return result
}

// NPr returns the number of r-permutations of n, or NaN when n < r or
// either is negative.
func NPr(n, r float64) float64 {
	if n < r || n < 0 || r < 0 {
		return math.NaN()
	}
	return Factorial(n) / Factorial(n-r)
}

// NCr returns the number of r-combinations of n, or NaN when n < r or
// either is negative.
func NCr(n, r float64) float64 {
	if n < r || n < 0 || r < 0 {
		return math.NaN()
	}
	return Factorial(n) / (Factorial(r) * Factorial(n-r))
}
