package calc

import "math"

// Canonicalize returns a copy of n with degree conversion applied. In
// Degree mode the argument of every sin, cos and tan call becomes
// arg * π / 180; nested trig calls are converted independently. Radian
// mode returns an unchanged copy.
func Canonicalize(n Node, mode AngleMode) Node {
	switch n := n.(type) {
	case *UnaryOp:
		return &UnaryOp{Op: n.Op, Operand: Canonicalize(n.Operand, mode)}
	case *BinaryOp:
		return &BinaryOp{
			Op:    n.Op,
			Left:  Canonicalize(n.Left, mode),
			Right: Canonicalize(n.Right, mode),
		}
	case *Call:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Canonicalize(a, mode)
		}
		if mode == Degree && n.Func.IsTrig() {
			args[0] = toRadians(args[0])
		}
		return &Call{Func: n.Func, Args: args}
	case *Number:
		return &Number{Value: n.Value}
	default:
		return n
	}
}

func toRadians(n Node) Node {
	return &BinaryOp{
		Op:    OpDiv,
		Left:  &BinaryOp{Op: OpMul, Left: n, Right: &Number{Value: math.Pi}},
		Right: &Number{Value: 180},
	}
}

// CanonicalForm validates and parses expr and renders its canonical form
// for the given mode.
func CanonicalForm(expr string, mode AngleMode) (string, error) {
	if err := Validate(expr); err != nil {
		return "", err
	}
	tree, err := Parse(expr)
	if err != nil {
		return "", err
	}
	return Canonicalize(tree, mode).String(), nil
}
