package calc

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is an expression tree node. String renders the canonical form.
type Node interface {
	String() string
	node()
}

// Operator is an arithmetic operator.
type Operator rune

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
	OpPow Operator = '^'
)

// Func identifies a callable primitive.
type Func int

const (
	FuncSin Func = iota
	FuncCos
	FuncTan
	FuncLog10
	FuncLn
	FuncExp
	FuncSqrt
	FuncFactorial
	FuncNCr
	FuncNPr
)

var funcInfo = [...]struct {
	name  string
	arity int
}{
	FuncSin:       {"sin", 1},
	FuncCos:       {"cos", 1},
	FuncTan:       {"tan", 1},
	FuncLog10:     {"log10", 1},
	FuncLn:        {"ln", 1},
	FuncExp:       {"exp", 1},
	FuncSqrt:      {"sqrt", 1},
	FuncFactorial: {"factorial", 1},
	FuncNCr:       {"nCr", 2},
	FuncNPr:       {"nPr", 2},
}

// surfaceFuncs maps the names typed on the keypad to their primitives.
// Factorial has no surface name; it is written as a postfix '!'.
var surfaceFuncs = map[string]Func{
	"sin": FuncSin,
	"cos": FuncCos,
	"tan": FuncTan,
	"log": FuncLog10,
	"ln":  FuncLn,
	"exp": FuncExp,
	"√":   FuncSqrt,
	"ncr": FuncNCr,
	"npr": FuncNPr,
}

// String returns the canonical primitive name.
func (f Func) String() string {
	if int(f) < 0 || int(f) >= len(funcInfo) {
		return fmt.Sprintf("Func(%d)", int(f))
	}
	return funcInfo[f].name
}

// Arity returns the number of arguments f takes.
func (f Func) Arity() int { return funcInfo[f].arity }

// IsTrig reports whether f takes an angle argument.
func (f Func) IsTrig() bool { return f == FuncSin || f == FuncCos || f == FuncTan }

// Number is a numeric literal or constant.
type Number struct {
	Value float64
}

// UnaryOp is a prefix sign. Op is OpSub or OpAdd.
type UnaryOp struct {
	Op      Operator
	Operand Node
}

// BinaryOp applies an infix operator.
type BinaryOp struct {
	Op          Operator
	Left, Right Node
}

// Call applies a primitive to its arguments.
type Call struct {
	Func Func
	Args []Node
}

func (*Number) node()   {}
func (*UnaryOp) node()  {}
func (*BinaryOp) node() {}
func (*Call) node()     {}

func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (u *UnaryOp) String() string {
	return fmt.Sprintf("(%c%s)", u.Op, u.Operand)
}

func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %c %s)", b.Left, b.Op, b.Right)
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Func.String() + "(" + strings.Join(args, ", ") + ")"
}
