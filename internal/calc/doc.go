// Package calc evaluates calculator expressions to display strings.
//
// An expression passes through four stages:
//
//  1. Validate: character whitelist. Anything outside digits, operators,
//     parentheses, '.', ',', '!', whitespace, 'π', 'e', the letters of the
//     supported function names and '√' is rejected before any parsing.
//  2. Parse: a lexer and recursive-descent parser build a tagged tree of
//     Number, UnaryOp, BinaryOp and Call nodes. Nested calls and arbitrarily
//     deep parentheses are handled by the grammar itself.
//  3. Canonicalize: in degree mode every sin/cos/tan argument is wrapped as
//     arg * π / 180. The wrap is applied per call, so nested trig calls are
//     each converted independently.
//  4. Eval + Format: the tree is evaluated in float64; non-finite results
//     are rejected and finite ones are formatted for display.
//
// Nothing in this package executes host code. The grammar is fixed: numbers,
// + - * / ^, unary sign, parentheses, π, e, postfix factorial on number
// literals, and the functions sin cos tan log ln exp √ ncr npr.
//
// All functions are pure and safe for concurrent use.
package calc
