package calc

import "math"

// maxDepth bounds nesting of parentheses, calls, signs and exponents.
const maxDepth = 10000

type parser struct {
	toks  []token
	pos   int
	depth int
}

// Parse builds an expression tree from expr. It does not validate the
// character set; Compute and CanonicalForm call Validate first.
func Parse(expr string) (Node, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, newEvalError(tok.pos, "unexpected %s", tok.describe())
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, what string) error {
	tok := p.advance()
	if tok.kind != kind {
		return newEvalError(tok.pos, "expected %s, found %s", what, tok.describe())
	}
	return nil
}

func (p *parser) parseExpr() (Node, error) {
	return p.parseAdditive()
}

// additive := term (("+" | "-") term)*
func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch p.peek().kind {
		case tokPlus:
			op = OpAdd
		case tokMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

// term := unary (("*" | "/") unary)*
func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch p.peek().kind {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

// unary := ("-" | "+") unary | power
//
// Every level of nesting passes through here, so this is where depth is
// counted.
func (p *parser) parseUnary() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, newEvalError(p.peek().pos, "expression nested too deeply")
	}

	tok := p.peek()
	if tok.kind == tokMinus || tok.kind == tokPlus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if tok.kind == tokMinus {
			op = OpSub
		}
		return &UnaryOp{Op: op, Operand: operand}, nil
	}
	return p.parsePower()
}

// power := postfix ("^" unary)?
//
// The exponent is parsed with parseUnary, which recurses back here, making
// ^ right-associative and binding tighter than a leading sign.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: OpPow, Left: base, Right: exp}, nil
}

// postfix := NUMBER "!" | primary
func (p *parser) parsePostfix() (Node, error) {
	tok := p.peek()
	if tok.kind == tokNumber && p.toks[p.pos+1].kind == tokBang {
		p.pos += 2
		return &Call{Func: FuncFactorial, Args: []Node{&Number{Value: tok.num}}}, nil
	}
	return p.parsePrimary()
}

// primary := NUMBER | "π" | "e" | FUNC "(" args ")" | "(" expr ")"
func (p *parser) parsePrimary() (Node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokNumber:
		return &Number{Value: tok.num}, nil

	case tokPi:
		return &Number{Value: math.Pi}, nil

	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return inner, nil

	case tokIdent:
		if tok.text == "e" {
			return &Number{Value: math.E}, nil
		}
		fn, ok := surfaceFuncs[tok.text]
		if !ok {
			return nil, newEvalError(tok.pos, "unknown function %q", tok.text)
		}
		return p.parseCall(tok, fn)

	case tokBang:
		return nil, newEvalError(tok.pos, "factorial must follow a number")

	default:
		return nil, newEvalError(tok.pos, "unexpected %s", tok.describe())
	}
}

// parseCall parses "(" args ")" after a function name and checks arity.
func (p *parser) parseCall(name token, fn Func) (Node, error) {
	if err := p.expect(tokLParen, `"(" after `+name.text); err != nil {
		return nil, err
	}

	var args []Node
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}

	if err := p.expect(tokRParen, `")"`); err != nil {
		return nil, err
	}
	if len(args) != fn.Arity() {
		return nil, newEvalError(name.pos, "%s takes %d argument(s), got %d", name.text, fn.Arity(), len(args))
	}
	return &Call{Func: fn, Args: args}, nil
}
