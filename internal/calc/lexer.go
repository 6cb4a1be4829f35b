package calc

import (
	"errors"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPi
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokBang
	tokLParen
	tokRParen
	tokComma
)

var punctuation = map[rune]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'^': tokCaret,
	'!': tokBang,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
}

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of expression"
	}
	return strconv.Quote(t.text)
}

type lexer struct {
	src string
	pos int
}

// tokenize splits src into tokens, skipping whitespace. The final token is
// always tokEOF.
func tokenize(src string) ([]token, error) {
	l := &lexer{src: src}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	switch {
	case isDigit(r) || r == '.':
		return l.number()
	case r == 'π':
		l.pos += size
		return token{kind: tokPi, text: "π", pos: start}, nil
	case r == '√':
		l.pos += size
		return token{kind: tokIdent, text: "√", pos: start}, nil
	case isLetter(r):
		for l.pos < len(l.src) && isLetter(rune(l.src[l.pos])) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}, nil
	}

	kind, ok := punctuation[r]
	if !ok {
		return token{}, newEvalError(start, "unexpected character %q", r)
	}
	l.pos += size
	return token{kind: kind, text: string(r), pos: start}, nil
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// number scans 12, 1.5, .5, 5. and an optional exponent. The exponent is
// only consumed when digits follow it, so "2e" stays a number and the
// constant e.
func (l *lexer) number() (token, error) {
	start := l.pos
	n := l.digits()
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		n += l.digits()
	}
	if n == 0 {
		return token{}, newEvalError(start, "malformed number")
	}

	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		j := l.pos + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(rune(l.src[j])) {
			l.pos = j
			l.digits()
		}
	}

	text := l.src[start:l.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return token{}, newEvalError(start, "malformed number %q", text)
	}
	return token{kind: tokNumber, text: text, num: v, pos: start}, nil
}

func (l *lexer) digits() int {
	n := 0
	for l.pos < len(l.src) && isDigit(rune(l.src[l.pos])) {
		l.pos++
		n++
	}
	return n
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
