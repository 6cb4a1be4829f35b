package keypad

import (
	"errors"
	"fmt"
	"strings"
)

// KeyKind classifies a key press.
type KeyKind int

const (
	KeyInput KeyKind = iota
	KeyOperator
	KeyFunction
	KeyFactorial
	KeyEquals
	KeyClear
	KeyBackspace
	KeyPlusMinus
	KeyToggleMode
)

var kindNames = map[KeyKind]string{
	KeyInput:      "input",
	KeyOperator:   "operator",
	KeyFunction:   "function",
	KeyFactorial:  "factorial",
	KeyEquals:     "equals",
	KeyClear:      "clear",
	KeyBackspace:  "backspace",
	KeyPlusMinus:  "plus-minus",
	KeyToggleMode: "mode",
}

func (k KeyKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KeyKind(%d)", int(k))
}

// Key is a single key press. Text carries the input rune, operator or
// function name; it is empty for the control keys.
type Key struct {
	Kind KeyKind
	Text string
}

func (k Key) String() string {
	if k.Text == "" {
		return k.Kind.String()
	}
	return k.Kind.String() + ":" + k.Text
}

// Constructors for the keys that carry text.
func Input(s string) Key    { return Key{Kind: KeyInput, Text: s} }
func Operator(s string) Key { return Key{Kind: KeyOperator, Text: s} }
func Function(s string) Key { return Key{Kind: KeyFunction, Text: s} }

// Control keys.
var (
	Factorial  = Key{Kind: KeyFactorial}
	Equals     = Key{Kind: KeyEquals}
	Clear      = Key{Kind: KeyClear}
	Backspace  = Key{Kind: KeyBackspace}
	PlusMinus  = Key{Kind: KeyPlusMinus}
	ToggleMode = Key{Kind: KeyToggleMode}
)

// ErrUnknownKey is returned by ParseKeys for an unrecognised token.
var ErrUnknownKey = errors.New("unknown key")

// inputRunes are the runes that may be typed as plain input. A token made
// only of these expands to one Input key per rune.
const inputRunes = "0123456789.,()π"

var namedKeys = map[string]Key{
	"+":         Operator("+"),
	"-":         Operator("-"),
	"*":         Operator("*"),
	"/":         Operator("/"),
	"^":         Operator("^"),
	"x2":        Operator("^2"),
	"x²":        Operator("^2"),
	"!":         Factorial,
	"=":         Equals,
	"enter":     Equals,
	"ac":        Clear,
	"escape":    Clear,
	"back":      Backspace,
	"backspace": Backspace,
	"+/-":       PlusMinus,
	"mode":      ToggleMode,
	"pi":        Input("π"),
	"sin":       Function("sin"),
	"cos":       Function("cos"),
	"tan":       Function("tan"),
	"log":       Function("log"),
	"ln":        Function("ln"),
	"exp":       Function("exp"),
	"√":         Function("√"),
	"sqrt":      Function("√"),
	"ncr":       Function("ncr"),
	"npr":       Function("npr"),
	"c":         Function("ncr"),
	"p":         Function("npr"),
}

// ParseKeys turns a whitespace-separated key script such as
// "5 ! + sin 3 0 ) =" into key presses. Names are case-insensitive.
// Numeric tokens like "30" or "2.5" expand to one key per rune.
func ParseKeys(script string) ([]Key, error) {
	var keys []Key
	for _, tok := range strings.Fields(script) {
		if k, ok := namedKeys[strings.ToLower(tok)]; ok {
			keys = append(keys, k)
			continue
		}
		if strings.Trim(tok, inputRunes) != "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, tok)
		}
		for _, r := range tok {
			keys = append(keys, Input(string(r)))
		}
	}
	return keys, nil
}
