package units

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUnknownCategory is returned when no category matches.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownUnit is returned when a symbol is not in the category.
	ErrUnknownUnit = errors.New("unknown unit")
)

// Unit is a linear unit definition.
type Unit struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
	Offset float64 `json:"offset,omitempty"`
}

// ToBase converts v from this unit to the category's base unit.
func (u Unit) ToBase(v float64) float64 {
	return (v + u.Offset) * u.Factor
}

// FromBase converts a base-unit value to this unit.
func (u Unit) FromBase(b float64) float64 {
	return b/u.Factor - u.Offset
}

// IsBase reports whether u is the identity conversion.
func (u Unit) IsBase() bool {
	return u.Factor == 1 && u.Offset == 0
}

// Category is a named, ordered list of units.
type Category struct {
	Name  string `json:"name"`
	Units []Unit `json:"units"`
}

// Unit returns the unit with the given symbol. Symbols are compared after
// NFC normalization, so a decomposed "°C" still matches.
func (c Category) Unit(symbol string) (Unit, bool) {
	symbol = norm.NFC.String(symbol)
	for _, u := range c.Units {
		if u.Symbol == symbol {
			return u, true
		}
	}
	return Unit{}, false
}

// Table is a compiled set of categories. It is immutable and safe for
// concurrent use.
type Table struct {
	categories []Category
}

// Categories returns the categories in declaration order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Category looks up a category by name, exactly first and then ignoring
// case.
func (t *Table) Category(name string) (Category, error) {
	for _, c := range t.categories {
		if c.Name == name {
			return c, nil
		}
	}
	for _, c := range t.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Convert converts value from one unit to another within category.
// Both units must exist even when from == to.
func (t *Table) Convert(value float64, from, to, category string) (float64, error) {
	c, err := t.Category(category)
	if err != nil {
		return 0, err
	}

	fromUnit, ok := c.Unit(from)
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s", ErrUnknownUnit, from, c.Name)
	}
	toUnit, ok := c.Unit(to)
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s", ErrUnknownUnit, to, c.Name)
	}

	if fromUnit.Symbol == toUnit.Symbol {
		return value, nil
	}
	return toUnit.FromBase(fromUnit.ToBase(value)), nil
}
