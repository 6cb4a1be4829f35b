package units

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

var (
	//go:embed schema.cue
	schemaSrc string

	//go:embed tables.cue
	tablesSrc string
)

// CompileError reports a table that does not fit the unit schema.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Schema compiles the embedded #Unit schema in ctx.
func Schema(ctx *cue.Context) cue.Value {
	return ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	ctx := cuecontext.New()
	v := Schema(ctx).Unify(ctx.CompileString(tablesSrc, cue.Filename("tables.cue")))
	return Compile(v)
})

// Default returns the embedded unit tables.
func Default() (*Table, error) {
	return defaultTable()
}

// Compile turns a CUE value holding a "category" struct into a Table.
// The value should already be unified with Schema.
func Compile(v cue.Value) (*Table, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	catsVal := v.LookupPath(cue.ParsePath("category"))
	if !catsVal.Exists() {
		return nil, &CompileError{
			Field:   "category",
			Message: "category is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := catsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	t := &Table{}
	for iter.Next() {
		c, err := compileCategory(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		t.categories = append(t.categories, c)
	}
	return t, nil
}

func compileCategory(name string, v cue.Value) (Category, error) {
	c := Category{Name: name, Units: []Unit{}}

	list, err := v.List()
	if err != nil {
		return c, formatCUEError(err)
	}

	for i := 0; list.Next(); i++ {
		u, err := compileUnit(fmt.Sprintf("category.%s[%d]", name, i), list.Value())
		if err != nil {
			return c, err
		}
		c.Units = append(c.Units, u)
	}
	return c, nil
}

func compileUnit(field string, v cue.Value) (Unit, error) {
	var u Unit

	symbol, err := v.LookupPath(cue.ParsePath("symbol")).String()
	if err != nil {
		return u, fieldError(field+".symbol", v, err)
	}
	u.Symbol = norm.NFC.String(symbol)

	if u.Name, err = v.LookupPath(cue.ParsePath("name")).String(); err != nil {
		return u, fieldError(field+".name", v, err)
	}

	if u.Factor, err = v.LookupPath(cue.ParsePath("factor")).Float64(); err != nil {
		return u, fieldError(field+".factor", v, err)
	}

	offsetVal := v.LookupPath(cue.ParsePath("offset"))
	if offsetVal.Exists() {
		if d, ok := offsetVal.Default(); ok {
			offsetVal = d
		}
		if u.Offset, err = offsetVal.Float64(); err != nil {
			return u, fieldError(field+".offset", v, err)
		}
	}
	return u, nil
}

func fieldError(field string, v cue.Value, err error) *CompileError {
	return &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
