package suggest

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSrc string

// definition compiles schema.cue in a fresh context and returns the named
// definition. A cue.Context is not safe for concurrent use, so every
// validation gets its own.
func definition(name string) (*cue.Context, cue.Value) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	return ctx, schema.LookupPath(cue.ParsePath(name))
}

func validateInput(in Input) error {
	ctx, def := definition("#Input")
	v := def.Unify(ctx.Encode(in))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func decodeOutput(raw []byte) (Output, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	ctx, def := definition("#Output")
	v := def.Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	var out Output
	if err := v.Decode(&out); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return out, nil
}
