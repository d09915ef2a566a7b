package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/pipedev/pipedev/internal/decider"
)

//go:embed schema.cue
var schemaCUE string

// Root is the top-level field holding the decider settings.
const Root = "decider"

// Error is a configuration error, with the CUE source position when one
// is known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a decider config from a .cue file, or from the CUE package
// in a directory.
func Load(path string) (decider.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return decider.Config{}, &Error{Field: "path", Message: err.Error()}
	}

	ctx := cuecontext.New()

	var value cue.Value
	if info.IsDir() {
		instances := load.Instances([]string{"."}, &load.Config{Dir: path})
		if len(instances) == 0 {
			return decider.Config{}, &Error{Field: "path", Message: "no CUE instances loaded from " + path}
		}
		if err := instances[0].Err; err != nil {
			return decider.Config{}, formatCUEError(err)
		}
		value = ctx.BuildInstance(instances[0])
	} else {
		src, err := os.ReadFile(path)
		if err != nil {
			return decider.Config{}, &Error{Field: "path", Message: err.Error()}
		}
		value = ctx.CompileBytes(src, cue.Filename(path))
	}

	return decode(ctx, value)
}

// Parse decodes a decider config from CUE source. filename is only used
// in error positions.
func Parse(filename string, src []byte) (decider.Config, error) {
	ctx := cuecontext.New()
	return decode(ctx, ctx.CompileBytes(src, cue.Filename(filename)))
}

func decode(ctx *cue.Context, value cue.Value) (decider.Config, error) {
	var cfg decider.Config

	if err := value.Err(); err != nil {
		return cfg, formatCUEError(err)
	}

	root := value.LookupPath(cue.ParsePath(Root))
	if !root.Exists() {
		return cfg, &Error{Field: Root, Message: "missing top-level " + Root + " struct", Pos: value.Pos()}
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cfg, fmt.Errorf("compile embedded schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Decider")).Unify(root)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cfg, formatCUEError(err)
	}

	if err := unified.Decode(&cfg); err != nil {
		return cfg, formatCUEError(err)
	}
	return cfg, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := Root
	if path := first.Path(); len(path) > 0 {
		field = path[len(path)-1]
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &Error{Field: field, Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: field, Message: first.Error()}
}
