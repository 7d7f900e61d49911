// Package policy compiles decomposition safety tables from CUE artifacts.
// The canonical table ships embedded in the binary; hosts with different
// width assumptions load their own artifact instead of patching parser
// branches.
package policy

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/memptr/internal/memptr"
)

//go:embed policy.cue
var defaultPolicyCUE string

// policyVersion is the artifact schema version this package understands.
const policyVersion = 1

var kindsByName = map[string]memptr.Kind{
	"opaque": memptr.KindOpaque,
	"add":    memptr.KindAdd,
	"sub":    memptr.KindSub,
	"mul":    memptr.KindMul,
	"shiftl": memptr.KindShiftL,
	"widen":  memptr.KindWiden,
}

var classesByName = map[string]memptr.Class{
	"never": memptr.ClassNever,
	"safe1": memptr.ClassSafe1,
	"safe2": memptr.ClassSafe2,
}

// Default returns the embedded canonical policy. An embedded artifact that
// fails to compile is a build defect, not a runtime condition, and panics.
func Default() memptr.Policy {
	pol, err := compileSource(defaultPolicyCUE, "policy.cue")
	if err != nil {
		panic(fmt.Sprintf("policy: embedded policy.cue is invalid: %v", err))
	}
	return pol
}

// Load compiles a policy artifact from disk.
func Load(path string) (memptr.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return memptr.Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return compileSource(string(data), path)
}

func compileSource(src, filename string) (memptr.Policy, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return memptr.Policy{}, formatCUEError(err)
	}
	return Compile(v.LookupPath(cue.ParsePath("policy")))
}

// Compile parses a CUE value into a policy table. The value should be the
// policy struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`policy: { ... }`)
//	pol, err := Compile(v.LookupPath(cue.ParsePath("policy")))
func Compile(v cue.Value) (memptr.Policy, error) {
	var zero memptr.Policy
	if err := v.Err(); err != nil {
		return zero, formatCUEError(err)
	}
	if !v.Exists() {
		return zero, &CompileError{
			Field:   "policy",
			Message: "policy struct not found",
			Pos:     v.Pos(),
		}
	}

	versionVal := v.LookupPath(cue.ParsePath("version"))
	if !versionVal.Exists() {
		return zero, &CompileError{
			Field:   "version",
			Message: "version is required",
			Pos:     v.Pos(),
		}
	}
	version, err := versionVal.Int64()
	if err != nil {
		return zero, formatCUEError(err)
	}
	if version != policyVersion {
		return zero, &CompileError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported policy version %d (want %d)", version, policyVersion),
			Pos:     versionVal.Pos(),
		}
	}

	bitsVal := v.LookupPath(cue.ParsePath("address_bits"))
	if !bitsVal.Exists() {
		return zero, &CompileError{
			Field:   "address_bits",
			Message: "address_bits is required",
			Pos:     v.Pos(),
		}
	}
	bits, err := bitsVal.Int64()
	if err != nil {
		return zero, formatCUEError(err)
	}
	addressWidth, cerr := widthOf(bits, "address_bits", bitsVal.Pos())
	if cerr != nil {
		return zero, cerr
	}

	pol := memptr.Policy{
		AddressWidth: addressWidth,
		Classes:      make(map[memptr.OpWidth]memptr.Class),
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return zero, &CompileError{
			Field:   "rules",
			Message: "rules are required",
			Pos:     v.Pos(),
		}
	}
	iter, err := rulesVal.List()
	if err != nil {
		return zero, formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		key, class, cerr := compileRule(iter.Value(), i)
		if cerr != nil {
			return zero, cerr
		}
		if _, dup := pol.Classes[key]; dup {
			return zero, &CompileError{
				Field:   fmt.Sprintf("rules[%d]", i),
				Message: fmt.Sprintf("duplicate rule for %s at %d bits", key.Kind, key.Width),
				Pos:     iter.Value().Pos(),
			}
		}
		pol.Classes[key] = class
	}

	return pol, nil
}

func compileRule(v cue.Value, idx int) (memptr.OpWidth, memptr.Class, error) {
	var key memptr.OpWidth
	field := fmt.Sprintf("rules[%d]", idx)

	opVal := v.LookupPath(cue.ParsePath("op"))
	op, err := opVal.String()
	if err != nil {
		return key, 0, formatCUEError(err)
	}
	kind, ok := kindsByName[op]
	if !ok {
		msg := fmt.Sprintf("unknown operator %q", op)
		if op == "literal" {
			msg = "constant folding is not policy-controlled; remove the literal rule"
		}
		return key, 0, &CompileError{Field: field + ".op", Message: msg, Pos: opVal.Pos()}
	}

	bitsVal := v.LookupPath(cue.ParsePath("bits"))
	bits, err := bitsVal.Int64()
	if err != nil {
		return key, 0, formatCUEError(err)
	}
	width, cerr := widthOf(bits, field+".bits", bitsVal.Pos())
	if cerr != nil {
		return key, 0, cerr
	}

	classVal := v.LookupPath(cue.ParsePath("class"))
	className, err := classVal.String()
	if err != nil {
		return key, 0, formatCUEError(err)
	}
	class, ok := classesByName[className]
	if !ok {
		return key, 0, &CompileError{
			Field:   field + ".class",
			Message: fmt.Sprintf("unknown class %q", className),
			Pos:     classVal.Pos(),
		}
	}

	key = memptr.OpWidth{Kind: kind, Width: width}
	return key, class, nil
}

func widthOf(bits int64, field string, pos token.Pos) (memptr.Width, error) {
	switch bits {
	case 32:
		return memptr.Width32, nil
	case 64:
		return memptr.Width64, nil
	default:
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("bits must be 32 or 64, got %d", bits),
			Pos:     pos,
		}
	}
}

// CompileError represents a policy compilation error with source position.
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

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
