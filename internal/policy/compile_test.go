package policy

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memptr/internal/memptr"
)

func compileTestSource(t *testing.T, src string) (memptr.Policy, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	return Compile(v.LookupPath(cue.ParsePath("policy")))
}

func TestDefaultTable(t *testing.T) {
	pol := Default()

	assert.Equal(t, memptr.Width64, pol.AddressWidth)

	safe1 := []memptr.OpWidth{
		{Kind: memptr.KindAdd, Width: memptr.Width64},
		{Kind: memptr.KindSub, Width: memptr.Width64},
		{Kind: memptr.KindMul, Width: memptr.Width64},
		{Kind: memptr.KindShiftL, Width: memptr.Width64},
		{Kind: memptr.KindWiden, Width: memptr.Width64},
	}
	for _, key := range safe1 {
		assert.Equal(t, memptr.ClassSafe1, pol.ClassOf(key.Kind, key.Width),
			"want safe1 for %s at %d bits", key.Kind, key.Width)
	}

	safe2 := []memptr.OpWidth{
		{Kind: memptr.KindAdd, Width: memptr.Width32},
		{Kind: memptr.KindSub, Width: memptr.Width32},
		{Kind: memptr.KindMul, Width: memptr.Width32},
		{Kind: memptr.KindShiftL, Width: memptr.Width32},
	}
	for _, key := range safe2 {
		assert.Equal(t, memptr.ClassSafe2, pol.ClassOf(key.Kind, key.Width),
			"want safe2 for %s at %d bits", key.Kind, key.Width)
	}

	assert.Equal(t, memptr.ClassNever, pol.ClassOf(memptr.KindOpaque, memptr.Width64))
	assert.Equal(t, memptr.ClassNever, pol.ClassOf(memptr.KindOpaque, memptr.Width32))
}

func TestCompile32Bit(t *testing.T) {
	pol, err := compileTestSource(t, `policy: {
		version: 1
		address_bits: 32
		rules: []
	}`)
	require.NoError(t, err)

	assert.Equal(t, memptr.Width32, pol.AddressWidth)
	assert.Equal(t, memptr.ClassSafe1, pol.ClassOf(memptr.KindAdd, memptr.Width32))
	assert.Equal(t, memptr.ClassSafe1, pol.ClassOf(memptr.KindShiftL, memptr.Width32))
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "missing version",
			src:     `policy: {address_bits: 64, rules: []}`,
			wantMsg: "version is required",
		},
		{
			name:    "unsupported version",
			src:     `policy: {version: 2, address_bits: 64, rules: []}`,
			wantMsg: "unsupported policy version 2",
		},
		{
			name:    "missing address bits",
			src:     `policy: {version: 1, rules: []}`,
			wantMsg: "address_bits is required",
		},
		{
			name:    "bad address bits",
			src:     `policy: {version: 1, address_bits: 16, rules: []}`,
			wantMsg: "bits must be 32 or 64, got 16",
		},
		{
			name:    "missing rules",
			src:     `policy: {version: 1, address_bits: 64}`,
			wantMsg: "rules are required",
		},
		{
			name: "unknown operator",
			src: `policy: {version: 1, address_bits: 64, rules: [
				{op: "div", bits: 64, class: "safe1"},
			]}`,
			wantMsg: `unknown operator "div"`,
		},
		{
			name: "literal rule",
			src: `policy: {version: 1, address_bits: 64, rules: [
				{op: "literal", bits: 64, class: "safe1"},
			]}`,
			wantMsg: "constant folding is not policy-controlled",
		},
		{
			name: "bad rule bits",
			src: `policy: {version: 1, address_bits: 64, rules: [
				{op: "add", bits: 8, class: "safe1"},
			]}`,
			wantMsg: "bits must be 32 or 64, got 8",
		},
		{
			name: "unknown class",
			src: `policy: {version: 1, address_bits: 64, rules: [
				{op: "add", bits: 64, class: "safe3"},
			]}`,
			wantMsg: `unknown class "safe3"`,
		},
		{
			name: "duplicate rule",
			src: `policy: {version: 1, address_bits: 64, rules: [
				{op: "add", bits: 64, class: "safe1"},
				{op: "add", bits: 64, class: "never"},
			]}`,
			wantMsg: "duplicate rule for add at 64 bits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileTestSource(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCompileMissingPolicyStruct(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: {}`)
	_, err := Compile(v.LookupPath(cue.ParsePath("policy")))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "narrow.cue")
	src := `policy: {
	version: 1
	address_bits: 32
	rules: []
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	pol, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, memptr.Width32, pol.AddressWidth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read policy")
}

func TestLoadReportsPosition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cue")
	src := `policy: {
	version: 1
	address_bits: 64
	rules: [{op: "add", bits: 64, class: "safe9"}]
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "broken.cue")
	assert.Contains(t, cerr.Message, `unknown class "safe9"`)
}
