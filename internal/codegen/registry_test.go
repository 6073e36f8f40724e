package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlwire/tlc/internal/codec"
	"github.com/tlwire/tlc/internal/docs"
)

// mockGenerator is a test generator
type mockGenerator struct {
	opts Options
}

func (m *mockGenerator) Generate(set *codec.Set, d *docs.Table) ([]File, error) {
	return []File{{Path: "out.mock", Data: []byte("mock output")}}, nil
}

func (m *mockGenerator) Language() string {
	return "mock"
}

func (m *mockGenerator) FileExtension() string {
	return ".mock"
}

func TestRegistry_NewRegistry(t *testing.T) {
	// Test: New registry is empty by default
	r := NewRegistry()
	assert.NotNil(t, r)

	_, err := r.Get("unknown", Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestRegistry_Register(t *testing.T) {
	// Test: Register custom generator and get it back with its options
	r := NewRegistry()

	r.Register("mock", func(opts Options) Generator {
		return &mockGenerator{opts: opts}
	})

	gen, err := r.Get("mock", Options{PackageName: "testpkg"})
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "mock", gen.Language())
	assert.Equal(t, ".mock", gen.FileExtension())
	assert.Equal(t, "testpkg", gen.(*mockGenerator).opts.PackageName)
}

func TestRegistry_Languages(t *testing.T) {
	// Test: Languages come back sorted
	r := NewRegistry()
	r.Register("zig", func(opts Options) Generator { return &mockGenerator{} })
	r.Register("ada", func(opts Options) Generator { return &mockGenerator{} })

	assert.Equal(t, []string{"ada", "zig"}, r.Languages())
}

func TestWriteFiles(t *testing.T) {
	// Test: Files land under the output root, nested paths included
	dir := t.TempDir()

	err := WriteFiles(dir, []File{
		{Path: "a.go", Data: []byte("package x\n")},
		{Path: "sub/b.go", Data: []byte("package y\n")},
	})
	require.NoError(t, err)

	assert.FileExists(t, dir+"/a.go")
	assert.FileExists(t, dir+"/sub/b.go")
}
