// Package codegen defines the emitter interface shared by language backends
// and the registry of available backends.
package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tlwire/tlc/internal/codec"
	"github.com/tlwire/tlc/internal/docs"
)

// File is one generated artifact, with a path relative to the output root.
type File struct {
	Path string
	Data []byte
}

// Generator is the interface all language-specific emitters implement.
// Generate must be deterministic: byte-identical artifacts for identical
// input sets.
type Generator interface {
	// Generate renders the artifact files for a built codec set, enriched
	// with the optional description table.
	Generate(set *codec.Set, d *docs.Table) ([]File, error)

	// Language returns the name of the target language (e.g. "go").
	Language() string

	// FileExtension returns the extension of generated files (e.g. ".go").
	FileExtension() string
}

// Options contains common emitter options.
type Options struct {
	// PackageName is the package name for the generated code.
	PackageName string

	// RuntimeImport is the import path of the tl runtime package the
	// generated code targets.
	RuntimeImport string

	// IncludeComments controls documentation comment emission.
	IncludeComments bool
}

// WriteFiles writes generated files under dir, creating directories as
// needed.
func WriteFiles(dir string, files []File) error {
	for _, f := range files {
		path := filepath.Join(dir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return nil
}
