// Package commands contains the CLI commands for the application.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tlwire/tlc/internal/codec"
	"github.com/tlwire/tlc/internal/codegen"
	"github.com/tlwire/tlc/internal/codegen/golang"
	"github.com/tlwire/tlc/internal/config"
	"github.com/tlwire/tlc/internal/docs"
	"github.com/tlwire/tlc/internal/schema"
)

type Flags struct {
	Config string
	Output string
}

type Controller struct {
	Flags    *Flags
	registry *codegen.Registry
}

// NewController returns a controller with all language backends registered.
func NewController(flags *Flags) *Controller {
	r := codegen.NewRegistry()
	r.Register("go", func(opts codegen.Options) codegen.Generator {
		return golang.NewGenerator(opts)
	})

	return &Controller{Flags: flags, registry: r}
}

// loadConfig resolves the project configuration, either from the --config
// flag or by searching upwards from the working directory.
func (c *Controller) loadConfig() (*config.Config, string, error) {
	if c.Flags.Config != "" {
		cfg, err := config.LoadConfigFromPath(c.Flags.Config)
		if err != nil {
			return nil, "", err
		}
		return cfg, filepath.Dir(c.Flags.Config), nil
	}
	return config.LoadConfig()
}

// build runs the generation pipeline up to the built codec set: read and
// concatenate the schema documents, parse, derive the type table, compile
// codecs.
func (c *Controller) build(cfg *config.Config, dir string) (*codec.Set, error) {
	var sb strings.Builder
	for _, path := range cfg.Schema {
		data, err := os.ReadFile(resolve(dir, path))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	}

	parsed, err := schema.ParseWithOptions(sb.String(), schema.ParseOptions{
		AllowDuplicates: cfg.AllowDuplicates,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	table := schema.BuildTypeTable(parsed)

	set, err := codec.BuildAll(parsed, table)
	if err != nil {
		return nil, fmt.Errorf("failed to build codecs: %w", err)
	}
	return set, nil
}

func (c *Controller) loadDocs(cfg *config.Config, dir string) (*docs.Table, error) {
	return docs.Load(resolve(dir, cfg.Docs))
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
