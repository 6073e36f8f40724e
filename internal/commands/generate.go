package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tlwire/tlc/internal/codegen"
)

// Generate runs the full pipeline: parse the configured schema documents,
// build the codec set and emit the artifact files.
func (c *Controller) Generate(ctx context.Context) error {
	cfg, dir, err := c.loadConfig()
	if err != nil {
		return err
	}

	set, err := c.build(cfg, dir)
	if err != nil {
		return err
	}

	d, err := c.loadDocs(cfg, dir)
	if err != nil {
		return err
	}

	gen, err := c.registry.Get(cfg.Language, codegen.Options{
		PackageName:     cfg.Package,
		IncludeComments: cfg.IncludeComments(),
	})
	if err != nil {
		return err
	}

	files, err := gen.Generate(set, d)
	if err != nil {
		return fmt.Errorf("failed to generate %s artifacts: %w", gen.Language(), err)
	}

	output := c.Flags.Output
	if output == "" {
		output = resolve(dir, cfg.Build.Output)
	}
	if err := codegen.WriteFiles(output, files); err != nil {
		return err
	}

	log.Info().
		Int("layer", set.Layer).
		Int("combinators", len(set.Codecs)).
		Int("registry", set.Registry.Len()).
		Int("files", len(files)).
		Str("output", output).
		Msg("artifacts generated")

	return nil
}
