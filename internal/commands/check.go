package commands

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Check parses and builds the configured schema without emitting artifacts,
// reporting what a generation run would produce.
func (c *Controller) Check(ctx context.Context) error {
	cfg, dir, err := c.loadConfig()
	if err != nil {
		return err
	}

	set, err := c.build(cfg, dir)
	if err != nil {
		return err
	}

	types := 0
	functions := 0
	for _, cd := range set.Codecs {
		if cd.Section() == "functions" {
			functions++
		} else {
			types++
		}
	}

	log.Info().
		Int("layer", set.Layer).
		Int("types", types).
		Int("functions", functions).
		Int("abstract_types", len(set.Table.TypeToConstructors)).
		Int("registry", set.Registry.Len()).
		Msg("schema OK")

	return nil
}
