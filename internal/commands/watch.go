package commands

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/tlwire/tlc/internal/watch"
)

// Watch generates once, then regenerates whenever a schema input changes.
func (c *Controller) Watch(ctx context.Context) error {
	cfg, dir, err := c.loadConfig()
	if err != nil {
		return err
	}

	if err := c.Generate(ctx); err != nil {
		// Keep watching: the schema may be mid-edit.
		log.Error().Err(err).Msg("generation failed")
	}

	fw, err := watch.NewFileWatcher(cfg.Watch.Include, cfg.Watch.Exclude, func(path string, op fsnotify.Op) {
		log.Info().Str("path", path).Str("op", op.String()).Msg("schema changed, regenerating")
		if err := c.Generate(ctx); err != nil {
			log.Error().Err(err).Msg("generation failed")
		}
	})
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.AddDirectory(dir); err != nil {
		return err
	}

	log.Info().Str("dir", dir).Msg("watching for schema changes")
	return fw.Start(ctx)
}
