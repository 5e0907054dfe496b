package config

import (
	"strings"

	"github.com/chazu/sketch2asy/pkg/errors"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	// Accuracy <= 0 is meaningful: it selects the general number format.
	if c.Accuracy > 17 {
		return errors.Newf("accuracy must be at most 17 decimals, got %d", c.Accuracy)
	}
	if c.CommentsIndent < 0 {
		return errors.Newf("comments_indent must be >= 0, got %d", c.CommentsIndent)
	}
	if strings.TrimSpace(c.Construction.PenName) == "" {
		return errors.New("construction.pen_name cannot be empty")
	}
	if strings.TrimSpace(c.Construction.PenColor) == "" {
		return errors.New("construction.pen_color cannot be empty")
	}
	if strings.TrimSpace(c.UnitSize) == "" {
		return errors.New("unitsize cannot be empty")
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
