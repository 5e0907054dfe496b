package config

import (
	"github.com/spf13/viper"

	"github.com/chazu/sketch2asy/pkg/asy"
)

// SetDefaults registers a default for every key. Environment overrides
// only apply to keys viper knows about, so every key must appear here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("accuracy", asy.DefaultAccuracy)
	v.SetDefault("comments_indent", asy.DefaultCommentsIndent)
	v.SetDefault("print_dot_labels", false)
	v.SetDefault("version", asy.DefaultVersion)
	v.SetDefault("unitsize", asy.DefaultUnitSize)
	v.SetDefault("texpreamble", "")

	v.SetDefault("construction.pen_name", asy.DefaultConstructionPenName)
	v.SetDefault("construction.pen_color", asy.DefaultConstructionPenColor)
	v.SetDefault("construction.skip", false)
	v.SetDefault("construction.comment", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}
