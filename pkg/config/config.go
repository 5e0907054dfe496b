// Package config loads the exporter's settings with viper and turns them
// into an asy.Policy.
//
// Sources, lowest precedence first: built-in defaults, the user config
// file, the project config file (sketch2asy.toml found by walking up from
// the working directory) or an explicit --config file, SKETCH2ASY_*
// environment variables, and finally command line flags bound by the CLI.
package config

import (
	"github.com/chazu/sketch2asy/pkg/asy"
)

// FileName is the project config file searched for upward from the
// working directory.
const FileName = "sketch2asy.toml"

// EnvPrefix prefixes environment overrides, e.g. SKETCH2ASY_ACCURACY or
// SKETCH2ASY_CONSTRUCTION_SKIP.
const EnvPrefix = "SKETCH2ASY"

// Config is the full set of settings.
type Config struct {
	Accuracy       int    `mapstructure:"accuracy" toml:"accuracy" json:"accuracy" yaml:"accuracy"`
	CommentsIndent int    `mapstructure:"comments_indent" toml:"comments_indent" json:"comments_indent" yaml:"comments_indent"`
	PrintDotLabels bool   `mapstructure:"print_dot_labels" toml:"print_dot_labels" json:"print_dot_labels" yaml:"print_dot_labels"`
	Version        string `mapstructure:"version" toml:"version" json:"version" yaml:"version"`
	UnitSize       string `mapstructure:"unitsize" toml:"unitsize" json:"unitsize" yaml:"unitsize"`
	TexPreamble    string `mapstructure:"texpreamble" toml:"texpreamble" json:"texpreamble" yaml:"texpreamble"`

	Construction ConstructionConfig `mapstructure:"construction" toml:"construction" json:"construction" yaml:"construction"`
	Log          LogConfig          `mapstructure:"log" toml:"log" json:"log" yaml:"log"`

	// Sources lists the config files that were merged, in order.
	Sources []string `mapstructure:"-" toml:"-" json:"-" yaml:"-"`
}

// ConstructionConfig controls how construction geometry is emitted.
type ConstructionConfig struct {
	PenName  string `mapstructure:"pen_name" toml:"pen_name" json:"pen_name" yaml:"pen_name"`
	PenColor string `mapstructure:"pen_color" toml:"pen_color" json:"pen_color" yaml:"pen_color"`
	Skip     bool   `mapstructure:"skip" toml:"skip" json:"skip" yaml:"skip"`
	Comment  bool   `mapstructure:"comment" toml:"comment" json:"comment" yaml:"comment"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// Policy returns the presentation policy these settings describe.
func (c *Config) Policy() asy.Policy {
	return asy.Policy{
		Accuracy:             c.Accuracy,
		CommentsIndent:       c.CommentsIndent,
		ConstructionPenName:  c.Construction.PenName,
		ConstructionPenColor: c.Construction.PenColor,
		SkipConstruction:     c.Construction.Skip,
		CommentConstruction:  c.Construction.Comment,
		PrintDotLabels:       c.PrintDotLabels,
		Version:              c.Version,
		UnitSize:             c.UnitSize,
		TexPreamble:          c.TexPreamble,
	}
}
