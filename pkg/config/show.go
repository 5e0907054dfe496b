package config

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/chazu/sketch2asy/pkg/errors"
)

// Formats lists the encodings Render accepts.
var Formats = []string{"toml", "json", "yaml"}

// Render encodes c in the given format. TOML and YAML output start with a
// header comment.
func Render(c *Config, format string) ([]byte, error) {
	switch format {
	case "toml":
		data, err := toml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return append([]byte("# sketch2asy configuration\n"), data...), nil

	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil

	case "yaml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return append([]byte("# sketch2asy configuration\n"), data...), nil
	}
	return nil, errors.WithHintf(
		errors.Newf("unsupported format: %s", format),
		"supported formats: toml, json, yaml")
}
