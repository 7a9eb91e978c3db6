package config

import (
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logger     logger     `yaml:"logger"`
	Validation Validation `yaml:"validation"`
}

// Validation tunes the pipeline. Zero values fall back to library
// defaults.
type Validation struct {
	// UnionEndpoint is the base URL of the authoritative union
	// provider. Empty disables the union step.
	UnionEndpoint string   `yaml:"union_endpoint"`
	UnionTimeout  Duration `yaml:"union_timeout"`
	// ReferenceData points at a YAML file extending the built-in
	// expected-count and layer-rule tables.
	ReferenceData string `yaml:"reference_data"`
}

// Duration accepts Go duration strings ("20s", "500ms") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func FromBytes(data []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func FromFile(filename string) (*Config, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FromBytes(raw)
}
