package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file form of a registry.
type Config struct {
	Properties []PropertyConfig `yaml:"properties"`
}

// PropertyConfig registers every name in Names with the same types.
type PropertyConfig struct {
	Element string      `yaml:"element"`
	Names   []string    `yaml:"names"`
	Types   []string    `yaml:"types"`
	Storage StorageType `yaml:"storage"`
}

// Apply registers the configuration into b.
func (c Config) Apply(b *Builder) error {
	for i, pc := range c.Properties {
		if pc.Element == "" || len(pc.Names) == 0 {
			return fmt.Errorf("%w: entry %d needs an element and at least one name", ErrConfig, i)
		}
		for _, name := range pc.Names {
			if err := b.Register(pc.Element, name, pc.Types, pc.Storage); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads a YAML registry configuration.
func Load(r io.Reader) (*Registry, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	b := NewBuilder()
	if err := cfg.Apply(b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// LoadFile reads a YAML registry configuration from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	defer f.Close()
	return Load(f)
}

var (
	floatTypes = []string{"float", "float32"}
	intTypes   = []string{"int", "int32"}
)

// DefaultConfig describes the vertex layout of 3D Gaussian-splat scenes.
func DefaultConfig() Config {
	rest := make([]string, 45)
	for i := range rest {
		rest[i] = fmt.Sprintf("f_rest_%d", i)
	}

	return Config{Properties: []PropertyConfig{
		{Element: "vertex", Names: []string{"x", "y", "z"}, Types: floatTypes, Storage: Float32},
		{Element: "vertex", Names: []string{"nx", "ny", "nz"}, Types: floatTypes, Storage: Float32},
		{Element: "vertex", Names: []string{"f_dc_0", "f_dc_1", "f_dc_2"}, Types: floatTypes, Storage: Float32},
		{Element: "vertex", Names: rest, Types: floatTypes, Storage: Float32},
		{Element: "vertex", Names: []string{"opacity"}, Types: floatTypes, Storage: Float32},
		{Element: "vertex", Names: []string{"scale_0", "scale_1", "scale_2"}, Types: floatTypes, Storage: Float32},
		{Element: "vertex", Names: []string{"rot_0", "rot_1", "rot_2", "rot_3"}, Types: floatTypes, Storage: Float32},
		{Element: "vertex", Names: []string{"red", "green", "blue"}, Types: intTypes, Storage: Int32},
	}}
}

// Default returns a registry built from DefaultConfig.
func Default() *Registry {
	b := NewBuilder()
	if err := DefaultConfig().Apply(b); err != nil {
		panic(fmt.Sprintf("schema: default configuration is invalid: %v", err))
	}
	return b.Build()
}
