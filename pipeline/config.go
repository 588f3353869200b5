package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/splatpress/attrpack"
	"github.com/hupe1980/splatpress/codec"
	"github.com/hupe1980/splatpress/compressor"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/quantization"
)

// Config controls both directions of the pipeline.
type Config struct {
	// Element holds the points, usually "vertex".
	Element string `yaml:"element"`
	// Position names the x, y and z properties.
	Position []string `yaml:"position"`
	// Bits per quantized axis, in [1, 21].
	Bits         int  `yaml:"bits"`
	LogTransform bool `yaml:"log_transform"`
	// Format of the geometry file handed to the compressor.
	Format ply.Format `yaml:"format"`
	// DecodeFormat of the restored container; empty keeps the source format.
	DecodeFormat string               `yaml:"decode_format"`
	Compression  attrpack.Compression `yaml:"compression"`
	// Codec names the manifest codec, see codec.ByName.
	Codec string `yaml:"codec"`
	// Workers bounds per-point parallelism; <= 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	GeometryFile   string `yaml:"geometry_file"`
	CompressedFile string `yaml:"compressed_file"`
	AttributesFile string `yaml:"attributes_file"`

	Compressor compressor.Config `yaml:"compressor"`
}

// DefaultConfig returns the settings used for Gaussian-splat scenes.
func DefaultConfig() Config {
	return Config{
		Element:        "vertex",
		Position:       []string{"x", "y", "z"},
		Bits:           16,
		LogTransform:   true,
		Format:         ply.BinaryLittleEndian,
		Compression:    attrpack.CompressionZSTD,
		Codec:          codec.Default.Name(),
		GeometryFile:   "geometry.ply",
		CompressedFile: "geometry.bin",
		AttributesFile: "attributes.spak",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.Element == "":
		return fmt.Errorf("%w: element is empty", ErrInvalidConfig)
	case len(c.Position) != quantization.Dims:
		return fmt.Errorf("%w: position needs %d names, got %d", ErrInvalidConfig, quantization.Dims, len(c.Position))
	case c.Bits < quantization.MinBits || c.Bits > quantization.MaxBits:
		return fmt.Errorf("%w: bits %d not in [%d, %d]", ErrInvalidConfig, c.Bits, quantization.MinBits, quantization.MaxBits)
	case !c.Compression.Valid():
		return fmt.Errorf("%w: compression %d", ErrInvalidConfig, uint8(c.Compression))
	case c.GeometryFile == "" || c.CompressedFile == "" || c.AttributesFile == "":
		return fmt.Errorf("%w: file names must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Position))
	for _, p := range c.Position {
		if p == "" || seen[p] {
			return fmt.Errorf("%w: position names must be distinct and non-empty", ErrInvalidConfig)
		}
		seen[p] = true
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.Codec)
	}
	if c.DecodeFormat != "" {
		if _, err := ply.ParseFormat(c.DecodeFormat); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// LoadConfig reads YAML from path over DefaultConfig. Unknown keys are an
// error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}
