// Package splatpress compresses Gaussian-splat point clouds stored as PLY
// containers.
//
// Positions are split from the other per-point attributes, optionally log
// transformed, quantized to a fixed number of bits per axis and sorted along
// a Morton (Z-order) curve. The quantized geometry is written as a small PLY
// file that an external geometry compressor can take; every other column
// moves into a compressed attribute pack that keeps the same point order.
// Decoding reverses each step and restores a complete container.
//
// # Quick Start
//
//	ctx := context.Background()
//	sp, err := splatpress.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := sp.Encode(ctx, "scene.ply", "./scene")
//	// ./scene/geometry.ply, ./scene/attributes.spak
//	_, err = sp.Decode(ctx, "./scene", "restored.ply")
//
// # Configuration
//
// The fluent builder covers the common knobs:
//
//	sp, err := splatpress.NewBuilder().
//	    Bits(18).
//	    LogTransform(false).
//	    Compression(attrpack.CompressionLZ4).
//	    Logger(splatpress.NewTextLogger(slog.LevelDebug)).
//	    Build()
//
// Pipeline settings can also be loaded from YAML with pipeline.LoadConfig and
// passed through WithConfig. The registry of accepted properties defaults to
// schema.Default and can be replaced with WithRegistry.
//
// # External Compressors
//
// A compressor.Exec runs configured command lines, for example a Draco
// encoder, on the geometry file:
//
//	cfg := pipeline.DefaultConfig()
//	cfg.Compressor = compressor.Config{
//	    Compress:   []string{"draco_encoder", "-point_cloud", "-i", "{input}", "-o", "{output}", "-qp", "0"},
//	    Decompress: []string{"draco_decoder", "-i", "{input}", "-o", "{output}"},
//	}
//	sp, err := splatpress.New(splatpress.WithConfig(cfg))
//
// # Errors
//
// Every package exports sentinel errors. KindOf maps any returned error to a
// Kind for reporting:
//
//	if splatpress.KindOf(err) == splatpress.KindUnregisteredSchema { ... }
//
// # Metrics
//
// A MetricsCollector receives the duration of every pipeline stage and the
// size of every file written. BasicMetricsCollector keeps them in memory.
package splatpress
