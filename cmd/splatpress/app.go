package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/splatpress"
	"github.com/hupe1980/splatpress/attrpack"
	"github.com/hupe1980/splatpress/internal/fs"
	"github.com/hupe1980/splatpress/pipeline"
	"github.com/hupe1980/splatpress/ply"
	"github.com/hupe1980/splatpress/schema"
)

const (
	// Global flags.
	flagConfig  = "config"
	flagSchema  = "schema"
	flagDebug   = "debug"
	flagJSONLog = "json-log"

	// Command flags.
	flagFormat      = "format"
	flagMask        = "mask"
	flagBits        = "bits"
	flagNoLog       = "no-log"
	flagCompression = "compression"
	flagWorkers     = "workers"
	flagMatch       = "match"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "splatpress",
		Usage:           "compress Gaussian-splat PLY scenes",
		HideHelpCommand: true,
		// main reports errors and picks the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				EnvVars: []string{"SPLATPRESS_CONFIG"},
				Usage:   "load pipeline configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:    flagSchema,
				EnvVars: []string{"SPLATPRESS_SCHEMA"},
				Usage:   "load the property registry from `FILE` instead of the splat defaults",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"v"},
				EnvVars: []string{"SPLATPRESS_DEBUG"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagJSONLog,
				Usage: "log as JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print the elements and properties of a container",
				ArgsUsage: "<file.ply>",
				Action:    infoAction,
			},
			{
				Name:      "convert",
				Usage:     "rewrite a container as ascii or binary",
				ArgsUsage: "<in.ply> <out.ply>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagFormat,
						Value: "binary",
						Usage: "output format: ascii or binary",
					},
					&cli.StringSliceFlag{
						Name:  flagMask,
						Usage: "keep only these properties",
					},
				},
				Action: convertAction,
			},
			{
				Name:      "encode",
				Usage:     "split a scene into quantized geometry and an attribute pack",
				ArgsUsage: "<in.ply|dir> <out-dir>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagBits,
						Usage: "quantization bits per axis (1-21)",
					},
					&cli.BoolFlag{
						Name:  flagNoLog,
						Usage: "skip the log transform of positions",
					},
					&cli.StringFlag{
						Name:  flagCompression,
						Usage: "attribute pack compression: none, lz4 or zstd",
					},
					&cli.IntFlag{
						Name:  flagWorkers,
						Usage: "per-point workers, 0 means one per CPU",
					},
					&cli.StringFlag{
						Name:  flagMatch,
						Value: `\.ply$`,
						Usage: "file name `REGEX` used when the input is a directory",
					},
				},
				Action: encodeAction,
			},
			{
				Name:      "decode",
				Usage:     "restore a scene from an encoded directory",
				ArgsUsage: "<in-dir> <out.ply>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagFormat,
						Usage: "output format: ascii or binary (default: the source format)",
					},
					&cli.IntFlag{
						Name:  flagWorkers,
						Usage: "per-point workers, 0 means one per CPU",
					},
				},
				Action: decodeAction,
			},
		},
	}
}

// newSplatpress builds an instance from the global flags and the command's
// overrides.
func newSplatpress(c *cli.Context) (*splatpress.Splatpress, error) {
	cfg := pipeline.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet(flagBits) {
		cfg.Bits = c.Int(flagBits)
	}
	if c.Bool(flagNoLog) {
		cfg.LogTransform = false
	}
	if c.IsSet(flagCompression) {
		comp, err := attrpack.ParseCompression(c.String(flagCompression))
		if err != nil {
			return nil, err
		}
		cfg.Compression = comp
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	if c.Command.Name == "decode" && c.IsSet(flagFormat) {
		cfg.DecodeFormat = c.String(flagFormat)
	}

	reg := schema.Default()
	if path := c.String(flagSchema); path != "" {
		var err error
		if reg, err = schema.LoadFile(path); err != nil {
			return nil, err
		}
	}

	level := slog.LevelInfo
	if c.Bool(flagDebug) {
		level = slog.LevelDebug
	}
	logger := splatpress.NewTextLogger(level)
	if c.Bool(flagJSONLog) {
		logger = splatpress.NewJSONLogger(level)
	}

	return splatpress.New(
		splatpress.WithConfig(cfg),
		splatpress.WithRegistry(reg),
		splatpress.WithLogger(logger),
	)
}

// exitError prefixes err with its kind.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(fmt.Sprintf("%s: %v", splatpress.KindOf(err), err), 1)
}

func args(c *cli.Context, n int) ([]string, error) {
	if c.NArg() != n {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", c.Command.Name, n, c.NArg())
	}
	return c.Args().Slice(), nil
}

func infoAction(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}
	sp, err := newSplatpress(c)
	if err != nil {
		return exitError(err)
	}
	infos, format, err := sp.Info(a[0])
	if err != nil {
		return exitError(err)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "format\t%s\n", format)
	for _, el := range infos {
		fmt.Fprintf(w, "element\t%s\t%d\n", el.Name, el.Count)
		for _, p := range el.Properties {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", p.Name, p.HeaderType, p.Storage)
		}
	}
	return w.Flush()
}

func convertAction(c *cli.Context) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	format, err := ply.ParseFormat(c.String(flagFormat))
	if err != nil {
		return exitError(err)
	}
	sp, err := newSplatpress(c)
	if err != nil {
		return exitError(err)
	}

	var mask []string
	for _, m := range c.StringSlice(flagMask) {
		mask = append(mask, strings.Split(m, ",")...)
	}
	return exitError(sp.Convert(c.Context, a[0], a[1], format, mask))
}

func encodeAction(c *cli.Context) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	sp, err := newSplatpress(c)
	if err != nil {
		return exitError(err)
	}

	fi, err := os.Stat(a[0])
	if err != nil {
		return exitError(fmt.Errorf("%w: %w", ply.ErrFileNotFound, err))
	}
	if !fi.IsDir() {
		res, err := sp.Encode(c.Context, a[0], a[1])
		if err != nil {
			return exitError(err)
		}
		printResult(c, a[0], res)
		return nil
	}

	results, err := sp.EncodeDir(c.Context, a[0], c.String(flagMatch), a[1])
	files, _ := fs.FindFiles(nil, a[0], c.String(flagMatch))
	for i, res := range results {
		printResult(c, files[i], res)
	}
	return exitError(err)
}

func decodeAction(c *cli.Context) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	sp, err := newSplatpress(c)
	if err != nil {
		return exitError(err)
	}
	res, err := sp.Decode(c.Context, a[0], a[1])
	if err != nil {
		return exitError(err)
	}
	printResult(c, a[1], res)
	return nil
}

func printResult(c *cli.Context, name string, res *pipeline.Result) {
	fmt.Fprintf(c.App.Writer, "%s: %d points, %d duplicates\n", name, res.Points, res.Duplicates)
	for _, f := range res.Files {
		fmt.Fprintf(c.App.Writer, "  %s\n", f)
	}
}
