package main

import (
	"errors"
	"os"

	"github.com/sixdp/georound/internal/config"
	"github.com/sixdp/georound/internal/export"
	"github.com/sixdp/georound/internal/geodf"
	"github.com/sixdp/georound/internal/logger"
	"github.com/sixdp/georound/internal/processor"
	"github.com/sixdp/georound/internal/table"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE"   description:"Path to configuration file"`
	Output     string `short:"o" long:"output"   description:"Output file path (default: processed_data.<format>)"`
	Format     string `short:"f" long:"format"   env:"OUTPUT_FORMAT" description:"Output format" choice:"csv" choice:"xlsx" choice:"geojson" choice:"kml" default:"csv"`
	Passes     int    `short:"n" long:"passes"   description:"Normalization passes per WKT value (0 = config default)"`
	Compact    bool   `long:"compact"  description:"Minify GeoJSON output"`
	Progress   bool   `short:"P" long:"progress" description:"Show a progress bar while processing rows"`

	Args struct {
		Input string `positional-arg-name:"FILE" description:"Input file (csv, xlsx, geojson, kml)"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if opts.Passes > 0 {
		cfg.Passes = opts.Passes
	}

	outFormat, err := export.ParseFormat(opts.Format)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid output format")
	}

	inFormat, err := table.DetectFormat(opts.Args.Input)
	if err != nil {
		log.Fatal().Err(err).Str("file", opts.Args.Input).Msg("Unsupported input file")
	}

	in, err := os.Open(opts.Args.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open input file")
	}

	t, err := table.Read(in, inFormat)
	_ = in.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", opts.Args.Input).Msg("Failed to load input file")
	}

	log.Info().
		Str("file", opts.Args.Input).
		Str("format", string(inFormat)).
		Int("rows", len(t.Rows)).
		Int("columns", len(t.Columns)).
		Msg("Input loaded")

	proc := &processor.Processor{
		Roles:      cfg.RoleTable(),
		Normalizer: cfg.Normalizer(),
	}
	if opts.Progress {
		bar := progressbar.Default(int64(len(t.Rows)), "normalizing")
		proc.Progress = func() { _ = bar.Add(1) }
	}

	res := proc.Process(t)
	for _, warning := range res.Warnings {
		log.Warn().Msg(warning)
	}
	if len(res.ProcessedColumns) == 0 {
		log.Warn().Msg("No recognized coordinate or WKT columns in input")
	}

	gt, err := geodf.Assemble(t, proc.Roles)
	if err != nil {
		if outFormat == export.GeoJSON || outFormat == export.KML {
			log.Fatal().Err(err).Msg("Cannot export geospatial format")
		}
		if errors.Is(err, geodf.ErrNoGeometry) {
			log.Warn().Msg("No geometry information found; GeoJSON/KML export would fail")
		}
	}

	outPath := opts.Output
	if outPath == "" {
		outPath = "processed_data." + outFormat.Ext()
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create output file")
	}

	exportOpts := export.Options{Compact: opts.Compact || cfg.CompactGeoJSON}
	if err := export.Write(out, outFormat, t, gt, exportOpts); err != nil {
		_ = out.Close()
		log.Fatal().Err(err).Msg("Export failed")
	}
	if err := out.Close(); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("Failed to close output file")
	}

	log.Info().
		Str("path", outPath).
		Str("format", string(outFormat)).
		Strs("columns", res.ProcessedColumns).
		Msg("Processed file written")
}
