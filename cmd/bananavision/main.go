package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/nathaniel-sheetz/BananaVision/config"
	app "github.com/nathaniel-sheetz/BananaVision/internal/application"
	"github.com/nathaniel-sheetz/BananaVision/internal/container"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/imagefile"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/logging"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/report"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/storage"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/vision"
)

const usage = `Analyze banana ripeness from photographs.

Usage:
  bananavision [flags] paths...

Examples:
  bananavision image.jpg                     analyze a single image
  bananavision img1.jpg img2.jpg             analyze multiple images
  bananavision path/to/folder/               analyze all images in a directory
  bananavision -mode banana -debug-dir out/ image.jpg

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	mode     entity.Mode
	workers  int
	json     bool
	debugDir string
	maxSide  int
	paths    []string
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("bananavision", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	mode := fs.String("mode", string(cfg.Mode), "analysis mode: pixel, banana or region")
	opts := &options{}
	fs.IntVar(&opts.workers, "workers", cfg.Workers, "number of images analyzed in parallel")
	fs.BoolVar(&opts.json, "json", false, "print results as JSON")
	fs.StringVar(&opts.debugDir, "debug-dir", "", "write intermediate masks and overlays as PNG into this directory")
	fs.IntVar(&opts.maxSide, "max-side", cfg.MaxSide, "downscale images so the longer side is at most this many pixels (0 keeps size)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	m, err := entity.ParseMode(*mode)
	if err != nil {
		return nil, err
	}
	opts.mode = m
	opts.paths = fs.Args()
	if len(opts.paths) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("no paths given")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 2
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	log = logging.Component(log, "cli")

	files, warnings := imagefile.ListImages(opts.paths)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	if len(files) == 0 {
		log.Error().Msg("no image files found")
		return 1
	}

	c := container.New(
		storage.NewMemoryUserRepository(opts.mode),
		vision.NewGoCVAnalyzer(cfg.Params),
		report.NewTextDescriber(),
		imagefile.NewSource(opts.maxSide),
		log,
	)

	items := c.RipenessService.AnalyzeBatch(ctx, files, app.BatchOptions{
		Mode:    opts.mode,
		Workers: opts.workers,
		Debug:   opts.debugDir != "",
	})

	if opts.json {
		if err := writeJSON(stdout, items); err != nil {
			log.Error().Err(err).Msg("write json")
			return 1
		}
	} else {
		writeText(stdout, items)
	}

	if opts.debugDir != "" {
		writeDebug(opts.debugDir, items, log)
	}

	return 0
}

func writeText(w io.Writer, items []app.BatchItem) {
	for _, it := range items {
		if it.Err != nil {
			continue
		}
		fmt.Fprintln(w, it.Analysis.Report)
		fmt.Fprintln(w)
	}
}

// jsonItem одна запись вывода -json
type jsonItem struct {
	Image string `json:"image"`
	RunID string `json:"run_id,omitempty"`
	Error string `json:"error,omitempty"`
	*entity.Summary
}

func writeJSON(w io.Writer, items []app.BatchItem) error {
	out := make([]jsonItem, 0, len(items))
	for _, it := range items {
		item := jsonItem{Image: it.Path}
		if it.Err != nil {
			item.Error = it.Err.Error()
		} else {
			s := it.Analysis.Result.Summary()
			item.RunID = it.Analysis.RunID
			item.Summary = &s
		}
		out = append(out, item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeDebug сохраняет артефакты, собранные в проходе AnalyzeBatch
func writeDebug(dir string, items []app.BatchItem, log zerolog.Logger) {
	for _, it := range items {
		if it.Err != nil {
			continue
		}
		for _, a := range it.Analysis.Artifacts {
			dst := artifactPath(dir, it.Path, a.Name)
			if err := imagefile.SavePNG(dst, a.Image); err != nil {
				log.Warn().Err(err).Msg("save artifact")
				continue
			}
			ev := log.Debug().Str("artifact", dst)
			if strings.HasPrefix(a.Name, "instances_") {
				ev = ev.Int("count", a.Count)
			}
			ev.Msg("artifact written")
		}
	}
}

// artifactPath dir/<имя файла без расширения>_<артефакт>.png
func artifactPath(dir, image, name string) string {
	base := filepath.Base(image)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"_"+name+".png")
}
