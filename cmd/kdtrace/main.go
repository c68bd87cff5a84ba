// Command kdtrace renders a scene document with a k-d tree path tracer,
// per spec.md §6: --scene, --output, --iterations (-1 for infinite), and
// --camera.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/imageio"
	"github.com/solraven/kdtrace/pkg/render"
	"github.com/solraven/kdtrace/pkg/scenefile"
)

// Config holds the command's flags, mirroring the teacher's flat
// flag.StringVar/IntVar Config pattern in main.go.
type Config struct {
	ScenePath  string
	Output     string
	Iterations int
	Camera     string
	SPP        int
	Workers    int
	Preview    bool
	Help       bool
}

func parseFlags() Config {
	cfg := Config{}
	flag.StringVar(&cfg.ScenePath, "scene", "", "path to a scene document (required)")
	flag.StringVar(&cfg.Output, "output", "render.kdfr", "output file path for the canonical float RGB image")
	flag.IntVar(&cfg.Iterations, "iterations", 10, "number of progressive passes (-1 for infinite, until interrupted)")
	flag.StringVar(&cfg.Camera, "camera", "", "camera name to render from (defaults to the scene's 'default' camera)")
	flag.IntVar(&cfg.SPP, "spp", 4, "samples per pixel per iteration")
	flag.IntVar(&cfg.Workers, "workers", 0, "number of parallel row workers (0 = auto-detect CPU count)")
	flag.BoolVar(&cfg.Preview, "preview", true, "write a PNG preview alongside the canonical output after each iteration")
	flag.BoolVar(&cfg.Help, "help", false, "show help information")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	if cfg.Help || cfg.ScenePath == "" {
		showHelp()
		if cfg.ScenePath == "" && !cfg.Help {
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "kdtrace: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	logger := core.NewDefaultLogger()
	printer := message.NewPrinter(language.English)

	logger.Printf("loading scene %s\n", cfg.ScenePath)
	sc, err := scenefile.Load(cfg.ScenePath, cfg.Camera)
	if err != nil {
		return err
	}

	cam, err := sc.Camera(cfg.Camera)
	if err != nil {
		return err
	}

	driver := render.NewDriver(render.Config{
		Width:               cam.Width,
		Height:              cam.Height,
		SamplesPerIteration: cfg.SPP,
		NumWorkers:          cfg.Workers,
	}, sc, cam, logger, time.Now().UnixNano())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	onIteration := func(i int) {
		totalSamples := i * cfg.SPP
		printer.Printf("iteration %d complete (%d samples/pixel, %v elapsed)\n", i, totalSamples, time.Since(start).Round(time.Millisecond))
		if cfg.Preview {
			previewPath := previewPathFor(cfg.Output)
			if err := imageio.WritePNGPreview(previewPath, driver.Film.Width(), driver.Film.Height(), driver.Film.Resolve()); err != nil {
				logger.Printf("warning: failed to write preview: %v\n", err)
			}
		}
	}

	err = driver.Run(ctx, cfg.Iterations, onIteration)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("render: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		logger.Printf("interrupted, writing final image\n")
	}

	if writeErr := imageio.WriteFloatRGB(cfg.Output, driver.Film.Width(), driver.Film.Height(), driver.Film.Resolve()); writeErr != nil {
		return fmt.Errorf("write output: %w", writeErr)
	}
	logger.Printf("wrote %s\n", cfg.Output)
	return nil
}

func previewPathFor(output string) string {
	if strings.HasSuffix(output, ".kdfr") {
		return strings.TrimSuffix(output, ".kdfr") + ".png"
	}
	return output + ".png"
}

func showHelp() {
	fmt.Println("kdtrace - a k-d tree Monte Carlo path tracer")
	fmt.Println()
	fmt.Println("Usage: kdtrace --scene <path> [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  kdtrace --scene scenes/cornell.yaml --output out.kdfr")
	fmt.Println("  kdtrace --scene scenes/cornell.yaml --iterations -1 --camera wide")
}
