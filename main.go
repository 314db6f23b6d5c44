package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName string
	width     int
	aspect    float64
	spp       int
	depth     int
	workers   int
	seed      int64
	output    string
	help      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.sceneName, "scene", scene.DefaultSceneName, "Scene name ("+strings.Join(scene.BuiltInSceneNames(), ", ")+") or path to a .json scene file")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.Float64Var(&opts.aspect, "aspect", 0, "Aspect ratio width/height (0 = scene default)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", -1, "Maximum bounce depth; 0 renders black (negative = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel row workers (0 = number of CPUs)")
	fs.Int64Var(&opts.seed, "seed", 42, "Random seed for scene generation and sampling")
	fs.StringVar(&opts.output, "output", "result.ppm", "Output file (.ppm or .png)")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if fs.NArg() > 0 {
		return opts, fs, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.width < 0 || opts.spp < 0 || opts.workers < 0 || opts.aspect < 0 {
		return opts, fs, errors.New("numeric flags must not be negative")
	}
	return opts, fs, nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	scenes, err := scene.ListAllScenes("scenes")
	if err != nil {
		fmt.Fprintf(w, "  (failed to list scene files: %v)\n", err)
	}
	for _, info := range scenes {
		if info.Description != "" {
			fmt.Fprintf(w, "  %-12s - %s\n", info.ID, info.Description)
		} else {
			fmt.Fprintf(w, "  %s\n", info.ID)
		}
	}
}

// configureScene creates the requested scene and applies command line overrides
func configureScene(opts options) (*scene.Scene, error) {
	s, err := scene.CreateScene(opts.sceneName, opts.seed)
	if err != nil {
		return nil, err
	}

	s.CameraConfig = renderer.MergeCameraConfig(s.CameraConfig, renderer.CameraConfig{AspectRatio: opts.aspect})
	s.SamplingConfig = scene.MergeSamplingConfig(s.SamplingConfig, scene.SamplingConfig{
		Width:           opts.width,
		SamplesPerPixel: opts.spp,
	})
	if opts.depth >= 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stdout, fs)
		return nil
	}

	logger := log.New(stderr, "", 0)

	selectedScene, err := configureScene(opts)
	if err != nil {
		return err
	}
	camera, err := selectedScene.NewCamera()
	if err != nil {
		return err
	}

	config := selectedScene.RenderConfig()
	config.NumWorkers = opts.workers
	config.Seed = opts.seed

	logger.Printf("Using %s scene with %d objects", selectedScene.Name, selectedScene.World.Len())

	integ := integrator.NewPathTracingIntegrator(selectedScene.Background)
	raytracer := renderer.NewRaytracer(selectedScene.World, camera, integ, config, logger)

	fb, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}

	logger.Printf("%d pixels, %.1f samples per pixel, %d workers", stats.TotalPixels, stats.AverageSamples(), stats.Workers)

	if err := renderer.WriteImageFile(opts.output, fb, config.SamplesPerPixel); err != nil {
		return err
	}

	logger.Printf("Render saved as %s", opts.output)
	return nil
}
