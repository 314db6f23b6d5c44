package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

var (
	// ErrRenderFailed is returned when a row task fails; no partial image is produced
	ErrRenderFailed = errors.New("render failed")

	// ErrIncompleteImage is returned when the aggregator did not receive every pixel
	ErrIncompleteImage = errors.New("incomplete image")
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Rows rendered concurrently (0 = use CPU count)
	Seed            int64 // Base seed for per-row samplers (0 = seed from the clock)

	// PixelCenters samples the center of every pixel instead of jittering.
	// Combined with a pinhole camera this makes a render deterministic.
	PixelCenters bool
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:           1200,
		Height:          800,
		SamplesPerPixel: 500,
		MaxDepth:        50,
		NumWorkers:      0,
	}
}

// Validate checks the configuration for values that cannot produce an image
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel %d must be positive", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth %d must not be negative", c.MaxDepth)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("worker count %d must not be negative", c.NumWorkers)
	}
	return nil
}

// PixelResult carries one finished pixel from a row task to the aggregator
type PixelResult struct {
	Row   int
	Col   int
	Color core.Color // Sum of all samples, not yet averaged
}

// Raytracer renders a world through a camera, one row task per image row
type Raytracer struct {
	world      geometry.Shape
	camera     *Camera
	integrator integrator.Integrator
	config     RenderConfig
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. The world and camera are shared
// read-only by every row task and must not be modified during Render.
func NewRaytracer(world geometry.Shape, camera *Camera, integ integrator.Integrator, config RenderConfig, logger core.Logger) *Raytracer {
	if integ == nil {
		integ = integrator.NewPathTracingIntegrator(nil)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integ,
		config:     config,
		logger:     logger,
	}
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// Render traces every pixel and returns the framebuffer of summed samples.
// Row tasks run in parallel and send finished pixels over a channel to a
// single aggregator, which is the only code that touches the framebuffer.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if rt.camera == nil || rt.world == nil {
		return nil, RenderStats{}, errors.New("raytracer requires a world and a camera")
	}

	startTime := time.Now()
	width, height := rt.config.Width, rt.config.Height
	totalPixels := width * height

	pool := NewWorkerPool(ctx, rt.config.NumWorkers)
	rt.logger.Printf("Rendering image with resolution of %dx%d (%d samples, depth %d, %d workers):\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, pool.GetNumWorkers())

	results := make(chan PixelResult, totalPixels)
	framebuffer := NewFramebuffer(width, height)
	aggregated := make(chan error, 1)
	go func() {
		aggregated <- aggregate(framebuffer, results)
	}()

	baseSeed := rt.config.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	for j := height - 1; j >= 0; j-- {
		row := j
		sampler := core.NewSeededSampler(baseSeed + int64(row))
		pool.Submit(row, func(ctx context.Context) error {
			return rt.renderRow(ctx, row, sampler, results)
		})
	}

	renderErr := pool.Wait()
	close(results)
	aggregateErr := <-aggregated

	stats := RenderStats{
		TotalPixels:  framebuffer.Written(),
		TotalSamples: framebuffer.Written() * rt.config.SamplesPerPixel,
		Rows:         height,
		Workers:      pool.GetNumWorkers(),
		Duration:     time.Since(startTime),
	}

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	if renderErr != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrRenderFailed, renderErr)
	}
	if aggregateErr != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrRenderFailed, aggregateErr)
	}
	if !framebuffer.Complete() {
		return nil, stats, fmt.Errorf("%w: received %d of %d pixels", ErrIncompleteImage, framebuffer.Written(), totalPixels)
	}

	rt.logger.Printf("Render completed in %v\n", stats.Duration)
	return framebuffer, stats, nil
}

// aggregate drains the results channel into the framebuffer until it is closed.
// After an error it keeps draining so producers never block on a full channel.
func aggregate(framebuffer *Framebuffer, results <-chan PixelResult) error {
	var firstErr error
	for result := range results {
		if err := framebuffer.Set(result.Row, result.Col, result.Color); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// renderRow sums SamplesPerPixel estimates for every pixel of one row
func (rt *Raytracer) renderRow(ctx context.Context, row int, sampler core.Sampler, results chan<- PixelResult) error {
	width, height := rt.config.Width, rt.config.Height

	for i := 0; i < width; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var ps PixelStats
		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			// Independent jitter per axis within the pixel
			du, dv := 0.5, 0.5
			if !rt.config.PixelCenters {
				du, dv = sampler.Get1D(), sampler.Get1D()
			}
			s := (float64(i) + du) / float64(width)
			t := (float64(row) + dv) / float64(height)

			ray := rt.camera.GetRay(s, t, sampler)
			ps.AddSample(rt.integrator.RayColor(ray, rt.world, sampler, rt.config.MaxDepth))
		}

		select {
		case results <- PixelResult{Row: row, Col: i, Color: ps.ColorAccum}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
