package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList // Objects in the scene
	Background     integrator.GradientBackground
	CameraConfig   renderer.CameraConfig
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width; height follows from the camera aspect ratio
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the settings used for final renders
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           1200,
		SamplesPerPixel: 500,
		MaxDepth:        50,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	return result
}

// newScene creates an empty scene with the default sky
func newScene(name string, cameraConfig renderer.CameraConfig, samplingConfig SamplingConfig) *Scene {
	return &Scene{
		Name:           name,
		World:          geometry.NewHittableList(),
		Background:     integrator.DefaultBackground(),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
	}
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Point3, radius float64, mat material.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// ImageSize returns the image dimensions implied by the sampling width and camera aspect ratio
func (s *Scene) ImageSize() (width, height int) {
	width = s.SamplingConfig.Width
	height = int(float64(width) / s.CameraConfig.AspectRatio)
	return width, max(1, height)
}

// RenderConfig builds the renderer configuration for this scene
func (s *Scene) RenderConfig() renderer.RenderConfig {
	width, height := s.ImageSize()
	return renderer.RenderConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: s.SamplingConfig.SamplesPerPixel,
		MaxDepth:        s.SamplingConfig.MaxDepth,
	}
}

// NewCamera builds the scene's camera
func (s *Scene) NewCamera() (*renderer.Camera, error) {
	camera, err := renderer.NewCamera(s.CameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return camera, nil
}

// Validate checks the scene for values that cannot be rendered
func (s *Scene) Validate() error {
	if s.World == nil {
		return fmt.Errorf("scene %q has no world", s.Name)
	}
	if s.SamplingConfig.Width <= 0 {
		return fmt.Errorf("scene %q: image width %d must be positive", s.Name, s.SamplingConfig.Width)
	}
	if !(s.CameraConfig.AspectRatio > 0) || math.IsInf(s.CameraConfig.AspectRatio, 0) {
		return fmt.Errorf("scene %q: aspect ratio %g must be positive", s.Name, s.CameraConfig.AspectRatio)
	}
	for i, shape := range s.World.Objects {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			continue
		}
		if sphere.Material == nil {
			return fmt.Errorf("scene %q: sphere %d has no material", s.Name, i)
		}
		if sphere.Radius == 0 || math.IsNaN(sphere.Radius) {
			return fmt.Errorf("scene %q: sphere %d has invalid radius %g", s.Name, i, sphere.Radius)
		}
	}
	return nil
}
