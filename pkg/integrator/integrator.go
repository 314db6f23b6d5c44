package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use as long as each caller
// passes its own sampler.
type Integrator interface {
	// RayColor estimates the radiance arriving along ray using at most depth bounces
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Color
}

// Background supplies the radiance of rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Color
}

// GradientBackground blends between two colors by the ray's vertical direction
type GradientBackground struct {
	Bottom core.Color // Color looking straight down
	Top    core.Color // Color looking straight up
}

// NewGradientBackground creates a gradient background
func NewGradientBackground(bottom, top core.Color) GradientBackground {
	return GradientBackground{Bottom: bottom, Top: top}
}

// DefaultBackground is the white to sky blue sky dome
func DefaultBackground() GradientBackground {
	return NewGradientBackground(core.NewVec3(1.0, 1.0, 1.0), core.NewVec3(0.5, 0.7, 1.0))
}

// Color returns the gradient color for a ray direction
func (g GradientBackground) Color(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return g.Bottom.Multiply(1.0 - t).Add(g.Top.Multiply(t))
}
