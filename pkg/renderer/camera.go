package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrDegenerateCamera is returned when a camera configuration cannot define a view
var ErrDegenerateCamera = errors.New("degenerate camera configuration")

// CameraConfig contains all parameters needed to construct a camera
type CameraConfig struct {
	LookFrom      core.Point3 // Camera position
	LookAt        core.Point3 // Point the camera is looking at
	Up            core.Vec3   // Up direction (usually (0,1,0))
	VFov          float64     // Vertical field of view in degrees
	AspectRatio   float64     // Width / height
	Aperture      float64     // Lens diameter, 0 for a pinhole camera
	FocusDistance float64     // Distance to the plane of perfect focus (0 = distance to LookAt)
}

// DefaultCameraConfig returns the wide shot used by the random sphere field
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.LookFrom != (core.Vec3{}) {
		result.LookFrom = override.LookFrom
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Camera generates rays for rendering.
// A Camera is immutable after construction and safe for concurrent use.
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal camera basis
	lensRadius      float64
	config          CameraConfig
}

// NewCamera creates a camera with depth of field from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := validateCameraConfig(config); err != nil {
		return nil, err
	}

	view := config.LookFrom.Subtract(config.LookAt)
	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = view.Length()
	}

	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	// w points backwards from the view direction
	w := view.Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.LookFrom
	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	config.FocusDistance = focusDistance

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		config:          config,
	}, nil
}

func validateCameraConfig(config CameraConfig) error {
	view := config.LookFrom.Subtract(config.LookAt)
	if view.NearZero() {
		return fmt.Errorf("%w: look-from %v equals look-at %v", ErrDegenerateCamera, config.LookFrom, config.LookAt)
	}
	if config.Up.NearZero() {
		return fmt.Errorf("%w: up vector is zero", ErrDegenerateCamera)
	}
	// Parallel vectors have a vanishing cross product relative to their lengths
	if config.Up.Cross(view).Length() <= 1e-9*config.Up.Length()*view.Length() {
		return fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrDegenerateCamera, config.Up)
	}
	if !(config.VFov > 0 && config.VFov < 180) {
		return fmt.Errorf("%w: vertical field of view %g must be in (0, 180) degrees", ErrDegenerateCamera, config.VFov)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return fmt.Errorf("%w: aspect ratio %g must be positive", ErrDegenerateCamera, config.AspectRatio)
	}
	if config.Aperture < 0 || math.IsNaN(config.Aperture) {
		return fmt.Errorf("%w: aperture %g must not be negative", ErrDegenerateCamera, config.Aperture)
	}
	if config.FocusDistance < 0 || math.IsNaN(config.FocusDistance) {
		return fmt.Errorf("%w: focus distance %g must not be negative", ErrDegenerateCamera, config.FocusDistance)
	}
	return nil
}

// GetRay generates a ray for viewport coordinates (s, t) where 0 <= s,t <= 1.
// (0, 0) is the lower left corner of the image. The sampler is only consulted
// when the camera has a finite aperture.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// Config returns the configuration the camera was built from, with the
// focus distance resolved
func (c *Camera) Config() CameraConfig {
	return c.config
}
