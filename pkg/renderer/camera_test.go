package renderer

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func pinholeConfig() CameraConfig {
	return CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 2.0,
	}
}

func TestCameraGetRay_Pinhole(t *testing.T) {
	camera, err := NewCamera(pinholeConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// 90° vertical fov at focus distance 1 spans y in [-1, 1] and x in [-2, 2]
	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1)},
		{"top center", 0.5, 1, core.NewVec3(0, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, sampler)
			if ray.Origin != (core.Vec3{}) {
				t.Errorf("Pinhole ray should start at the camera origin, got %v", ray.Origin)
			}
			if ray.Direction.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCameraGetRay_DepthOfField(t *testing.T) {
	config := pinholeConfig()
	config.Aperture = 0.5
	config.FocusDistance = 3.0
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	focusPoint := core.NewVec3(0, 0, -3)
	sawOffset := false
	for i := 0; i < 200; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)

		// Lens samples stay on the lens disk in the camera's u/v plane
		if ray.Origin.Z != 0 {
			t.Fatalf("Expected lens offset in the image plane, got origin %v", ray.Origin)
		}
		if ray.Origin.Length() > config.Aperture/2+1e-12 {
			t.Fatalf("Lens offset %v exceeds lens radius", ray.Origin)
		}
		if ray.Origin.Length() > 1e-6 {
			sawOffset = true
		}

		// Every ray through the center passes through the same point on the focus plane
		if ray.At(1).Subtract(focusPoint).Length() > 1e-9 {
			t.Fatalf("Expected ray to converge at %v, got %v", focusPoint, ray.At(1))
		}
	}
	if !sawOffset {
		t.Error("Expected a finite aperture to offset ray origins")
	}
}

func TestCameraAutoFocusDistance(t *testing.T) {
	config := pinholeConfig()
	config.LookAt = core.NewVec3(0, 0, -4)
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := camera.Config().FocusDistance; math.Abs(got-4) > 1e-12 {
		t.Errorf("Expected focus distance to default to 4, got %f", got)
	}
}

func TestNewCamera_DegenerateConfigs(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
	}{
		{"look-from equals look-at", func(c *CameraConfig) { c.LookAt = c.LookFrom }},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 2) }},
		{"up anti-parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, -1) }},
		{"zero up", func(c *CameraConfig) { c.Up = core.Vec3{} }},
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }},
		{"straight fov", func(c *CameraConfig) { c.VFov = 180 }},
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }},
		{"negative aperture", func(c *CameraConfig) { c.Aperture = -1 }},
		{"negative focus", func(c *CameraConfig) { c.FocusDistance = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := pinholeConfig()
			tt.modify(&config)

			camera, err := NewCamera(config)
			if err == nil {
				t.Fatal("Expected an error for a degenerate camera")
			}
			if !errors.Is(err, ErrDegenerateCamera) {
				t.Errorf("Expected ErrDegenerateCamera, got %v", err)
			}
			if camera != nil {
				t.Error("Expected nil camera on error")
			}
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{VFov: 45, AspectRatio: 1})

	if merged.VFov != 45 || merged.AspectRatio != 1 {
		t.Errorf("Expected overrides to apply, got vfov %f aspect %f", merged.VFov, merged.AspectRatio)
	}
	if merged.LookFrom != base.LookFrom || merged.Aperture != base.Aperture {
		t.Error("Expected zero override fields to keep base values")
	}
}

func TestDefaultCameraConfigIsValid(t *testing.T) {
	if _, err := NewCamera(DefaultCameraConfig()); err != nil {
		t.Errorf("Default camera should be valid: %v", err)
	}
}
