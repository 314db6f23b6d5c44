package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// VecValue is a 3-vector written as [x, y, z]
type VecValue [3]float64

// Vec3 converts the value to a core vector
func (v VecValue) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// ColorValue is a linear color written either as [r, g, b] in 0..1 or as a
// CSS color name such as "steelblue"
type ColorValue [3]float64

// UnmarshalJSON accepts both color forms
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		*c = ColorValue{float64(rgba.R) / 255, float64(rgba.G) / 255, float64(rgba.B) / 255}
		return nil
	}

	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be [r, g, b] or a color name: %w", err)
	}
	*c = ColorValue(rgb)
	return nil
}

// Color converts the value to a core color
func (c ColorValue) Color() core.Color {
	return core.NewVec3(c[0], c[1], c[2])
}

// CameraFile is the camera section of a scene file. Omitted fields keep the scene defaults.
type CameraFile struct {
	LookFrom      *VecValue `json:"lookFrom,omitempty"`
	LookAt        *VecValue `json:"lookAt,omitempty"`
	Up            *VecValue `json:"up,omitempty"`
	VFov          float64   `json:"vfov,omitempty"`
	AspectRatio   float64   `json:"aspectRatio,omitempty"`
	Aperture      *float64  `json:"aperture,omitempty"`      // 0 turns depth of field off
	FocusDistance *float64  `json:"focusDistance,omitempty"` // 0 focuses on lookAt
}

type SamplingFile struct {
	Width           int  `json:"width,omitempty"`
	SamplesPerPixel int  `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int `json:"maxDepth,omitempty"`
}

type BackgroundFile struct {
	Bottom *ColorValue `json:"bottom,omitempty"`
	Top    *ColorValue `json:"top,omitempty"`
}

type MaterialFile struct {
	Type            string      `json:"type"` // lambertian, metal or dielectric
	Albedo          *ColorValue `json:"albedo,omitempty"`
	Fuzz            float64     `json:"fuzz,omitempty"`
	RefractiveIndex float64     `json:"refractiveIndex,omitempty"`
}

type SphereFile struct {
	Center   VecValue     `json:"center"`
	Radius   float64      `json:"radius"`
	Material MaterialFile `json:"material"`
}

// SceneFile is the on-disk JSON form of a scene
type SceneFile struct {
	Name       string          `json:"name,omitempty"`
	Camera     CameraFile      `json:"camera"`
	Sampling   SamplingFile    `json:"sampling"`
	Background *BackgroundFile `json:"background,omitempty"`
	Spheres    []SphereFile    `json:"spheres"`
}

// LoadSceneFile reads a JSON scene description from disk
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var file SceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}

	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	return s, nil
}

// Build converts the file form into a scene, starting from the simple scene's
// camera and sampling defaults
func (f SceneFile) Build() (*Scene, error) {
	base := NewSimpleScene()

	camera, err := f.Camera.apply(base.CameraConfig)
	if err != nil {
		return nil, err
	}

	sampling := MergeSamplingConfig(base.SamplingConfig, SamplingConfig{
		Width:           f.Sampling.Width,
		SamplesPerPixel: f.Sampling.SamplesPerPixel,
	})
	if f.Sampling.MaxDepth != nil {
		if *f.Sampling.MaxDepth < 0 {
			return nil, fmt.Errorf("sampling: max depth %d must not be negative", *f.Sampling.MaxDepth)
		}
		sampling.MaxDepth = *f.Sampling.MaxDepth
	}

	s := newScene(f.Name, camera, sampling)

	if f.Background != nil {
		background := s.Background
		if f.Background.Bottom != nil {
			background.Bottom = f.Background.Bottom.Color()
		}
		if f.Background.Top != nil {
			background.Top = f.Background.Top.Color()
		}
		s.Background = background
	}

	for i, sphere := range f.Spheres {
		if sphere.Radius == 0 || math.IsNaN(sphere.Radius) || math.IsInf(sphere.Radius, 0) {
			return nil, fmt.Errorf("sphere %d: invalid radius %g", i, sphere.Radius)
		}
		mat, err := sphere.Material.Build()
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddSphere(sphere.Center.Vec3(), sphere.Radius, mat)
	}

	return s, nil
}

// apply sets every field present in the file on top of base, including
// explicit zero values such as a look-at at the origin
func (c CameraFile) apply(base renderer.CameraConfig) (renderer.CameraConfig, error) {
	result := base
	if c.LookFrom != nil {
		result.LookFrom = c.LookFrom.Vec3()
	}
	if c.LookAt != nil {
		result.LookAt = c.LookAt.Vec3()
	}
	if c.Up != nil {
		result.Up = c.Up.Vec3()
	}
	if c.VFov != 0 {
		result.VFov = c.VFov
	}
	if c.AspectRatio != 0 {
		result.AspectRatio = c.AspectRatio
	}
	if c.Aperture != nil {
		if *c.Aperture < 0 {
			return result, fmt.Errorf("camera: aperture %g must not be negative", *c.Aperture)
		}
		result.Aperture = *c.Aperture
	}
	if c.FocusDistance != nil {
		if *c.FocusDistance < 0 {
			return result, fmt.Errorf("camera: focus distance %g must not be negative", *c.FocusDistance)
		}
		result.FocusDistance = *c.FocusDistance
	}
	return result, nil
}

// Build creates the material described by the file
func (m MaterialFile) Build() (material.Material, error) {
	albedo := core.NewVec3(0.5, 0.5, 0.5)
	if m.Albedo != nil {
		albedo = m.Albedo.Color()
	}

	switch strings.ToLower(m.Type) {
	case "lambertian", "diffuse":
		return material.NewLambertian(albedo), nil
	case "metal":
		return material.NewMetal(albedo, m.Fuzz), nil
	case "dielectric", "glass":
		if !(m.RefractiveIndex > 0) {
			return nil, fmt.Errorf("dielectric refractive index %g must be positive", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	case "":
		return nil, fmt.Errorf("material type is required")
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}
