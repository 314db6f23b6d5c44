package scene

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

func spheres(t *testing.T, s *Scene) []*geometry.Sphere {
	t.Helper()
	result := make([]*geometry.Sphere, 0, s.World.Len())
	for i, shape := range s.World.Objects {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			t.Fatalf("Object %d is %T, expected *geometry.Sphere", i, shape)
		}
		result = append(result, sphere)
	}
	return result
}

func TestBuiltInScenesAreValid(t *testing.T) {
	tests := []struct {
		name  string
		scene *Scene
	}{
		{"random", NewRandomScene(42)},
		{"default", NewDefaultScene()},
		{"simple", NewSimpleScene()},
		{"spheregrid", NewSphereGridScene(5)},
		{"empty", NewEmptyScene()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.scene.Name != tt.name {
				t.Errorf("Expected name %q, got %q", tt.name, tt.scene.Name)
			}
			if err := tt.scene.Validate(); err != nil {
				t.Errorf("Validate failed: %v", err)
			}
			if _, err := tt.scene.NewCamera(); err != nil {
				t.Errorf("NewCamera failed: %v", err)
			}
			if err := tt.scene.RenderConfig().Validate(); err != nil {
				t.Errorf("RenderConfig invalid: %v", err)
			}
		})
	}
}

func TestNewRandomScene_Layout(t *testing.T) {
	s := NewRandomScene(7)
	all := spheres(t, s)

	// ground + at most 22*22 small spheres + 3 large spheres
	if len(all) < 4 || len(all) > 1+22*22+3 {
		t.Fatalf("Unexpected sphere count %d", len(all))
	}

	ground := all[0]
	if ground.Center != core.NewVec3(0, -1000, 0) || ground.Radius != 1000 {
		t.Errorf("Expected ground sphere first, got center %v radius %f", ground.Center, ground.Radius)
	}

	big := all[len(all)-3:]
	if _, ok := big[0].Material.(*material.Dielectric); !ok || big[0].Center != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected glass sphere at (0,1,0), got %T at %v", big[0].Material, big[0].Center)
	}
	if _, ok := big[1].Material.(*material.Lambertian); !ok || big[1].Center != core.NewVec3(-4, 1, 0) {
		t.Errorf("Expected diffuse sphere at (-4,1,0), got %T at %v", big[1].Material, big[1].Center)
	}
	if _, ok := big[2].Material.(*material.Metal); !ok || big[2].Center != core.NewVec3(4, 1, 0) {
		t.Errorf("Expected metal sphere at (4,1,0), got %T at %v", big[2].Material, big[2].Center)
	}

	clearing := core.NewVec3(4, 0.2, 0)
	for i, sphere := range all[1 : len(all)-3] {
		if sphere.Radius != 0.2 || sphere.Center.Y != 0.2 {
			t.Errorf("Small sphere %d has center %v radius %f", i, sphere.Center, sphere.Radius)
		}
		if sphere.Center.Subtract(clearing).Length() <= 0.9 {
			t.Errorf("Small sphere %d at %v intrudes on the clearing", i, sphere.Center)
		}
	}
}

func TestNewRandomScene_Deterministic(t *testing.T) {
	a := spheres(t, NewRandomScene(42))
	b := spheres(t, NewRandomScene(42))
	if len(a) != len(b) {
		t.Fatalf("Same seed produced %d and %d spheres", len(a), len(b))
	}
	for i := range a {
		if a[i].Center != b[i].Center {
			t.Fatalf("Sphere %d differs: %v vs %v", i, a[i].Center, b[i].Center)
		}
	}

	c := spheres(t, NewRandomScene(43))
	same := len(a) == len(c)
	for i := 1; same && i < len(a); i++ {
		same = a[i].Center == c[i].Center
	}
	if same {
		t.Error("Different seeds produced identical scenes")
	}
}

func TestNewDefaultScene_HollowGlass(t *testing.T) {
	found := false
	for _, sphere := range spheres(t, NewDefaultScene()) {
		if sphere.Radius < 0 {
			if _, ok := sphere.Material.(*material.Dielectric); !ok {
				t.Errorf("Expected negative radius sphere to be glass, got %T", sphere.Material)
			}
			found = true
		}
	}
	if !found {
		t.Error("Expected an inner negative-radius glass surface")
	}
}

func TestNewSphereGridScene_Size(t *testing.T) {
	tests := []struct {
		gridSize int
		expected int
	}{
		{5, 1 + 25},
		{10, 1 + 100},
		{1, 1 + 4}, // clamps to a 2x2 grid
	}

	for _, tt := range tests {
		s := NewSphereGridScene(tt.gridSize)
		if s.World.Len() != tt.expected {
			t.Errorf("Grid %d: expected %d objects, got %d", tt.gridSize, tt.expected, s.World.Len())
		}
	}
}

func TestOklchToRGB_InRange(t *testing.T) {
	for h := 0.0; h < 360; h += 15 {
		c := oklchToRGB(0.65, 0.25, h)
		for _, v := range []float64{c.X, c.Y, c.Z} {
			if v < 0 || v > 1 {
				t.Fatalf("Hue %f produced out of range color %v", h, c)
			}
		}
	}

	// Zero chroma is neutral up to rounding
	gray := oklchToRGB(0.5, 0, 0)
	if math.Abs(gray.X-gray.Y) > 1e-6 || math.Abs(gray.Y-gray.Z) > 1e-6 {
		t.Errorf("Expected neutral gray for zero chroma, got %v", gray)
	}
}

func TestCameraOverrides(t *testing.T) {
	s := NewSimpleScene(renderer.CameraConfig{VFov: 45, AspectRatio: 2})
	if s.CameraConfig.VFov != 45 || s.CameraConfig.AspectRatio != 2 {
		t.Errorf("Overrides not applied: %+v", s.CameraConfig)
	}
	if s.CameraConfig.LookAt != core.NewVec3(0, 0, -1) {
		t.Errorf("Expected default look-at to survive, got %v", s.CameraConfig.LookAt)
	}
}

func TestImageSize(t *testing.T) {
	tests := []struct {
		width          int
		aspect         float64
		expectedHeight int
	}{
		{20, 1.5, 13},
		{1200, 1.5, 800},
		{400, 16.0 / 9.0, 225},
		{1, 4, 1}, // never collapses to zero rows
	}

	for _, tt := range tests {
		s := NewEmptyScene(renderer.CameraConfig{AspectRatio: tt.aspect})
		s.SamplingConfig.Width = tt.width
		w, h := s.ImageSize()
		if w != tt.width || h != tt.expectedHeight {
			t.Errorf("Width %d aspect %f: expected %dx%d, got %dx%d", tt.width, tt.aspect, tt.width, tt.expectedHeight, w, h)
		}
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	merged := MergeSamplingConfig(DefaultSamplingConfig(), SamplingConfig{SamplesPerPixel: 3})
	if merged.SamplesPerPixel != 3 || merged.Width != 1200 || merged.MaxDepth != 50 {
		t.Errorf("Unexpected merge result %+v", merged)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Scene)
	}{
		{"nil world", func(s *Scene) { s.World = nil }},
		{"zero width", func(s *Scene) { s.SamplingConfig.Width = 0 }},
		{"zero aspect", func(s *Scene) { s.CameraConfig.AspectRatio = 0 }},
		{"nil material", func(s *Scene) { s.AddSphere(core.NewVec3(0, 0, 0), 1, nil) }},
		{"zero radius", func(s *Scene) {
			s.AddSphere(core.NewVec3(0, 0, 0), 0, material.NewLambertian(core.NewVec3(1, 1, 1)))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimpleScene()
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
