package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene that can be passed to CreateScene
type SceneInfo struct {
	ID          string `json:"id"`          // Name or file path accepted by CreateScene
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// DefaultSceneName is rendered when no scene is requested
const DefaultSceneName = "random"

var builtInScenes = []SceneInfo{
	{ID: "random", DisplayName: "Random Spheres", Description: "Field of small random spheres around three large ones", Type: "builtin"},
	{ID: "default", DisplayName: "Default Scene", Description: "Glass, metal and diffuse spheres with depth of field", Type: "builtin"},
	{ID: "simple", DisplayName: "Simple", Description: "One diffuse sphere on a ground sphere", Type: "builtin"},
	{ID: "spheregrid", DisplayName: "Sphere Grid", Description: "Grid of rainbow-colored metallic spheres", Type: "builtin"},
	{ID: "empty", DisplayName: "Empty", Description: "Sky only", Type: "builtin"},
}

// CreateScene builds a scene by name. Names ending in .json are loaded from disk.
// The seed only affects the random scene.
func CreateScene(name string, seed int64) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadSceneFile(name)
	}

	switch name {
	case "random":
		return NewRandomScene(seed), nil
	case "default":
		return NewDefaultScene(), nil
	case "simple":
		return NewSimpleScene(), nil
	case "spheregrid":
		return NewSphereGridScene(10), nil
	case "empty":
		return NewEmptyScene(), nil
	case "":
		return nil, fmt.Errorf("scene name is required")
	default:
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(BuiltInSceneNames(), ", "))
	}
}

// BuiltInSceneNames returns the names CreateScene accepts besides file paths
func BuiltInSceneNames() []string {
	names := make([]string, len(builtInScenes))
	for i, info := range builtInScenes {
		names[i] = info.ID
	}
	return names
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return []SceneInfo{}, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		scenes = append(scenes, SceneInfo{
			ID:          filePath,
			DisplayName: titleCase(nameWithoutExt),
			Type:        "json",
			FilePath:    filePath,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scenes followed by the scene files found in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	all := make([]SceneInfo, 0, len(builtInScenes)+len(files))
	all = append(all, builtInScenes...)
	return append(all, files...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-balls" -> "Glass Balls"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
