package camera

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Preset names. The vocabulary is closed.
const (
	ViewTop         = "top"
	ViewFront       = "front"
	ViewFirstPerson = "firstPerson"
	ViewIsometric   = "isometric"
)

// PresetTarget is the look-at point shared by every preset.
var PresetTarget = mgl32.Vec3{0, 1, 0}

var presetEyes = map[string]mgl32.Vec3{
	ViewTop:         {0, 15, 0.1}, // off-axis so LookAt keeps a valid up vector
	ViewFront:       {0, 5, 15},
	ViewFirstPerson: {0, 1.6, -3},
	ViewIsometric:   {10, 10, 10},
}

// PresetEye returns the eye position of a named preset.
func PresetEye(name string) (mgl32.Vec3, bool) {
	eye, ok := presetEyes[name]
	return eye, ok
}

// Presets returns the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presetEyes))
	for name := range presetEyes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetView moves cam to the named preset and points it at PresetTarget.
// Unknown names leave the camera untouched and return false.
func SetView(cam *Camera, name string) bool {
	eye, ok := presetEyes[name]
	if !ok || cam == nil {
		return false
	}
	cam.Position = eye
	cam.LookAt(PresetTarget)
	return true
}
