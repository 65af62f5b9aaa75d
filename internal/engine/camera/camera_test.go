package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera() *Camera {
	cam := NewPerspective(75, 16.0/9.0, 0.1, 1000)
	cam.Position = mgl32.Vec3{2, 2, 5}
	cam.LookAt(mgl32.Vec3{0, 0.5, 0})
	return cam
}

func TestSetViewDeterministic(t *testing.T) {
	for _, name := range Presets() {
		t.Run(name, func(t *testing.T) {
			a := newTestCamera()
			b := newTestCamera()
			b.Position = mgl32.Vec3{-40, 3, 7}
			b.LookAt(mgl32.Vec3{9, 9, 9})

			require.True(t, SetView(a, name))
			require.True(t, SetView(b, name))

			eye, ok := PresetEye(name)
			require.True(t, ok)
			assert.Equal(t, eye, a.Position)
			assert.Equal(t, a.Position, b.Position)
			assert.Equal(t, PresetTarget, a.Target)
			assert.Equal(t, a.Target, b.Target)
			assert.Equal(t, a.ViewMatrix(), b.ViewMatrix())
		})
	}
}

func TestSetViewTop(t *testing.T) {
	cam := newTestCamera()
	require.True(t, SetView(cam, ViewTop))
	assert.Equal(t, mgl32.Vec3{0, 15, 0.1}, cam.Position)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, cam.Target)
}

func TestSetViewUnknown(t *testing.T) {
	cam := newTestCamera()
	before := *cam

	assert.False(t, SetView(cam, "unknown"))
	assert.False(t, SetView(cam, "Top"))
	assert.Equal(t, before.Position, cam.Position)
	assert.Equal(t, before.Target, cam.Target)

	assert.False(t, SetView(nil, ViewTop))
}

func TestPresetsClosedSet(t *testing.T) {
	assert.Equal(t, []string{"firstPerson", "front", "isometric", "top"}, Presets())
}

func TestSetViewport(t *testing.T) {
	cam := newTestCamera()
	before := cam.ProjectionMatrix()

	assert.True(t, cam.SetViewport(800, 800))
	assert.Equal(t, float32(1), cam.Aspect)
	assert.NotEqual(t, before, cam.ProjectionMatrix())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(75), 1, 0.1, 1000), cam.ProjectionMatrix())

	assert.False(t, cam.SetViewport(0, 600))
	assert.False(t, cam.SetViewport(800, -1))
	assert.Equal(t, float32(1), cam.Aspect)
}

func TestForward(t *testing.T) {
	cam := NewPerspective(75, 1, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.LookAt(mgl32.Vec3{0, 0, 0})
	f := cam.Forward()
	assert.InDelta(t, -1, f.Z(), 1e-6)

	cam.LookAt(cam.Position)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, cam.Forward())
}
