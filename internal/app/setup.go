package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/sofa-configurator/internal/config"
	"github.com/Faultbox/sofa-configurator/internal/engine/camera"
	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
)

// NewCamera builds the perspective camera and its orbit controls.
func NewCamera(cfg config.CameraConfig, width, height int) (*camera.Camera, *camera.OrbitControls) {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	cam := camera.NewPerspective(cfg.FovY, aspect, cfg.Near, cfg.Far)
	cam.Position = mgl32.Vec3(cfg.Position)

	controls := camera.NewOrbitControls(cam, mgl32.Vec3(cfg.Target))
	controls.EnableDamping = cfg.Damping
	controls.DampingFactor = cfg.DampingFactor
	return cam, controls
}

// ConfigureScene sets the graph background and light intensities.
func ConfigureScene(g *scene.Graph, cfg config.SceneConfig) error {
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		return err
	}
	g.Background = mgl32.Vec3(bg)

	for i := range g.Lights {
		l := &g.Lights[i]
		switch l.Kind {
		case scene.LightAmbient:
			l.Intensity = cfg.AmbientIntensity
		case scene.LightDirectional:
			l.Intensity = cfg.DirectionalIntensity
			l.Position = mgl32.Vec3(cfg.LightPosition)
		}
	}
	return nil
}
