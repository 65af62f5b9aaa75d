package app

import (
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/configurator"
	"github.com/Faultbox/sofa-configurator/internal/engine/camera"
	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// Surface is where frames are drawn.
type Surface interface {
	Draw(g *scene.Graph, cam *camera.Camera) error
	Resize(width, height int)
}

// Driver advances the configurator one frame at a time. It is the only
// code that touches configurator state after startup.
type Driver struct {
	state    *configurator.State
	controls *camera.OrbitControls
	surface  Surface
	inbox    <-chan configurator.Command
	frames   uint64
}

// NewDriver creates a driver. inbox may be nil when no command source exists.
func NewDriver(st *configurator.State, controls *camera.OrbitControls, surface Surface, inbox <-chan configurator.Command) *Driver {
	return &Driver{
		state:    st,
		controls: controls,
		surface:  surface,
		inbox:    inbox,
	}
}

// Tick runs finished asset loads, applies queued commands, advances the
// orbit controls by one damping step and draws exactly one frame.
func (d *Driver) Tick() error {
	d.state.Queue.Pump()
	d.drain()
	d.controls.Update()
	d.frames++
	return d.surface.Draw(d.state.Graph, d.state.Camera)
}

// Apply runs cmd immediately. A view change discards any orbit motion
// still in flight so the preset is shown as defined.
func (d *Driver) Apply(cmd configurator.Command) {
	configurator.Apply(d.state, cmd)
	if cmd.Kind == configurator.CmdSetView {
		d.controls.Stop()
	}
}

func (d *Driver) drain() {
	for {
		select {
		case cmd, ok := <-d.inbox:
			if !ok {
				d.inbox = nil
				return
			}
			d.Apply(cmd)
		default:
			return
		}
	}
}

// Resize updates the camera aspect and projection and resizes the surface.
// Non-positive sizes are ignored.
func (d *Driver) Resize(width, height int) {
	if !d.state.Camera.SetViewport(width, height) {
		logger.Debug("ignoring resize", zap.Int("width", width), zap.Int("height", height))
		return
	}
	d.surface.Resize(width, height)
}

// Controls returns the orbit controls.
func (d *Driver) Controls() *camera.OrbitControls { return d.controls }

// State returns the configurator state.
func (d *Driver) State() *configurator.State { return d.state }

// Frames returns the number of frames drawn.
func (d *Driver) Frames() uint64 { return d.frames }
