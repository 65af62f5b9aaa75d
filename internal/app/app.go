// Package app runs the configurator viewer: window, input, renderer and
// the frame loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/assets"
	"github.com/Faultbox/sofa-configurator/internal/config"
	"github.com/Faultbox/sofa-configurator/internal/configurator"
	"github.com/Faultbox/sofa-configurator/internal/control"
	"github.com/Faultbox/sofa-configurator/internal/engine/audio"
	"github.com/Faultbox/sofa-configurator/internal/engine/camera"
	"github.com/Faultbox/sofa-configurator/internal/engine/capture"
	"github.com/Faultbox/sofa-configurator/internal/engine/input"
	"github.com/Faultbox/sofa-configurator/internal/engine/renderer"
	"github.com/Faultbox/sofa-configurator/internal/engine/texture"
	"github.com/Faultbox/sofa-configurator/internal/engine/window"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

const (
	maxTextureSize = 4096
	defaultInbox   = 16
)

// viewKeys maps number keys to camera presets.
var viewKeys = map[sdl.Scancode]string{
	sdl.SCANCODE_1: camera.ViewTop,
	sdl.SCANCODE_2: camera.ViewFront,
	sdl.SCANCODE_3: camera.ViewFirstPerson,
	sdl.SCANCODE_4: camera.ViewIsometric,
}

// App is the configurator viewer.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	driver   *Driver
	server   *control.Server
	cancel   context.CancelFunc

	audio       *audio.Player
	picker      *texturePicker
	screenshots *capture.Screenshots
	wantShot    bool
}

// New creates the window, renderer and configurator state and starts
// loading the catalog.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing configurator",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("assets", cfg.Catalog.AssetDir),
	)

	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "Sofa Configurator",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.input = input.New()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	cam, controls := NewCamera(cfg.Camera, width, height)
	queue := assets.NewQueue(ctx, 16)
	st := configurator.NewState(
		queue,
		assets.GLTFSource{Root: cfg.Catalog.AssetDir},
		texture.Loader{Root: cfg.Catalog.AssetDir, Repeat: cfg.Catalog.TextureRepeat, MaxSize: maxTextureSize},
		cam,
		configurator.CatalogFromConfig(cfg.Catalog),
	)
	if err := ConfigureScene(st.Graph, cfg.Scene); err != nil {
		a.Close()
		return nil, err
	}

	size := cfg.Control.Inbox
	if size <= 0 {
		size = defaultInbox
	}
	inbox := make(chan configurator.Command, size)
	a.picker = newTexturePicker(inbox)
	a.screenshots = capture.NewScreenshots(cfg.Graphics.ScreenshotDir, "sofa")

	var notifiers configurator.Notifiers
	if cfg.Control.Enabled {
		hub := control.NewHub()
		a.server = control.NewServer(cfg.Control.Listen, inbox, hub, st.Catalog)
		if _, err := a.server.Start(); err != nil {
			logger.Warn("control server disabled", zap.Error(err))
			a.server = nil
		} else {
			notifiers = append(notifiers, hub)
		}
	}
	if cfg.Audio.Enabled {
		if player := a.initAudio(); player != nil {
			notifiers = append(notifiers, configurator.NotifierFunc(func(e configurator.Event) {
				player.Play(string(e.Kind))
			}))
		}
	}
	if len(notifiers) > 0 {
		st.Notifier = notifiers
	}

	a.driver = NewDriver(st, controls, a.renderer, inbox)
	configurator.Start(st)

	logger.Info("configurator initialized")
	return a, nil
}

// Run runs the frame loop until the window is closed or Escape is pressed.
func (a *App) Run() error {
	a.running = true

	var frameBudget time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")
	for a.running {
		start := time.Now()

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleInput()

		if err := a.driver.Tick(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if a.wantShot {
			a.wantShot = false
			a.saveScreenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			cached, loading, failed := a.driver.State().Cache.Stats()
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("cached", cached),
				zap.Int("loading", loading),
				zap.Int("failed", failed),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	return nil
}

func (a *App) handleInput() {
	controls := a.driver.Controls()
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			// Event sizes are in screen coordinates; the viewport needs pixels.
			a.driver.Resize(a.window.DrawableSize())
		case input.EventKeyDown:
			switch ev.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_T:
				a.picker.Pick()
			case sdl.SCANCODE_F12:
				a.wantShot = true
			}
			if view, ok := viewKeys[ev.Key]; ok {
				a.driver.Apply(configurator.Command{Kind: configurator.CmdSetView, Arg: view})
			}
		case input.EventMouseMove:
			if a.input.Dragging() {
				controls.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			}
		case input.EventMouseWheel:
			controls.HandleZoom(ev.Wheel)
		}
	}
}

func (a *App) initAudio() *audio.Player {
	player := audio.New(a.cfg.Audio.Volume)
	if err := player.Init(); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return nil
	}
	if err := player.LoadCues(a.cfg.Catalog.AssetDir, a.cfg.Audio.Cues); err != nil {
		logger.Warn("audio cues", zap.Error(err))
	}
	a.audio = player
	return player
}

func (a *App) saveScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.screenshots.SaveFramebuffer(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close stops background work and releases the window.
func (a *App) Close() {
	logger.Info("closing configurator")

	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.server.Shutdown(ctx); err != nil {
			logger.Warn("control server shutdown", zap.Error(err))
		}
		cancel()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
