// Package config handles configurator settings loading and management.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds all configurator settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Control  ControlConfig  `yaml:"control"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// SceneConfig holds scene backdrop and lighting.
type SceneConfig struct {
	Background           string     `yaml:"background"` // "#rrggbb"
	AmbientIntensity     float32    `yaml:"ambient_intensity"`
	DirectionalIntensity float32    `yaml:"directional_intensity"`
	LightPosition        [3]float32 `yaml:"light_position"`
}

// CameraConfig holds the perspective camera and orbit controls settings.
type CameraConfig struct {
	FovY          float32    `yaml:"fov"` // degrees
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Position      [3]float32 `yaml:"position"`
	Target        [3]float32 `yaml:"target"`
	Damping       bool       `yaml:"damping"`
	DampingFactor float32    `yaml:"damping_factor"`
}

// PartConfig names one loadable asset.
type PartConfig struct {
	Key  string `yaml:"key"`
	Path string `yaml:"path"`
}

// CatalogConfig lists the assets the configurator knows about.
type CatalogConfig struct {
	AssetDir        string            `yaml:"asset_dir"`
	Base            PartConfig        `yaml:"base"`
	Legs            []PartConfig      `yaml:"legs"`
	DefaultLegs     string            `yaml:"default_legs"`
	Textures        map[string]string `yaml:"textures"`
	TextureMaterial string            `yaml:"texture_material"`
	TextureRepeat   float32           `yaml:"texture_repeat"`
}

// ControlConfig holds the command server settings.
type ControlConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Inbox   int    `yaml:"inbox"` // buffered commands
}

// AudioConfig holds the feedback sounds. Cues maps an event kind
// ("legs_shown", "load_failed", ...) to a WAV file under the asset dir.
type AudioConfig struct {
	Enabled bool              `yaml:"enabled"`
	Volume  float64           `yaml:"volume"`
	Cues    map[string]string `yaml:"cues"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,

			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			Background:           "#aaaaaa",
			AmbientIntensity:     1.2,
			DirectionalIntensity: 1.5,
			LightPosition:        [3]float32{10, 20, 10},
		},
		Camera: CameraConfig{
			FovY:          75,
			Near:          0.1,
			Far:           1000,
			Position:      [3]float32{2, 2, 5},
			Target:        [3]float32{0, 0.5, 0},
			Damping:       true,
			DampingFactor: 0.1,
		},
		Catalog: CatalogConfig{
			AssetDir: "assets",
			Base:     PartConfig{Key: "base-canape-fijo-15", Path: "modelos/base-canape-fijo-15.glb"},
			Legs: []PartConfig{
				{Key: "patas-cilindro", Path: "modelos/patas-cilindro.glb"},
				{Key: "patas-cuadrado", Path: "modelos/patas-cuadrado.glb"},
			},
			DefaultLegs:     "patas-cilindro",
			Textures:        map[string]string{},
			TextureMaterial: "material-soporte",
			TextureRepeat:   4,
		},
		Control: ControlConfig{
			Enabled: true,
			Listen:  "127.0.0.1:8087",
			Inbox:   64,
		},
		Audio: AudioConfig{
			Volume: 0.8,
			Cues:   map[string]string{},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LegsPaths returns the legs catalog as key -> path.
func (c *CatalogConfig) LegsPaths() map[string]string {
	out := make(map[string]string, len(c.Legs))
	for _, p := range c.Legs {
		out[p.Key] = p.Path
	}
	return out
}

// Validate checks the settings that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera: fov %.1f out of range", c.Camera.FovY)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera: invalid clip range %.3f..%.3f", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.DampingFactor < 0 || c.Camera.DampingFactor > 1 {
		return fmt.Errorf("camera: damping factor %.2f out of range", c.Camera.DampingFactor)
	}
	if _, err := ParseColor(c.Scene.Background); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	seen := map[string]bool{c.Catalog.Base.Key: true}
	if c.Catalog.Base.Key == "" || c.Catalog.Base.Path == "" {
		return fmt.Errorf("catalog: base model needs a key and a path")
	}
	for _, p := range c.Catalog.Legs {
		if p.Key == "" || p.Path == "" {
			return fmt.Errorf("catalog: legs entry needs a key and a path")
		}
		if seen[p.Key] {
			return fmt.Errorf("catalog: duplicate key %q", p.Key)
		}
		seen[p.Key] = true
	}
	if c.Catalog.DefaultLegs != "" && !seen[c.Catalog.DefaultLegs] {
		return fmt.Errorf("catalog: default legs %q not in catalog", c.Catalog.DefaultLegs)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio: volume %.2f out of range", c.Audio.Volume)
	}
	if c.Catalog.TextureRepeat <= 0 {
		return fmt.Errorf("catalog: texture repeat must be positive")
	}
	return nil
}

// ParseColor parses "#rrggbb" (or "rrggbb") into RGB components in [0, 1].
func ParseColor(s string) ([3]float32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return [3]float32{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return [3]float32{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
