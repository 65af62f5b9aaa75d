package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Camera.FovY != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Camera.FovY)
	}
	if cfg.Camera.Position != [3]float32{2, 2, 5} {
		t.Errorf("expected camera at (2, 2, 5), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.DampingFactor != 0.1 {
		t.Errorf("expected damping factor 0.1, got %f", cfg.Camera.DampingFactor)
	}

	if cfg.Catalog.TextureMaterial != "material-soporte" {
		t.Errorf("expected texture material 'material-soporte', got %s", cfg.Catalog.TextureMaterial)
	}
	if cfg.Catalog.TextureRepeat != 4 {
		t.Errorf("expected texture repeat 4, got %f", cfg.Catalog.TextureRepeat)
	}
	if cfg.Catalog.DefaultLegs != "patas-cilindro" {
		t.Errorf("expected default legs 'patas-cilindro', got %s", cfg.Catalog.DefaultLegs)
	}
	if len(cfg.Catalog.Legs) != 2 {
		t.Errorf("expected 2 legs entries, got %d", len(cfg.Catalog.Legs))
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "configurator.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

scene:
  background: "#202020"

camera:
  fov: 60
  damping_factor: 0.25

catalog:
  asset_dir: /srv/assets
  base:
    key: base-chaise
    path: modelos/base-chaise.glb
  legs:
    - key: patas-metal
      path: modelos/patas-metal.glb
  default_legs: patas-metal
  textures:
    lino: texturas/lino.jpg
  texture_repeat: 2

control:
  listen: ":9000"

logging:
  level: "debug"
  log_file: "configurator.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}
	if cfg.Scene.Background != "#202020" {
		t.Errorf("expected background #202020, got %s", cfg.Scene.Background)
	}
	if cfg.Camera.FovY != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FovY)
	}
	// Unset keys keep their defaults.
	if cfg.Camera.Far != 1000 {
		t.Errorf("expected far 1000 from defaults, got %f", cfg.Camera.Far)
	}
	if cfg.Catalog.AssetDir != "/srv/assets" {
		t.Errorf("expected asset dir /srv/assets, got %s", cfg.Catalog.AssetDir)
	}
	if cfg.Catalog.Base.Key != "base-chaise" {
		t.Errorf("expected base key base-chaise, got %s", cfg.Catalog.Base.Key)
	}
	if len(cfg.Catalog.Legs) != 1 || cfg.Catalog.Legs[0].Key != "patas-metal" {
		t.Errorf("expected legs list replaced by file, got %+v", cfg.Catalog.Legs)
	}
	if cfg.Catalog.Textures["lino"] != "texturas/lino.jpg" {
		t.Errorf("expected texture lino, got %v", cfg.Catalog.Textures)
	}
	if cfg.Control.Listen != ":9000" {
		t.Errorf("expected listen :9000, got %s", cfg.Control.Listen)
	}
	if cfg.Logging.LogFile != "configurator.log" {
		t.Errorf("expected log file 'configurator.log', got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics"},
		{"fov too wide", func(c *Config) { c.Camera.FovY = 180 }, "fov"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "clip range"},
		{"bad damping", func(c *Config) { c.Camera.DampingFactor = 1.5 }, "damping"},
		{"bad background", func(c *Config) { c.Scene.Background = "grey" }, "color"},
		{"missing base path", func(c *Config) { c.Catalog.Base.Path = "" }, "base model"},
		{"duplicate legs", func(c *Config) {
			c.Catalog.Legs = append(c.Catalog.Legs, PartConfig{Key: "patas-cilindro", Path: "x.glb"})
		}, "duplicate"},
		{"legs key equals base key", func(c *Config) {
			c.Catalog.Legs = append(c.Catalog.Legs, PartConfig{Key: c.Catalog.Base.Key, Path: "x.glb"})
		}, "duplicate"},
		{"unknown default legs", func(c *Config) { c.Catalog.DefaultLegs = "patas-madera" }, "default legs"},
		{"zero repeat", func(c *Config) { c.Catalog.TextureRepeat = 0 }, "repeat"},
		{"loud volume", func(c *Config) { c.Audio.Volume = 1.5 }, "volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	rgb, err := ParseColor("#aaaaaa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := float32(0xaa) / 255
	if rgb != [3]float32{want, want, want} {
		t.Errorf("expected gray %f, got %v", want, rgb)
	}

	rgb, err = ParseColor("ff0080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rgb[0] != 1 || rgb[1] != 0 || rgb[2] != float32(0x80)/255 {
		t.Errorf("unexpected components %v", rgb)
	}

	for _, bad := range []string{"", "#fff", "#gggggg", "#1234567"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestLegsPaths(t *testing.T) {
	cfg := Default()
	paths := cfg.Catalog.LegsPaths()
	if paths["patas-cuadrado"] != "modelos/patas-cuadrado.glb" {
		t.Errorf("unexpected legs paths %v", paths)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 1600
	cfg.Catalog.Textures["nogal"] = "texturas/nogal.png"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Graphics.Width != 1600 {
		t.Errorf("expected width 1600, got %d", loaded.Graphics.Width)
	}
	if loaded.Catalog.Textures["nogal"] != "texturas/nogal.png" {
		t.Errorf("expected saved texture entry, got %v", loaded.Catalog.Textures)
	}
}

func TestSaveIsFoundByLoad(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir is not under XDG_CONFIG_HOME on this OS")
	}
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	cfg := Default()
	cfg.Graphics.Height = 640
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	want := filepath.Join(tmpDir, "xdg", "sofa-configurator", "config.yaml")
	if got := UserConfigPath(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if path := findConfigFile(); path != want {
		t.Errorf("expected Load to pick up %s, got %q", want, path)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Graphics.Height != 640 {
		t.Errorf("expected height 640 from saved config, got %d", loaded.Graphics.Height)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "configurator.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find configurator.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "listen off",
			setup: func() { *flagListen = "off" },
			verify: func(cfg *Config) {
				if cfg.Control.Enabled {
					t.Error("expected control server disabled")
				}
			},
			teardown: func() { *flagListen = "" },
		},
		{
			name:  "listen address",
			setup: func() { *flagListen = "0.0.0.0:7000" },
			verify: func(cfg *Config) {
				if !cfg.Control.Enabled || cfg.Control.Listen != "0.0.0.0:7000" {
					t.Errorf("expected control on 0.0.0.0:7000, got %+v", cfg.Control)
				}
			},
			teardown: func() { *flagListen = "" },
		},
		{
			name:  "assets flag",
			setup: func() { *flagAssets = "/data/sofas" },
			verify: func(cfg *Config) {
				if cfg.Catalog.AssetDir != "/data/sofas" {
					t.Errorf("expected asset dir /data/sofas, got %s", cfg.Catalog.AssetDir)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("catalog:\n  default_legs: patas-oro\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject unknown default legs")
	}
}
