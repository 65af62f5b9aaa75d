// Package configurator composes the product scene: one base model, one
// swappable set of legs, a patchable upholstery material and the camera
// presets. Every function here runs on the loop goroutine.
package configurator

import (
	"sort"

	"github.com/Faultbox/sofa-configurator/internal/assets"
	"github.com/Faultbox/sofa-configurator/internal/config"
	"github.com/Faultbox/sofa-configurator/internal/engine/camera"
	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
)

// Catalog lists the parts and textures the configurator can load.
type Catalog struct {
	BaseKey         string
	BasePath        string
	Legs            map[string]string // key -> asset path
	DefaultLegs     string
	Textures        map[string]string // id -> image path
	TextureMaterial string
}

// CatalogFromConfig converts the catalog config section.
func CatalogFromConfig(c config.CatalogConfig) Catalog {
	textures := make(map[string]string, len(c.Textures))
	for id, path := range c.Textures {
		textures[id] = path
	}
	return Catalog{
		BaseKey:         c.Base.Key,
		BasePath:        c.Base.Path,
		Legs:            c.LegsPaths(),
		DefaultLegs:     c.DefaultLegs,
		Textures:        textures,
		TextureMaterial: c.TextureMaterial,
	}
}

// LegsKeys returns the catalogued legs keys in sorted order.
func (c Catalog) LegsKeys() []string {
	keys := make([]string, 0, len(c.Legs))
	for k := range c.Legs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TexturePath resolves a texture identifier. Identifiers missing from the
// catalog are used as paths.
func (c Catalog) TexturePath(id string) string {
	if p, ok := c.Textures[id]; ok {
		return p
	}
	return id
}

// State is the configurator's mutable state. It is not safe for
// concurrent use; all access happens on the goroutine that pumps Queue.
type State struct {
	Graph    *scene.Graph
	Cache    *assets.Cache
	Queue    *assets.Queue
	Camera   *camera.Camera
	Catalog  Catalog
	Textures TextureSource
	Notifier Notifier

	legsKey  string // key of the legs currently shown
	wantLegs string // most recently requested legs key
}

// NewState creates a state with an empty graph and a cache loading
// through source on queue.
func NewState(queue *assets.Queue, source assets.Source, textures TextureSource, cam *camera.Camera, cat Catalog) *State {
	return &State{
		Graph:    scene.NewGraph(),
		Cache:    assets.NewCache(source, queue),
		Queue:    queue,
		Camera:   cam,
		Catalog:  cat,
		Textures: textures,
	}
}

// LegsKey returns the key of the legs currently shown, empty if none.
func (st *State) LegsKey() string { return st.legsKey }
