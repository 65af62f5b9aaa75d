package configurator

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/assets"
	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// TextureSource decodes an image path into a new, tiled texture.
type TextureSource interface {
	LoadTexture(ctx context.Context, path string) (*scene.Texture, error)
}

// ApplyTexture loads path and, once decoded, sets it as the map of every
// material named name under root. A failed load leaves root untouched.
func ApplyTexture(st *State, root *scene.Node, path, name string) {
	loadTexture(st, path, func(tex *scene.Texture) {
		patch(st, root, tex, path, name)
	})
}

// ChangeTexture resolves id through the catalog and applies the texture to
// the upholstery material of whichever base model is attached when the
// image finishes loading. Without a base model the texture is dropped.
func ChangeTexture(st *State, id string) {
	path := st.Catalog.TexturePath(id)
	loadTexture(st, path, func(tex *scene.Texture) {
		base := st.Graph.Base()
		if base == nil {
			logger.Debug("no base model for texture", zap.String("path", path))
			return
		}
		patch(st, base, tex, path, st.Catalog.TextureMaterial)
	})
}

func loadTexture(st *State, path string, done func(*scene.Texture)) {
	if st.Textures == nil {
		logger.Warn("no texture source configured", zap.String("path", path))
		return
	}
	logger.Debug("loading texture", zap.String("path", path))

	assets.Submit(st.Queue,
		func(ctx context.Context) (*scene.Texture, error) {
			return st.Textures.LoadTexture(ctx, path)
		},
		func(tex *scene.Texture, err error) {
			if err != nil {
				logger.Warn("texture load failed", zap.String("path", path), zap.Error(err))
				st.emitFailure(path, err)
				return
			}
			done(tex)
		},
	)
}

func patch(st *State, root *scene.Node, tex *scene.Texture, path, name string) {
	n := scene.ApplyTexture(root, tex, name)
	logger.Info("texture applied",
		zap.String("path", path),
		zap.String("material", name),
		zap.Int("patched", n),
	)
	st.emit(Event{Kind: EventTextureApplied, Key: path, Count: n})
}
