package configurator

import (
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/assets"
	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// SetBase attaches node as the base model, replacing the previous one.
// Cache templates are refused with scene.ErrTemplateNode.
func SetBase(st *State, node *scene.Node) error {
	return st.Graph.SetBase(node)
}

// ShowLegs replaces the current legs with a fresh clone of the template
// cached under key. It returns false, leaving the scene untouched, when key
// is not cached.
func ShowLegs(st *State, key string) bool {
	tpl, ok := st.Cache.Get(key)
	if !ok {
		logger.Debug("legs not cached", zap.String("key", key))
		return false
	}

	clone := tpl.Clone()
	if _, err := st.Graph.SetLegs(clone); err != nil {
		logger.Error("attaching legs", zap.String("key", key), zap.Error(err))
		return false
	}
	st.legsKey = key
	st.wantLegs = key

	logger.Info("legs shown", zap.String("key", key))
	st.emit(Event{Kind: EventLegsShown, Key: key})
	return true
}

// ChangeLegs shows the legs stored under key, loading them first when they
// are catalogued but not cached yet. If another ChangeLegs call is made
// before the load completes, the later request wins and the earlier one
// only leaves its template in the cache.
func ChangeLegs(st *State, key string) {
	if _, ok := st.Cache.Get(key); ok {
		ShowLegs(st, key)
		return
	}
	path, ok := st.Catalog.Legs[key]
	if !ok {
		logger.Warn("unknown legs key", zap.String("key", key))
		return
	}

	st.wantLegs = key
	st.Cache.Load(key, path, func(res assets.LoadResult) {
		if !res.Loaded() {
			st.emitFailure(key, res.Err)
			return
		}
		if st.wantLegs != key {
			logger.Debug("legs request superseded",
				zap.String("key", key),
				zap.String("latest", st.wantLegs),
			)
			return
		}
		ShowLegs(st, key)
	})
}

// LoadBase loads the catalogued base model and attaches a clone of it.
func LoadBase(st *State) {
	key := st.Catalog.BaseKey
	st.Cache.Load(key, st.Catalog.BasePath, func(res assets.LoadResult) {
		if !res.Loaded() {
			st.emitFailure(key, res.Err)
			return
		}
		if err := SetBase(st, res.Node.Clone()); err != nil {
			logger.Error("attaching base", zap.String("key", key), zap.Error(err))
			return
		}
		logger.Info("base shown", zap.String("key", key))
		st.emit(Event{Kind: EventBaseShown, Key: key})
	})
}

// Preload starts loading every catalogued legs key that is neither cached
// nor in flight, in key order.
func Preload(st *State) {
	for _, key := range st.Catalog.LegsKeys() {
		if _, ok := st.Cache.Get(key); ok || st.Cache.Loading(key) {
			continue
		}
		key := key
		st.Cache.Load(key, st.Catalog.Legs[key], func(res assets.LoadResult) {
			if !res.Loaded() {
				st.emitFailure(key, res.Err)
			}
		})
	}
}

// Start loads the base model, shows the default legs once loaded and
// preloads the remaining legs.
func Start(st *State) {
	LoadBase(st)
	if st.Catalog.DefaultLegs != "" {
		ChangeLegs(st, st.Catalog.DefaultLegs)
	}
	Preload(st)
}
