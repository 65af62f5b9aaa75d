package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// WrapMode controls how texture coordinates outside [0, 1] are sampled.
type WrapMode uint8

const (
	WrapClamp WrapMode = iota
	WrapRepeat
	WrapMirror
)

// Texture is a decoded 2D image with its sampling parameters.
// Textures are created per request and never pooled.
type Texture struct {
	Source string
	Image  *image.RGBA
	WrapS  WrapMode
	WrapT  WrapMode
	Repeat mgl32.Vec2
}

// NewTexture wraps img with clamp sampling and no tiling.
func NewTexture(source string, img *image.RGBA) *Texture {
	return &Texture{
		Source: source,
		Image:  img,
		Repeat: mgl32.Vec2{1, 1},
	}
}

// SetTiling switches both axes to repeat and tiles u by v times.
func (t *Texture) SetTiling(u, v float32) {
	t.WrapS = WrapRepeat
	t.WrapT = WrapRepeat
	t.Repeat = mgl32.Vec2{u, v}
}

// Material describes a surface. Name is the author-assigned role tag used to
// patch materials selectively.
type Material struct {
	Name        string
	BaseColor   mgl32.Vec4
	Map         *Texture
	DoubleSided bool

	// NeedsUpdate is set whenever the texture slot changes; the renderer
	// rebinds and clears it before the next draw.
	NeedsUpdate bool
}

// NewMaterial returns an untextured white material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		BaseColor: mgl32.Vec4{1, 1, 1, 1},
	}
}

// SetMap replaces the texture slot and flags the material for re-binding.
func (m *Material) SetMap(t *Texture) {
	m.Map = t
	m.NeedsUpdate = true
}

// Clone returns a copy whose fields can be changed without touching m.
// The texture is shared, so the renderer uploads it once for every clone.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Materials holds either one material or an ordered sequence of them.
// Use All to get the normalized slice.
type Materials struct {
	single *Material
	multi  []*Material
	many   bool
}

// One holds a single material shared by every group of a mesh.
func One(m *Material) Materials {
	return Materials{single: m}
}

// Many holds one material per mesh group, indexed by Group.MaterialIdx.
func Many(ms ...*Material) Materials {
	return Materials{multi: ms, many: true}
}

// IsMany reports whether the holder carries a sequence.
func (m Materials) IsMany() bool { return m.many }

// Len returns the number of materials held.
func (m Materials) Len() int {
	if m.many {
		return len(m.multi)
	}
	if m.single != nil {
		return 1
	}
	return 0
}

// All returns the held materials as a slice. The slice is a copy; the
// materials are not.
func (m Materials) All() []*Material {
	if m.many {
		out := make([]*Material, len(m.multi))
		copy(out, m.multi)
		return out
	}
	if m.single != nil {
		return []*Material{m.single}
	}
	return nil
}

// At returns the material for mesh group material index i. A single
// material answers for every index; out-of-range indices return nil.
func (m Materials) At(i int) *Material {
	if !m.many {
		return m.single
	}
	if i < 0 || i >= len(m.multi) {
		return nil
	}
	return m.multi[i]
}

func (m Materials) clone() Materials {
	if !m.many {
		if m.single == nil {
			return Materials{}
		}
		return One(m.single.Clone())
	}
	ms := make([]*Material, len(m.multi))
	for i, mat := range m.multi {
		if mat != nil {
			ms[i] = mat.Clone()
		}
	}
	return Many(ms...)
}
