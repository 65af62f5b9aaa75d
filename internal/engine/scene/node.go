// Package scene provides the scene graph used by the configurator: group and
// drawable nodes, materials with named roles, textures, and the root graph
// with its base-model and legs slots.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/Faultbox/sofa-configurator/internal/engine/model"
)

// Kind tells whether a node only groups children or also draws geometry.
type Kind uint8

const (
	KindGroup Kind = iota
	KindDrawable
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDrawable:
		return "drawable"
	default:
		return "unknown"
	}
}

// Transform is a node's local translation, rotation and scale.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a transform that leaves geometry unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.Elem()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.Elem()))
}

// Node is a scene graph node. Every node has a unique identity; clones get
// a new one.
type Node struct {
	Name      string
	Transform Transform
	Visible   bool

	id        uuid.UUID
	kind      Kind
	mesh      *model.Mesh
	materials Materials
	parent    *Node
	children  []*Node
	template  bool
}

// NewGroup creates an empty group node.
func NewGroup(name string) *Node {
	return &Node{
		Name:      name,
		Transform: IdentityTransform(),
		Visible:   true,
		id:        uuid.New(),
		kind:      KindGroup,
	}
}

// NewDrawable creates a node that draws mesh with the given materials.
// Group i of the mesh is drawn with materials.At(i's MaterialIdx).
func NewDrawable(name string, mesh *model.Mesh, materials Materials) *Node {
	n := NewGroup(name)
	n.kind = KindDrawable
	n.mesh = mesh
	n.materials = materials
	return n
}

// ID returns the node identity.
func (n *Node) ID() uuid.UUID { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// IsDrawable reports whether the node carries geometry.
func (n *Node) IsDrawable() bool { return n.kind == KindDrawable }

// Mesh returns the shared geometry of a drawable, nil for groups.
func (n *Node) Mesh() *model.Mesh { return n.mesh }

// Materials returns the material holder of a drawable.
func (n *Node) Materials() Materials { return n.materials }

// SetMaterials replaces the material holder. No-op on groups.
func (n *Node) SetMaterials(m Materials) {
	if n.kind == KindDrawable {
		n.materials = m
	}
}

// Parent returns the parent node, nil for roots and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// AddChild attaches child under n, detaching it from any previous parent
// first so a node is never linked twice.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from n. Returns false if child was not a
// direct child of n.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			child.parent = nil
			return true
		}
	}
	return false
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// WorldMatrix returns the node's transform composed with all its ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// MarkTemplate flags n as a cache template. Templates are clone sources only
// and the Graph refuses to attach them.
func (n *Node) MarkTemplate() { n.template = true }

// IsTemplate reports whether n is a cache template.
func (n *Node) IsTemplate() bool { return n.template }

// Clone returns a deep copy of the subtree rooted at n. Nodes, transforms and
// materials are copied; meshes and textures are immutable and shared. The
// clone is detached and is never a template.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:      n.Name,
		Transform: n.Transform,
		Visible:   n.Visible,
		id:        uuid.New(),
		kind:      n.kind,
		mesh:      n.mesh,
		materials: n.materials.clone(),
	}
	for _, child := range n.children {
		c.AddChild(child.Clone())
	}
	return c
}
