package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrTemplateNode is returned when a cache template is attached directly.
var ErrTemplateNode = errors.New("scene: template nodes are clone sources and cannot be attached")

// LightKind selects the lighting model of a Light.
type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
)

// Light is a scene light. Directional lights shine from Position toward the origin.
type Light struct {
	Kind      LightKind
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
}

// Graph is the root of the rendered scene. It owns at most one base model
// and at most one legs subtree, both direct children of Root.
type Graph struct {
	Root       *Node
	Background mgl32.Vec3
	Lights     []Light

	base *Node
	legs *Node
}

// NewGraph creates an empty graph with a gray background, an ambient light
// and one directional light.
func NewGraph() *Graph {
	gray := float32(0xaa) / 255
	return &Graph{
		Root:       NewGroup("scene"),
		Background: mgl32.Vec3{gray, gray, gray},
		Lights: []Light{
			{Kind: LightAmbient, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1.2},
			{Kind: LightDirectional, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1.5, Position: mgl32.Vec3{10, 20, 10}},
		},
	}
}

// Base returns the attached base model, nil if none.
func (g *Graph) Base() *Node { return g.base }

// Legs returns the attached legs subtree, nil if none.
func (g *Graph) Legs() *Node { return g.legs }

// SetBase attaches n as the base model, replacing any previous base.
// A nil n clears the slot.
func (g *Graph) SetBase(n *Node) error {
	return g.swap(&g.base, n)
}

// SetLegs attaches n as the current legs and returns the subtree it
// replaced. The previous subtree is only detached; whoever holds it may
// keep using it.
func (g *Graph) SetLegs(n *Node) (*Node, error) {
	prev := g.legs
	if err := g.swap(&g.legs, n); err != nil {
		return nil, err
	}
	if prev == n {
		return nil, nil
	}
	return prev, nil
}

func (g *Graph) swap(slot **Node, n *Node) error {
	if n != nil && n.IsTemplate() {
		return ErrTemplateNode
	}
	if *slot == n {
		return nil
	}
	if *slot != nil {
		g.Root.RemoveChild(*slot)
	}
	*slot = n
	if n != nil {
		g.Root.AddChild(n)
	}
	return nil
}

// Drawables returns every visible drawable in the graph with its world matrix.
func (g *Graph) Drawables() []DrawItem {
	var items []DrawItem
	var visit func(n *Node, parent mgl32.Mat4)
	visit = func(n *Node, parent mgl32.Mat4) {
		if !n.Visible {
			return
		}
		world := parent.Mul4(n.Transform.Matrix())
		if n.IsDrawable() && n.mesh != nil {
			items = append(items, DrawItem{Node: n, World: world})
		}
		for _, c := range n.children {
			visit(c, world)
		}
	}
	visit(g.Root, mgl32.Ident4())
	return items
}

// DrawItem pairs a drawable node with its world matrix.
type DrawItem struct {
	Node  *Node
	World mgl32.Mat4
}
