package assets

import (
	"context"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/sofa-configurator/internal/engine/model"
	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
)

// GLTFSource loads .glb and .gltf files relative to Root.
type GLTFSource struct {
	Root string
}

// LoadAsset opens path and converts its default scene to a node hierarchy.
func (s GLTFSource) LoadAsset(ctx context.Context, path string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := path
	if s.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(s.Root, path)
	}

	doc, err := gltf.Open(full)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", full)
	}
	root, err := BuildScene(doc, filepath.Base(path))
	if err != nil {
		return nil, errors.Wrapf(err, "importing %s", full)
	}
	return root, nil
}

// BuildScene converts the document's default scene (or its first scene, or
// every parentless node when it has none) into a group named name.
func BuildScene(doc *gltf.Document, name string) (*scene.Node, error) {
	b := &docBuilder{
		doc:       doc,
		meshes:    make(map[uint32]*model.Mesh),
		materials: make(map[uint32]*scene.Material),
		visiting:  make(map[uint32]bool),
	}

	root := scene.NewGroup(name)
	for _, idx := range sceneRoots(doc) {
		n, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(n)
	}
	return root, nil
}

func sceneRoots(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	isChild := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !isChild[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

type docBuilder struct {
	doc       *gltf.Document
	meshes    map[uint32]*model.Mesh
	materials map[uint32]*scene.Material
	visiting  map[uint32]bool
}

func (b *docBuilder) node(idx uint32) (*scene.Node, error) {
	if int(idx) >= len(b.doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range", idx)
	}
	if b.visiting[idx] {
		return nil, errors.Errorf("node %d is its own ancestor", idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := b.doc.Nodes[idx]

	var n *scene.Node
	if src.Mesh != nil {
		mesh, mats, err := b.mesh(*src.Mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", src.Name)
		}
		n = scene.NewDrawable(src.Name, mesh, mats)
	} else {
		n = scene.NewGroup(src.Name)
	}
	n.Transform = nodeTransform(src)

	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// mesh merges every primitive of mesh idx into one model.Mesh with a group per
// primitive. One primitive yields a single material, several yield a sequence.
func (b *docBuilder) mesh(idx uint32) (*model.Mesh, scene.Materials, error) {
	if int(idx) >= len(b.doc.Meshes) {
		return nil, scene.Materials{}, errors.Errorf("mesh index %d out of range", idx)
	}
	src := b.doc.Meshes[idx]

	mesh, cached := b.meshes[idx]
	if !cached {
		mesh = &model.Mesh{Name: src.Name}
	}

	mats := make([]*scene.Material, 0, len(src.Primitives))
	for i, prim := range src.Primitives {
		if !cached {
			p, err := b.primitive(prim)
			if err != nil {
				return nil, scene.Materials{}, errors.Wrapf(err, "mesh %q primitive %d", src.Name, i)
			}
			if err := mesh.Append(p, i); err != nil {
				return nil, scene.Materials{}, errors.Wrapf(err, "mesh %q primitive %d", src.Name, i)
			}
		}
		mats = append(mats, b.material(prim.Material))
	}
	b.meshes[idx] = mesh

	if len(mats) == 1 {
		return mesh, scene.One(mats[0]), nil
	}
	return mesh, scene.Many(mats...), nil
}

func (b *docBuilder) primitive(prim *gltf.Primitive) (model.Primitive, error) {
	var p model.Primitive

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return p, errors.New("missing POSITION attribute")
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return p, err
	}
	if p.Positions, err = modeler.ReadPosition(b.doc, acr, nil); err != nil {
		return p, errors.Wrap(err, "reading positions")
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if acr, err = b.accessor(idx); err != nil {
			return p, err
		}
		if p.Normals, err = modeler.ReadNormal(b.doc, acr, nil); err != nil {
			return p, errors.Wrap(err, "reading normals")
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if acr, err = b.accessor(idx); err != nil {
			return p, err
		}
		if p.TexCoords, err = modeler.ReadTextureCoord(b.doc, acr, nil); err != nil {
			return p, errors.Wrap(err, "reading texture coordinates")
		}
	}

	if prim.Indices != nil {
		if acr, err = b.accessor(*prim.Indices); err != nil {
			return p, err
		}
		if p.Indices, err = modeler.ReadIndices(b.doc, acr, nil); err != nil {
			return p, errors.Wrap(err, "reading indices")
		}
	}
	return p, nil
}

func (b *docBuilder) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(b.doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

// material returns the scene material for a glTF material index. Primitives
// without a material get an unnamed white one.
func (b *docBuilder) material(idx *uint32) *scene.Material {
	if idx == nil || int(*idx) >= len(b.doc.Materials) {
		return scene.NewMaterial("")
	}
	if m, ok := b.materials[*idx]; ok {
		return m
	}
	src := b.doc.Materials[*idx]
	m := scene.NewMaterial(src.Name)
	m.DoubleSided = src.DoubleSided
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		m.BaseColor = mgl32.Vec4(*pbr.BaseColorFactor)
	}
	b.materials[*idx] = m
	return m
}

func nodeTransform(n *gltf.Node) scene.Transform {
	t := scene.IdentityTransform()

	m := mgl32.Mat4(n.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		col0, col1, col2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
		t.Translation = m.Col(3).Vec3()
		t.Scale = mgl32.Vec3{col0.Len(), col1.Len(), col2.Len()}
		if t.Scale.X() != 0 && t.Scale.Y() != 0 && t.Scale.Z() != 0 {
			rot := mgl32.Mat3FromCols(col0.Mul(1/t.Scale.X()), col1.Mul(1/t.Scale.Y()), col2.Mul(1/t.Scale.Z()))
			t.Rotation = mgl32.Mat4ToQuat(rot.Mat4())
		}
		return t
	}

	t.Translation = mgl32.Vec3(n.Translation)
	if n.Rotation != ([4]float32{}) {
		t.Rotation = mgl32.Quat{W: n.Rotation[3], V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}}
	}
	if n.Scale != ([3]float32{}) {
		t.Scale = mgl32.Vec3(n.Scale)
	}
	return t
}
