// Package model holds renderable mesh data shared between scene nodes.
package model

import "fmt"

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexStride is the size of one Vertex in bytes, as laid out for GPU upload.
const VertexStride = 8 * 4

// Group is a contiguous index range drawn with one material slot.
type Group struct {
	MaterialIdx int
	Start       int32
	Count       int32
}

// Mesh holds the complete mesh data ready for GPU upload.
// A Mesh is immutable once built and may be shared by any number of nodes.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Primitive is one indexed triangle list with its own material slot.
type Primitive struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Indices   []uint32 // nil means sequential
}

// Append adds a primitive to the mesh as a new group bound to materialIdx.
// Normals and texture coordinates are optional but must match the
// position count when present.
func (m *Mesh) Append(p Primitive, materialIdx int) error {
	n := len(p.Positions)
	if n == 0 {
		return fmt.Errorf("primitive has no positions")
	}
	if p.Normals != nil && len(p.Normals) != n {
		return fmt.Errorf("normal count %d does not match position count %d", len(p.Normals), n)
	}
	if p.TexCoords != nil && len(p.TexCoords) != n {
		return fmt.Errorf("texcoord count %d does not match position count %d", len(p.TexCoords), n)
	}

	base := uint32(len(m.Vertices))
	for i := 0; i < n; i++ {
		v := Vertex{Position: p.Positions[i]}
		if p.Normals != nil {
			v.Normal = p.Normals[i]
		}
		if p.TexCoords != nil {
			v.TexCoord = p.TexCoords[i]
		}
		m.Vertices = append(m.Vertices, v)
	}

	start := int32(len(m.Indices))
	if p.Indices == nil {
		for i := 0; i < n; i++ {
			m.Indices = append(m.Indices, base+uint32(i))
		}
	} else {
		for _, idx := range p.Indices {
			if int(idx) >= n {
				return fmt.Errorf("index %d out of range (%d vertices)", idx, n)
			}
			m.Indices = append(m.Indices, base+idx)
		}
	}

	m.Groups = append(m.Groups, Group{
		MaterialIdx: materialIdx,
		Start:       start,
		Count:       int32(len(m.Indices)) - start,
	})
	m.Bounds = ComputeBounds(m.Vertices)
	return nil
}

// ComputeBounds returns the bounding box of the given vertices.
// An empty slice yields zero bounds.
func ComputeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < b.Min[i] {
				b.Min[i] = v.Position[i]
			}
			if v.Position[i] > b.Max[i] {
				b.Max[i] = v.Position[i]
			}
		}
	}
	return b
}

// Center returns the center of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the box extent along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}
