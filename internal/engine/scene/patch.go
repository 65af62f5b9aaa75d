package scene

// ApplyTexture walks the subtree under root and sets tex as the color map of
// every material whose name tag equals name exactly. Other materials, even on
// the same node, are left untouched. Returns the number of materials patched;
// zero is a valid outcome, not an error.
func ApplyTexture(root *Node, tex *Texture, name string) int {
	if root == nil || tex == nil {
		return 0
	}
	patched := 0
	root.Walk(func(n *Node) bool {
		if !n.IsDrawable() {
			return true
		}
		for _, m := range n.materials.All() {
			if m != nil && m.Name == name {
				m.SetMap(tex)
				patched++
			}
		}
		return true
	})
	return patched
}

// CollectMaterials returns every material in the subtree in walk order.
// Materials shared by several drawables appear once per drawable.
func CollectMaterials(root *Node) []*Material {
	if root == nil {
		return nil
	}
	var out []*Material
	root.Walk(func(n *Node) bool {
		if n.IsDrawable() {
			out = append(out, n.materials.All()...)
		}
		return true
	})
	return out
}
