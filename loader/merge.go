package loader

import "gopkg.in/yaml.v3"

// Merge combines two node trees into a new one. Mappings are merged key-wise,
// sequences are appended and any other value of overlay replaces base.
// Neither input is modified.
func Merge(base, overlay *yaml.Node) *yaml.Node {
	base, overlay = deref(base), deref(overlay)
	switch {
	case base == nil:
		return cloneNode(overlay)
	case overlay == nil:
		return cloneNode(base)
	case base.Kind == yaml.MappingNode && overlay.Kind == yaml.MappingNode:
		out := cloneNode(base)
		for i := 0; i+1 < len(overlay.Content); i += 2 {
			key, value := overlay.Content[i], overlay.Content[i+1]
			if j := lookup(out, key.Value); j >= 0 {
				out.Content[j] = Merge(out.Content[j], value)
				continue
			}
			out.Content = append(out.Content, cloneNode(key), cloneNode(value))
		}
		return out
	case base.Kind == yaml.SequenceNode && overlay.Kind == yaml.SequenceNode:
		out := cloneNode(base)
		for _, item := range overlay.Content {
			out.Content = append(out.Content, cloneNode(item))
		}
		return out
	default:
		return cloneNode(overlay)
	}
}

// lookup returns the index of the value stored under key or -1.
func lookup(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i + 1
		}
	}
	return -1
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	clone := *n
	if len(n.Content) > 0 {
		clone.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			clone.Content[i] = cloneNode(child)
		}
	}
	if n.Alias != nil {
		clone.Alias = cloneNode(n.Alias)
	}
	return &clone
}
