package decode

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/validation"
)

// Document holds the top level sections of a configuration tree.
type Document struct {
	General  *yaml.Node
	ECUs     []*yaml.Node
	Topology *yaml.Node
	Metadata *yaml.Node
}

// Root splits the configuration tree into its sections. Only the structure
// of the root mapping is checked here.
func Root(n *yaml.Node, c *validation.Collector) Document {
	var doc Document
	o, ok := asObject(n, c)
	if !ok {
		return doc
	}
	defer o.done()
	if gn, _, ok := o.optional("general"); ok {
		doc.General = gn
	}
	o.each("ecus", true, func(n *yaml.Node, _ *validation.Collector) {
		doc.ECUs = append(doc.ECUs, n)
	})
	if tn, _, ok := o.required("topology"); ok {
		doc.Topology = tn
	}
	if mn, _, ok := o.required("metadata"); ok {
		doc.Metadata = mn
	}
	return doc
}
