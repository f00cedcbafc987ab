// Package decode turns a parsed configuration tree into model entities.
//
// Decoding is the pure construction phase: entities are built from data only
// and never reference each other. Every problem is recorded on the
// validation collector passed in; structural problems are fatal.
package decode

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/validation"
)

const (
	tagNull  = "!!null"
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
)

// resolve follows document wrappers and aliases.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	n = resolve(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull)
}

func invalidType(c *validation.Collector, expected string) {
	c.Add(validation.Fatal(validation.CodeInvalidType, "Input should be a valid {expected}", validation.Context{"expected": expected}))
}

func invalidLiteral(c *validation.Collector, value string, allowed []string) {
	c.Add(validation.Fatal(validation.CodeInvalidType, "Input should be {allowed}, got '{value}'", validation.Context{
		"allowed": quoteList(allowed),
		"value":   value,
	}))
}

// object wraps a mapping node and remembers which keys were consumed so the
// remaining ones can be reported as forbidden extras.
type object struct {
	node *yaml.Node
	col  *validation.Collector
	keys map[string]*yaml.Node
	used map[string]bool
}

// asObject returns the mapping at n.
func asObject(n *yaml.Node, c *validation.Collector) (*object, bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		invalidType(c, "dictionary")
		return nil, false
	}
	o := &object{node: n, col: c, keys: make(map[string]*yaml.Node, len(n.Content)/2), used: make(map[string]bool)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolve(n.Content[i])
		if k == nil || k.Kind != yaml.ScalarNode {
			invalidType(c, "string key")
			continue
		}
		if _, dup := o.keys[k.Value]; dup {
			c.Key(k.Value).Add(validation.Fatal(validation.CodeFatal, "Duplicate key {key}", validation.Context{"key": k.Value}))
			continue
		}
		o.keys[k.Value] = n.Content[i+1]
	}
	return o, true
}

// optional returns the value of key. Null values count as absent.
func (o *object) optional(key string) (*yaml.Node, *validation.Collector, bool) {
	o.used[key] = true
	v, ok := o.keys[key]
	if !ok || isNull(v) {
		return nil, o.col.Key(key), false
	}
	return resolve(v), o.col.Key(key), true
}

// required is like optional but records a missing finding when absent.
func (o *object) required(key string) (*yaml.Node, *validation.Collector, bool) {
	v, c, ok := o.optional(key)
	if !ok {
		c.Add(validation.Missing())
	}
	return v, c, ok
}

// done reports every key that was never consumed.
func (o *object) done() {
	var extra []string
	for key := range o.keys {
		if !o.used[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		o.col.Key(key).Add(validation.ExtraForbidden())
	}
}

func (o *object) consumeAll() {
	for key := range o.keys {
		o.used[key] = true
	}
}

func (o *object) str(key string, required bool, def string) string {
	n, c, ok := o.lookup(key, required)
	if !ok {
		return def
	}
	v, _ := scalarString(n, c)
	return v
}

func (o *object) integer(key string, required bool, def int) int {
	n, c, ok := o.lookup(key, required)
	if !ok {
		return def
	}
	v, ok := scalarInt(n, c)
	if !ok {
		return def
	}
	return v
}

// optInt returns nil when key is absent.
func (o *object) optInt(key string) *int {
	n, c, ok := o.optional(key)
	if !ok {
		return nil
	}
	v, ok := scalarInt(n, c)
	if !ok {
		return nil
	}
	return &v
}

func (o *object) optStr(key string) *string {
	n, c, ok := o.optional(key)
	if !ok {
		return nil
	}
	v, ok := scalarString(n, c)
	if !ok {
		return nil
	}
	return &v
}

func (o *object) boolean(key string, required bool, def bool) bool {
	n, c, ok := o.lookup(key, required)
	if !ok {
		return def
	}
	v, ok := scalarBool(n, c)
	if !ok {
		return def
	}
	return v
}

func (o *object) number(key string, required bool) (decimal.Decimal, bool) {
	n, c, ok := o.lookup(key, required)
	if !ok {
		return decimal.Zero, false
	}
	return scalarDecimal(n, c)
}

// literal reads a string restricted to allowed values.
func (o *object) literal(key string, required bool, def string, allowed ...string) string {
	n, c, ok := o.lookup(key, required)
	if !ok {
		return def
	}
	v, ok := scalarString(n, c)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	invalidLiteral(c, v, allowed)
	return def
}

func (o *object) ints(key string) []int {
	var out []int
	o.each(key, false, func(n *yaml.Node, c *validation.Collector) {
		if v, ok := scalarInt(n, c); ok {
			out = append(out, v)
		}
	})
	return out
}

// each calls fn for every item of the sequence under key.
func (o *object) each(key string, required bool, fn func(n *yaml.Node, c *validation.Collector)) int {
	n, c, ok := o.lookup(key, required)
	if !ok {
		return 0
	}
	return sequence(n, c, fn)
}

func (o *object) lookup(key string, required bool) (*yaml.Node, *validation.Collector, bool) {
	if required {
		return o.required(key)
	}
	return o.optional(key)
}

func sequence(n *yaml.Node, c *validation.Collector, fn func(n *yaml.Node, c *validation.Collector)) int {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		invalidType(c, "list")
		return 0
	}
	for i, item := range n.Content {
		fn(resolve(item), c.Index(i))
	}
	return len(n.Content)
}

func scalar(n *yaml.Node, c *validation.Collector, expected string, tags ...string) (*yaml.Node, bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		invalidType(c, expected)
		return nil, false
	}
	tag := n.ShortTag()
	for _, t := range tags {
		if tag == t {
			return n, true
		}
	}
	invalidType(c, expected)
	return nil, false
}

func scalarString(n *yaml.Node, c *validation.Collector) (string, bool) {
	s, ok := scalar(n, c, "string", tagStr)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func scalarInt(n *yaml.Node, c *validation.Collector) (int, bool) {
	s, ok := scalar(n, c, "integer", tagInt)
	if !ok {
		return 0, false
	}
	var v int
	if err := s.Decode(&v); err != nil {
		invalidType(c, "integer")
		return 0, false
	}
	return v, true
}

func scalarBool(n *yaml.Node, c *validation.Collector) (bool, bool) {
	s, ok := scalar(n, c, "boolean", tagBool)
	if !ok {
		return false, false
	}
	var v bool
	if err := s.Decode(&v); err != nil {
		invalidType(c, "boolean")
		return false, false
	}
	return v, true
}

func scalarDecimal(n *yaml.Node, c *validation.Collector) (decimal.Decimal, bool) {
	s, ok := scalar(n, c, "number", tagInt, tagFloat)
	if !ok {
		return decimal.Zero, false
	}
	text := strings.ReplaceAll(s.Value, "_", "")
	if s.ShortTag() == tagInt {
		// 0x, 0o and 0b literals are integers as well.
		b, ok := new(big.Int).SetString(text, 0)
		if !ok {
			invalidType(c, "number")
			return decimal.Zero, false
		}
		return decimal.NewFromBigInt(b, 0), true
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		invalidType(c, "number")
		return decimal.Zero, false
	}
	return v, true
}

// tag reads the discriminator of a tagged variant. When no variant can be
// selected the sibling keys are consumed without further findings.
func tag(o *object, key string, allowed ...string) (string, bool) {
	n, c, ok := o.required(key)
	if !ok {
		o.consumeAll()
		return "", false
	}
	v, ok := scalarString(n, c)
	if !ok {
		o.consumeAll()
		return "", false
	}
	for _, a := range allowed {
		if v == a {
			return v, true
		}
	}
	o.consumeAll()
	c.Add(validation.Fatal(validation.CodeUnknownTag,
		"Input tag '{tag}' found using '{key}' does not match any of the expected tags: {expected}",
		validation.Context{"tag": v, "key": key, "expected": quoteList(allowed)}))
	return "", false
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("'%s'", v)
	}
	return strings.Join(quoted, ", ")
}
