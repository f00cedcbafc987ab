package decode

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

var (
	integerTypes = []string{
		string(model.TypeUInt8), string(model.TypeUInt16), string(model.TypeUInt32), string(model.TypeUInt64),
		string(model.TypeSInt8), string(model.TypeSInt16), string(model.TypeSInt32), string(model.TypeSInt64),
	}
	datatypeTags = append(append([]string{}, integerTypes...),
		string(model.TypeBoolean), string(model.TypeFloat32), string(model.TypeFloat64),
		string(model.TypeEnum), string(model.TypeStruct), string(model.TypeUnion))
	alignments   = []int{8, 16, 32, 64, 128, 256}
	lengthFields = []int{0, 8, 16, 32}
	endiannesses = []string{"BE", "LE"}
)

// General decodes the general configuration block.
func General(n *yaml.Node, c *validation.Collector) model.General {
	var g model.General
	o, ok := asObject(n, c)
	if !ok {
		return g
	}
	defer o.done()
	o.each("datatypes", false, func(n *yaml.Node, c *validation.Collector) {
		if dt := Datatype(n, c); dt != nil {
			g.Datatypes = append(g.Datatypes, dt)
		}
	})
	return g
}

// Datatype decodes a datatype definition selected by its type tag.
func Datatype(n *yaml.Node, c *validation.Collector) model.Datatype {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	typ, ok := tag(o, "type", datatypeTags...)
	if !ok {
		return nil
	}
	name := o.str("name", true, "")
	description := o.str("description", false, "")
	endianness := o.literal("endianness", false, "BE", endiannesses...)

	switch model.DatatypeType(typ) {
	case model.TypeEnum:
		e := &model.Enum{
			Name:        name,
			Description: description,
			Endianness:  endianness,
			BaseType:    model.DatatypeType(o.literal("base_type", false, string(model.TypeUInt8), integerTypes...)),
		}
		o.each("entries", false, func(n *yaml.Node, c *validation.Collector) {
			eo, ok := asObject(n, c)
			if !ok {
				return
			}
			defer eo.done()
			entry := model.EnumEntry{Name: eo.str("name", true, ""), Description: eo.str("description", false, "")}
			vn, vc, ok := eo.required("value")
			if !ok {
				return
			}
			v, ok := scalar(vn, vc, "integer", tagInt)
			if !ok {
				return
			}
			value, ok := scalarDecimal(v, vc)
			if !ok {
				return
			}
			entry.Value = value
			e.Entries = append(e.Entries, entry)
		})
		return e
	case model.TypeStruct:
		s := &model.Struct{
			Name:                name,
			Description:         description,
			Endianness:          endianness,
			BitAlignment:        intLiteral(o, "bit_alignment", 8, alignments),
			LengthOfLengthField: intLiteral(o, "length_of_length_field", 0, lengthFields),
		}
		o.each("members", true, func(n *yaml.Node, c *validation.Collector) {
			if m := Datatype(n, c); m != nil {
				s.Members = append(s.Members, m)
			}
		})
		return s
	case model.TypeUnion:
		u := &model.Union{
			Name:                name,
			Description:         description,
			Endianness:          endianness,
			BitAlignment:        intLiteral(o, "bit_alignment", 8, alignments),
			LengthOfLengthField: intLiteral(o, "length_of_length_field", 32, lengthFields),
			LengthOfTypeField:   intLiteral(o, "length_of_type_field", 32, lengthFields),
		}
		o.each("members", true, func(n *yaml.Node, c *validation.Collector) {
			if m, ok := unionMember(n, c); ok {
				u.Members = append(u.Members, m)
			}
		})
		return u
	default:
		return &model.Primitive{Name: name, Description: description, Endianness: endianness, Type: model.DatatypeType(typ)}
	}
}

// unionMember accepts the member type either as a full datatype definition
// or as the bare name of a primitive.
func unionMember(n *yaml.Node, c *validation.Collector) (model.UnionMember, bool) {
	o, ok := asObject(n, c)
	if !ok {
		return model.UnionMember{}, false
	}
	defer o.done()
	m := model.UnionMember{
		Index: o.integer("index", true, 0),
		Name:  o.str("name", true, ""),
	}
	if m.Index < 0 {
		c.Key("index").Add(validation.Major(validation.CodeOutOfRange,
			"index {value} should be greater than or equal to 0", validation.Context{"value": m.Index}))
	}
	tn, tc, ok := o.required("type")
	if !ok {
		return m, false
	}
	if tn.Kind == yaml.ScalarNode {
		s, ok := scalarString(tn, tc)
		if !ok {
			return m, false
		}
		dt := model.DatatypeType(strings.ToLower(strings.TrimSpace(s)))
		if !dt.IsPrimitive() {
			invalidLiteral(tc, s, append(append([]string{}, integerTypes...),
				string(model.TypeBoolean), string(model.TypeFloat32), string(model.TypeFloat64)))
			return m, false
		}
		m.Type = &model.Primitive{Name: m.Name, Endianness: "BE", Type: dt}
		return m, true
	}
	m.Type = Datatype(tn, tc)
	return m, m.Type != nil
}

func intLiteral(o *object, key string, def int, allowed []int) int {
	n, c, ok := o.optional(key)
	if !ok {
		return def
	}
	v, ok := scalarInt(n, c)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	c.Add(validation.Fatal(validation.CodeInvalidType, "Input should be one of {allowed}, got {value}",
		validation.Context{"allowed": allowed, "value": v}))
	return def
}
