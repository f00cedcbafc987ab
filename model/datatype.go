package model

import "github.com/shopspring/decimal"

// DatatypeType discriminates the SOME/IP datatypes.
type DatatypeType string

const (
	TypeUInt8   DatatypeType = "uint8"
	TypeUInt16  DatatypeType = "uint16"
	TypeUInt32  DatatypeType = "uint32"
	TypeUInt64  DatatypeType = "uint64"
	TypeSInt8   DatatypeType = "sint8"
	TypeSInt16  DatatypeType = "sint16"
	TypeSInt32  DatatypeType = "sint32"
	TypeSInt64  DatatypeType = "sint64"
	TypeBoolean DatatypeType = "boolean"
	TypeFloat32 DatatypeType = "float32"
	TypeFloat64 DatatypeType = "float64"
	TypeEnum    DatatypeType = "enum"
	TypeStruct  DatatypeType = "struct"
	TypeUnion   DatatypeType = "union"
)

// IntegerRange holds the inclusive value range of an integer type.
type IntegerRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

var integerRanges = map[DatatypeType]IntegerRange{
	TypeUInt8:  {Min: decimal.Zero, Max: decimal.NewFromInt(1<<8 - 1)},
	TypeUInt16: {Min: decimal.Zero, Max: decimal.NewFromInt(1<<16 - 1)},
	TypeUInt32: {Min: decimal.Zero, Max: decimal.NewFromInt(1<<32 - 1)},
	TypeUInt64: {Min: decimal.Zero, Max: decimal.RequireFromString("18446744073709551615")},
	TypeSInt8:  {Min: decimal.NewFromInt(-1 << 7), Max: decimal.NewFromInt(1<<7 - 1)},
	TypeSInt16: {Min: decimal.NewFromInt(-1 << 15), Max: decimal.NewFromInt(1<<15 - 1)},
	TypeSInt32: {Min: decimal.NewFromInt(-1 << 31), Max: decimal.NewFromInt(1<<31 - 1)},
	TypeSInt64: {Min: decimal.NewFromInt(-1 << 63), Max: decimal.NewFromInt(1<<63 - 1)},
}

// Range returns the representable range of an integer type.
func (t DatatypeType) Range() (IntegerRange, bool) {
	r, ok := integerRanges[t]
	return r, ok
}

// IsInteger reports whether t is one of the integer primitives.
func (t DatatypeType) IsInteger() bool {
	_, ok := integerRanges[t]
	return ok
}

// IsPrimitive reports whether t carries no nested members.
func (t DatatypeType) IsPrimitive() bool {
	switch t {
	case TypeBoolean, TypeFloat32, TypeFloat64:
		return true
	}
	return t.IsInteger()
}

// Datatype is a SOME/IP datatype definition.
type Datatype interface {
	DatatypeName() string
	DatatypeType() DatatypeType
	isDatatype()
}

// Primitive is an integer, boolean or floating point datatype.
type Primitive struct {
	Name        string
	Description string
	Endianness  string
	Type        DatatypeType
}

func (p *Primitive) DatatypeName() string       { return p.Name }
func (p *Primitive) DatatypeType() DatatypeType { return p.Type }
func (*Primitive) isDatatype()                  {}

// EnumEntry maps a symbolic name to a value.
type EnumEntry struct {
	Name        string
	Value       decimal.Decimal
	Description string
}

// Enum is an enumeration backed by an integer type.
type Enum struct {
	Name        string
	Description string
	Endianness  string
	BaseType    DatatypeType
	Entries     []EnumEntry
}

func (e *Enum) DatatypeName() string     { return e.Name }
func (*Enum) DatatypeType() DatatypeType { return TypeEnum }
func (*Enum) isDatatype()                {}

// Struct is an ordered composition of member datatypes.
type Struct struct {
	Name                string
	Description         string
	Endianness          string
	Members             []Datatype
	BitAlignment        int
	LengthOfLengthField int
}

func (s *Struct) DatatypeName() string     { return s.Name }
func (*Struct) DatatypeType() DatatypeType { return TypeStruct }
func (*Struct) isDatatype()                {}

// UnionMember is one selectable alternative of a union.
type UnionMember struct {
	Index int
	Name  string
	Type  Datatype
}

// Union holds exactly one of its members at runtime.
type Union struct {
	Name                string
	Description         string
	Endianness          string
	Members             []UnionMember
	BitAlignment        int
	LengthOfLengthField int
	LengthOfTypeField   int
}

func (u *Union) DatatypeName() string     { return u.Name }
func (*Union) DatatypeType() DatatypeType { return TypeUnion }
func (*Union) isDatatype()                {}
