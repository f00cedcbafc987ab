package validation

import (
	"strconv"
	"strings"
)

// Path locates a value inside the configuration tree. Elements are either
// mapping keys (string) or sequence indexes (int).
type Path []any

// Key returns a copy of the path extended by a mapping key.
func (p Path) Key(key string) Path {
	return p.with(key)
}

// Index returns a copy of the path extended by a sequence index.
func (p Path) Index(i int) Path {
	return p.with(i)
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

func (p Path) with(elem any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, elem)
}

// String renders the path as "ecus[0].ports[1].name".
func (p Path) String() string {
	var b strings.Builder
	for _, elem := range p {
		switch v := elem.(type) {
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(']')
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(toString(v))
		}
	}
	return b.String()
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}
