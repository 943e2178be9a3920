// Package keypath defines hierarchical cache scopes and the prefix rule used
// to decide whether an invalidation reaches a subscriber.
package keypath

import (
	"fmt"
	"reflect"
	"strings"
)

// Path is an ordered sequence of opaque identifiers, most general first.
// Example: ["workspace", "abc123", "files"].
type Path []string

// Normalize coerces a key declaration into a Path. Strings and other scalars
// become a single-segment path; slices and arrays keep their order with each
// element rendered by fmt. A nil value yields an empty path.
func Normalize(keys any) Path {
	switch v := keys.(type) {
	case nil:
		return Path{}
	case Path:
		return append(Path{}, v...)
	case []string:
		return append(Path{}, v...)
	case string:
		return Path{v}
	case []any:
		out := make(Path, 0, len(v))
		for _, e := range v {
			out = append(out, segment(e))
		}
		return out
	case fmt.Stringer:
		return Path{v.String()}
	}
	rv := reflect.ValueOf(keys)
	if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
		out := make(Path, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, segment(rv.Index(i).Interface()))
		}
		return out
	}
	return Path{segment(keys)}
}

func segment(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Equal reports whether a and b have the same segments in the same order.
func Equal(a, b Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsPrefixMatch reports whether a subscriber declared on sub is notified by
// an invalidation published on pub: sub must not be longer than pub and every
// position of sub must equal the same position of pub. An empty sub matches
// everything.
func IsPrefixMatch(sub, pub Path) bool {
	if len(sub) > len(pub) {
		return false
	}
	for i := range sub {
		if sub[i] != pub[i] {
			return false
		}
	}
	return true
}

// Root returns the first segment, or "" for an empty path.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Clone returns a copy that shares no storage with p.
func (p Path) Clone() Path { return append(Path{}, p...) }

// String renders the path with '/' separators, for logs only.
func (p Path) String() string { return strings.Join(p, "/") }
