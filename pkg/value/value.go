// Package value implements the tagged-union dynamic value model used for
// operation records, execution context, and event payloads (spec §9's
// design note: model dynamic trees as scalar | list | mapping | opaque
// handle rather than a raw map[string]any walked everywhere).
//
// Case-insensitive key lookup is provided only at the well-known boundaries
// (operation keys, engine config) via Mapping.Get, not as a blanket property
// of every map in the system.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags which alternative a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindMapping
	KindHandle
)

// Value is the tagged union. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Value struct {
	kind    Kind
	scalar  any // string, bool, int64, float64
	list    []Value
	mapping Mapping
	handle  any // opaque handle (progress handle, sqlite handle, ...)
}

// Mapping is a case-insensitive string-keyed map of Value, preserving the
// original-cased key alongside each entry so round-tripping back to TOML/
// JSON keeps user-authored casing.
type Mapping struct {
	keys map[string]string // lower(key) -> original key
	data map[string]Value  // lower(key) -> value
}

func NewMapping() Mapping {
	return Mapping{keys: map[string]string{}, data: map[string]Value{}}
}

// Set stores v under key, preserving key's casing for iteration/output.
func (m *Mapping) Set(key string, v Value) {
	if m.keys == nil {
		*m = NewMapping()
	}
	lower := strings.ToLower(key)
	m.keys[lower] = key
	m.data[lower] = v
}

// Get performs a case-insensitive lookup of a single segment.
func (m Mapping) Get(key string) (Value, bool) {
	if m.data == nil {
		return Value{}, false
	}
	v, ok := m.data[strings.ToLower(key)]
	return v, ok
}

// Delete removes key (case-insensitive), no-op if absent.
func (m *Mapping) Delete(key string) {
	if m.data == nil {
		return
	}
	lower := strings.ToLower(key)
	delete(m.data, lower)
	delete(m.keys, lower)
}

// Keys returns original-cased keys in sorted order, for deterministic
// iteration (operation-key preservation, serialization).
func (m Mapping) Keys() []string {
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m Mapping) Len() int { return len(m.data) }

// Lookup resolves a dotted path ("a.b.c") against nested Mappings,
// case-insensitively at every segment.
func (m Mapping) Lookup(dottedPath string) (Value, bool) {
	segs := strings.Split(dottedPath, ".")
	cur := Value{kind: KindMapping, mapping: m}
	for _, seg := range segs {
		if cur.kind != KindMapping {
			return Value{}, false
		}
		v, ok := cur.mapping.Get(seg)
		if !ok {
			return Value{}, false
		}
		cur = v
	}
	return cur, true
}

// Null, Str, Bool, Int, Float, List, Map, Handle construct Values.
func Null() Value                { return Value{kind: KindNull} }
func Str(s string) Value         { return Value{kind: KindScalar, scalar: s} }
func Bool(b bool) Value          { return Value{kind: KindScalar, scalar: b} }
func Int(i int64) Value          { return Value{kind: KindScalar, scalar: i} }
func Float(f float64) Value      { return Value{kind: KindScalar, scalar: f} }
func List(items ...Value) Value  { return Value{kind: KindList, list: items} }
func Map(m Mapping) Value        { return Value{kind: KindMapping, mapping: m} }
func Handle(h any) Value         { return Value{kind: KindHandle, handle: h} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) List() []Value    { return v.list }
func (v Value) Mapping() Mapping { return v.mapping }
func (v Value) Handle() any      { return v.handle }
func (v Value) Scalar() any      { return v.scalar }

// String renders a Value as its placeholder-substitution/display form.
// Scalars render naturally; lists and mappings render as Go's %v of the
// unwrapped native form, matching the teacher's pragmatic stringification
// rather than a bespoke serializer.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindScalar:
		switch s := v.scalar.(type) {
		case string:
			return s
		case bool:
			return strconv.FormatBool(s)
		case int64:
			return strconv.FormatInt(s, 10)
		case float64:
			return strconv.FormatFloat(s, 'g', -1, 64)
		default:
			return fmt.Sprintf("%v", s)
		}
	case KindList:
		return fmt.Sprintf("%v", v.Native())
	case KindMapping:
		return fmt.Sprintf("%v", v.Native())
	default:
		return fmt.Sprintf("%v", v.handle)
	}
}

// IsString reports whether the value is exactly a string scalar, used by
// the placeholder resolver to decide "whole-token replace" vs "stringify".
func (v Value) IsString() bool {
	if v.kind != KindScalar {
		return false
	}
	_, ok := v.scalar.(string)
	return ok
}

// Native converts a Value back into plain Go data (string/bool/int64/
// float64/[]any/map[string]any/any), for handing to TOML/JSON encoders and
// for embedded-script marshalling (§4.5 "language-neutral representation").
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindScalar:
		return v.scalar
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Native()
		}
		return out
	case KindMapping:
		out := make(map[string]any, v.mapping.Len())
		for _, k := range v.mapping.Keys() {
			item, _ := v.mapping.Get(k)
			out[k] = item.Native()
		}
		return out
	default:
		return v.handle
	}
}

// FromNative converts plain Go data (as produced by encoding/json,
// BurntSushi/toml, or viper) into a Value tree.
func FromNative(in any) Value {
	switch t := in.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return Str(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromNative(item)
		}
		return Value{kind: KindList, list: items}
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Str(item)
		}
		return Value{kind: KindList, list: items}
	case map[string]any:
		m := NewMapping()
		for k, item := range t {
			m.Set(k, FromNative(item))
		}
		return Map(m)
	default:
		return Value{kind: KindScalar, scalar: t}
	}
}
