// Package placeholder resolves {{dotted.path}} tokens inside string leaves
// of a value tree against a context mapping (spec §4.1).
package placeholder

import (
	"regexp"
	"strings"

	"github.com/yggdrasil-au/remake-operator/internal/logger"
	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Resolve returns a new Value with every {{path.segments}} token inside any
// string leaf substituted via ctx. Non-string leaves pass through
// unchanged; lists and mappings are recursed. The operation is pure: the
// input v is never mutated.
func Resolve(v value.Value, ctx value.Mapping) value.Value {
	switch v.Kind() {
	case value.KindScalar:
		if v.IsString() {
			s := v.String()
			// A string that is exactly one token takes the looked-up value
			// itself, so a non-string value keeps its kind.
			if m := tokenPattern.FindStringSubmatch(s); m != nil && strings.TrimSpace(s) == m[0] {
				if resolved, ok := ctx.Lookup(m[1]); ok {
					return resolved
				}
			}
			return value.Str(resolveString(s, ctx))
		}
		return v
	case value.KindList:
		items := v.List()
		out := make([]value.Value, len(items))
		for i, item := range items {
			out[i] = Resolve(item, ctx)
		}
		return value.List(out...)
	case value.KindMapping:
		m := v.Mapping()
		out := value.NewMapping()
		for _, k := range m.Keys() {
			item, _ := m.Get(k)
			out.Set(k, Resolve(item, ctx))
		}
		return value.Map(out)
	default:
		return v
	}
}

// ResolveString resolves placeholders in a bare string, for callers (the
// command builder) that only ever have string leaves to begin with.
func ResolveString(s string, ctx value.Mapping) string {
	return resolveString(s, ctx)
}

func resolveString(s string, ctx value.Mapping) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	// Whole-string token: a bare string can only carry the looked-up value's
	// stringified form (Resolve returns the value itself, kind preserved,
	// before reaching here).
	if m := tokenPattern.FindStringSubmatch(s); m != nil && strings.TrimSpace(s) == m[0] {
		if resolved, ok := ctx.Lookup(m[1]); ok {
			return resolved.String()
		}
		logger.GetLogger().Warn().Str("token", m[0]).Msg("unresolved placeholder")
		return s
	}

	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		sub := tokenPattern.FindStringSubmatch(tok)
		if sub == nil {
			return tok
		}
		resolved, ok := ctx.Lookup(sub[1])
		if !ok {
			logger.GetLogger().Warn().Str("token", tok).Msg("unresolved placeholder")
			return tok
		}
		return resolved.String()
	})
}
