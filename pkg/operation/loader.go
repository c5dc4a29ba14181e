package operation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

// Load parses an operations file, dispatching on extension, into a flat
// ordered list of Operation records (spec §4.10).
func Load(path string) ([]Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("operation: read %s: %w", path, err)
	}
	if strings.EqualFold(filepathExt(path), ".json") {
		return loadJSON(data)
	}
	return loadTOML(data)
}

func filepathExt(p string) string {
	i := strings.LastIndexByte(p, '.')
	if i < 0 {
		return ""
	}
	return p[i:]
}

// loadTOML treats every top-level table whose value is an array-of-tables
// as an ordered group; each inner table is one operation. Group order and
// intra-group order both follow declaration order, which
// github.com/BurntSushi/toml's MetaData.Keys() preserves.
func loadTOML(data []byte) ([]Operation, error) {
	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("operation: parse toml: %w", err)
	}

	var groupOrder []string
	seen := map[string]bool{}
	for _, k := range meta.Keys() {
		if len(k) == 0 {
			continue
		}
		top := k[0]
		if seen[top] {
			continue
		}
		if _, isGroup := raw[top].([]map[string]any); isGroup {
			seen[top] = true
			groupOrder = append(groupOrder, top)
			continue
		}
		if arr, ok := raw[top].([]any); ok && allMaps(arr) {
			seen[top] = true
			groupOrder = append(groupOrder, top)
		}
	}

	var ops []Operation
	for _, group := range groupOrder {
		entries := toMapSlice(raw[group])
		for _, entry := range entries {
			ops = append(ops, fromNativeRecord(entry))
		}
	}
	return ops, nil
}

func allMaps(arr []any) bool {
	if len(arr) == 0 {
		return false
	}
	for _, item := range arr {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func toMapSlice(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// loadJSON accepts either a top-level array (flat list) or a top-level
// object whose values are arrays (grouped; flatten preserving group order
// as encoding/json.Decoder reports top-level object keys in source order
// only via token-by-token decode, so we re-walk with json.RawMessage plus
// an ordered-key scan).
func loadJSON(data []byte) ([]Operation, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var arr []map[string]any
		if err := json.Unmarshal(data, &arr); err != nil {
			return nil, fmt.Errorf("operation: parse json array: %w", err)
		}
		ops := make([]Operation, 0, len(arr))
		for _, entry := range arr {
			ops = append(ops, fromNativeRecord(entry))
		}
		return ops, nil
	}

	keys, err := orderedObjectKeys(data)
	if err != nil {
		return nil, fmt.Errorf("operation: parse json object: %w", err)
	}
	var obj map[string][]map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("operation: parse json groups: %w", err)
	}
	var ops []Operation
	for _, k := range keys {
		for _, entry := range obj[k] {
			ops = append(ops, fromNativeRecord(entry))
		}
	}
	return ops, nil
}

// orderedObjectKeys returns the top-level key order of a JSON object by
// driving a streaming decoder, since encoding/json's map decode loses key
// order.
func orderedObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		keys = append(keys, key)
		var skip any
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// fromNativeRecord promotes recognized keys to Operation fields while
// keeping every key (recognized or not) available via Raw.
func fromNativeRecord(m map[string]any) Operation {
	raw := value.NewMapping()
	for k, v := range m {
		raw.Set(k, value.FromNative(v))
	}

	op := Operation{Raw: raw}
	op.Name = stringField(raw, "Name")
	op.ScriptType = stringField(raw, "script_type")
	op.Script = stringField(raw, "script")
	op.Tool = stringField(raw, "tool")
	op.Format = stringField(raw, "format")
	op.DB = stringField(raw, "db")
	op.Input = stringField(raw, "input")
	op.Output = stringField(raw, "output")
	op.Extension = stringField(raw, "extension")
	op.ToolsManifest = stringField(raw, "tools_manifest")
	op.Init = boolField(raw, "init")
	op.RunAll = boolField(raw, "run-all") || boolField(raw, "run_all")

	if argsVal, ok := raw.Get("args"); ok {
		op.Args = argsVal.List()
	}

	if promptsVal, ok := raw.Get("prompts"); ok {
		for _, p := range promptsVal.List() {
			op.Prompts = append(op.Prompts, promptFromValue(p))
		}
	}

	onSuccess, ok := raw.Get("onsuccess")
	if !ok {
		onSuccess, ok = raw.Get("on_success")
	}
	if ok {
		switch onSuccess.Kind() {
		case value.KindMapping:
			op.OnSuccess = []Operation{fromNativeRecord(onSuccess.Native().(map[string]any))}
		case value.KindList:
			for _, item := range onSuccess.List() {
				if m, ok := item.Native().(map[string]any); ok {
					op.OnSuccess = append(op.OnSuccess, fromNativeRecord(m))
				}
			}
		}
	}

	return op
}

func promptFromValue(v value.Value) Prompt {
	m := v.Mapping()
	p := Prompt{Name: stringField(m, "Name")}
	switch stringField(m, "type") {
	case "confirm":
		p.Type = PromptConfirm
	case "checkbox":
		p.Type = PromptCheckbox
	default:
		p.Type = PromptText
	}
	if d, ok := m.Get("default"); ok {
		p.Default = d
	}
	if c, ok := m.Get("choices"); ok {
		p.Choices = c.List()
	}
	p.Condition = stringField(m, "condition")
	return p
}

func stringField(m value.Mapping, key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

func boolField(m value.Mapping, key string) bool {
	v, ok := m.Get(key)
	if !ok {
		return false
	}
	b, _ := v.Scalar().(bool)
	return b
}
