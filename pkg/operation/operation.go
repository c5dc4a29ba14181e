// Package operation models a single declarative pipeline step (spec §3
// Operation, §6.1) and the prompts it declares.
package operation

import "github.com/yggdrasil-au/remake-operator/pkg/value"

// PromptType enumerates the accepted Prompt.Type values.
type PromptType string

const (
	PromptText     PromptType = "text"
	PromptConfirm  PromptType = "confirm"
	PromptCheckbox PromptType = "checkbox"
)

// Prompt is a declared user input for an operation (spec §3 Prompt).
type Prompt struct {
	Name      string
	Type      PromptType
	Default   value.Value
	Choices   []value.Value
	Condition string // names another prompt of type confirm
}

// EmptyValue returns the type-empty value for p's declared type, used by
// prompt-default derivation (§4.11) when no default applies.
func (p Prompt) EmptyValue() value.Value {
	switch p.Type {
	case PromptConfirm:
		return value.Bool(false)
	case PromptCheckbox:
		return value.List()
	default:
		return value.Null()
	}
}

// Operation is a single step in a module's pipeline (spec §3, §6.1). Known
// keys are promoted to fields; every key (known or not) also survives in
// Raw untouched, since the loader must preserve unrecognized keys.
type Operation struct {
	Name          string
	ScriptType    string // engine | lua | js | bms | python
	Script        string
	Args          []value.Value
	Prompts       []Prompt
	Init          bool
	RunAll        bool
	OnSuccess     []Operation
	Tool          string
	Format        string
	DB            string
	Input         string
	Output        string
	Extension     string
	ToolsManifest string

	Raw value.Mapping // full original record, all keys, for engine-verb lookups
}

// Answers is a case-insensitive Prompt.Name → value map (spec §3
// PromptAnswers), built fresh per operation invocation.
type Answers struct {
	m value.Mapping
}

func NewAnswers() Answers { return Answers{m: value.NewMapping()} }

func (a *Answers) Set(name string, v value.Value) {
	if a.m.Len() == 0 && a.m.Keys() == nil {
		a.m = value.NewMapping()
	}
	a.m.Set(name, v)
}

func (a Answers) Get(name string) (value.Value, bool) { return a.m.Get(name) }

func (a Answers) Mapping() value.Mapping { return a.m }

// DisplayName returns op.Name, or basename(op.Script), or "Operation",
// matching §4.11's run-all-op-start naming rule.
func (op Operation) DisplayName() string {
	if op.Name != "" {
		return op.Name
	}
	if op.Script != "" {
		return baseName(op.Script)
	}
	return "Operation"
}

func baseName(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' || p[i] == '\\' {
			return p[i+1:]
		}
	}
	return p
}

// IsEmbedded reports whether the operation runs in-process (engine/lua/js)
// rather than via the external Process Supervisor (spec §4.11).
func (op Operation) IsEmbedded() bool {
	switch op.ScriptType {
	case "engine", "lua", "js":
		return true
	default:
		return false
	}
}
