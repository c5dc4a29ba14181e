package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

func TestPromptEmptyValueByType(t *testing.T) {
	assert.Equal(t, value.Bool(false), Prompt{Type: PromptConfirm}.EmptyValue())
	assert.Equal(t, value.List(), Prompt{Type: PromptCheckbox}.EmptyValue())
	assert.Equal(t, value.Null(), Prompt{Type: PromptText}.EmptyValue())
}

func TestDisplayNamePrefersNameThenScriptBasenameThenFallback(t *testing.T) {
	assert.Equal(t, "Extract Textures", Operation{Name: "Extract Textures", Script: "x.lua"}.DisplayName())
	assert.Equal(t, "extract.lua", Operation{Script: "scripts/extract.lua"}.DisplayName())
	assert.Equal(t, "extract.lua", Operation{Script: "scripts\\extract.lua"}.DisplayName())
	assert.Equal(t, "Operation", Operation{}.DisplayName())
}

func TestIsEmbeddedByScriptType(t *testing.T) {
	assert.True(t, Operation{ScriptType: "engine"}.IsEmbedded())
	assert.True(t, Operation{ScriptType: "lua"}.IsEmbedded())
	assert.True(t, Operation{ScriptType: "js"}.IsEmbedded())
	assert.False(t, Operation{ScriptType: "bms"}.IsEmbedded())
	assert.False(t, Operation{ScriptType: "python"}.IsEmbedded())
	assert.False(t, Operation{}.IsEmbedded())
}

func TestAnswersSetGetCaseInsensitive(t *testing.T) {
	a := NewAnswers()
	a.Set("OutputName", value.Str("remake"))

	v, ok := a.Get("outputname")
	assert.True(t, ok)
	assert.Equal(t, "remake", v.String())

	_, ok = a.Get("missing")
	assert.False(t, ok)
}

func TestAnswersZeroValueIsUsable(t *testing.T) {
	var a Answers
	a.Set("Name", value.Str("x"))

	v, ok := a.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "x", v.String())
}
