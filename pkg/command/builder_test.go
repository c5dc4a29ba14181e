package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

func baseContext() value.Mapping {
	ctx := value.NewMapping()
	ctx.Set("Game_Root", value.Str("/games/zombies"))
	return ctx
}

func TestBuildPythonIsUnsupported(t *testing.T) {
	op := operation.Operation{ScriptType: "python", Script: "convert.py"}
	_, err := Build(op, operation.NewAnswers(), baseContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "python")
}

func TestBuildBmsUsesQuickbmsWithResolvedIO(t *testing.T) {
	ctx := baseContext()
	op := operation.Operation{
		ScriptType: "bms",
		Script:     "extract.bms",
		Input:      "{{Game_Root}}/in.dat",
		Output:     "{{Game_Root}}/out",
	}
	cmd, err := Build(op, operation.NewAnswers(), ctx)
	require.NoError(t, err)
	assert.False(t, cmd.Embedded)
	assert.Equal(t, []string{"quickbms", "extract.bms", "/games/zombies/in.dat", "/games/zombies/out"}, cmd.Argv)
}

func TestBuildBmsHonorsConfiguredQuickbmsPath(t *testing.T) {
	ctx := baseContext()
	ctx.Set("quickbms_path", value.Str("/tools/quickbms"))
	op := operation.Operation{ScriptType: "bms", Script: "extract.bms", Input: "a", Output: "b"}

	cmd, err := Build(op, operation.NewAnswers(), ctx)
	require.NoError(t, err)
	assert.Equal(t, "/tools/quickbms", cmd.Argv[0])
}

func TestBuildEngineIsEmbeddedWithResolvedArgs(t *testing.T) {
	ctx := baseContext()
	op := operation.Operation{
		ScriptType: "engine",
		Script:     "format-convert",
		Args:       []value.Value{value.Str("{{Game_Root}}/textures"), value.Str("--format"), value.Str("png")},
	}
	cmd, err := Build(op, operation.NewAnswers(), ctx)
	require.NoError(t, err)
	assert.True(t, cmd.Embedded)
	assert.Equal(t, "format-convert", cmd.ScriptPath)
	assert.Equal(t, []string{"/games/zombies/textures", "--format", "png"}, cmd.Args)
}

func TestBuildDefaultExternalArgvPrependsScript(t *testing.T) {
	ctx := baseContext()
	op := operation.Operation{ScriptType: "", Script: "ffmpeg", Args: []value.Value{value.Str("-i"), value.Str("in.wav")}}
	cmd, err := Build(op, operation.NewAnswers(), ctx)
	require.NoError(t, err)
	assert.False(t, cmd.Embedded)
	assert.Equal(t, []string{"ffmpeg", "-i", "in.wav"}, cmd.Argv)
}

func TestBuildResolvesPromptAnswersPlaceholder(t *testing.T) {
	ctx := baseContext()
	answers := operation.NewAnswers()
	answers.Set("OutputName", value.Str("remake"))

	op := operation.Operation{
		ScriptType: "engine",
		Script:     "rename-folders",
		Args:       []value.Value{value.Str("{{PromptAnswers.OutputName}}")},
	}
	cmd, err := Build(op, answers, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"remake"}, cmd.Args)
}
