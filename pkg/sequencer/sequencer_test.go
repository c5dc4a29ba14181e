package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
)

func TestSelectPicksInitThenRunAllInDeclarationOrder(t *testing.T) {
	ops := []operation.Operation{
		{Name: "normal"},
		{Name: "run-all-1", RunAll: true},
		{Name: "init-1", Init: true},
		{Name: "run-all-2", RunAll: true},
		{Name: "init-2", Init: true},
	}

	selected := Select(ops)
	names := make([]string, len(selected))
	for i, op := range selected {
		names[i] = op.Name
	}
	assert.Equal(t, []string{"init-1", "init-2", "run-all-1", "run-all-2"}, names)
}

func TestSelectFallsBackToFullListWhenNothingQualifies(t *testing.T) {
	ops := []operation.Operation{{Name: "a"}, {Name: "b"}}
	assert.Equal(t, ops, Select(ops))
}

func TestSelectNeverDuplicatesAnOperationFlaggedBoth(t *testing.T) {
	ops := []operation.Operation{{Name: "both", Init: true, RunAll: true}}
	selected := Select(ops)
	assert.Len(t, selected, 1)
}
