package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codecorpus/internal/extract"
)

// Test Plan for Wire Schema:
// - Project() fills every wire field from the unit
// - The prompt embeds the docstring when present
// - JSON field names match the stable wire schema

func TestProject_FillsWireFields(t *testing.T) {
	t.Parallel()

	unit := extract.CodeUnit{
		Language:  "python",
		Kind:      extract.KindFunction,
		Name:      "parse_header",
		Signature: "def parse_header(raw):",
		Body:      "def parse_header(raw):\n    return raw.split(':', 1)",
		Docstring: "Split a header line into name and value.",
	}

	example := Project(unit)

	assert.Equal(t, TaskTypeCodeGen, example.TaskType)
	assert.Equal(t, "python", example.Language)
	assert.Equal(t, "parse_header", example.FuncName)
	assert.Equal(t, "parse_header", example.Name)
	assert.Equal(t, unit.Body, example.Body)
	assert.Equal(t, unit.Body, example.Output)
	assert.Equal(t, unit.Signature, example.Signature)
	assert.Contains(t, example.Input, "parse_header")
	assert.Contains(t, example.Input, "Split a header line into name and value.")
}

func TestProject_PromptWithoutDocstring(t *testing.T) {
	t.Parallel()

	unit := extract.CodeUnit{
		Language:  "rust",
		Kind:      extract.KindFunction,
		Name:      "double",
		Signature: "fn double(n: i64) -> i64",
		Body:      "fn double(n: i64) -> i64 {\n    n * 2\n}",
	}

	example := Project(unit)
	assert.Contains(t, example.Input, "double")
	assert.NotContains(t, example.Input, "does the following")
}

func TestTrainingExample_WireFieldNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(TrainingExample{TaskType: TaskTypeCodeGen})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, name := range []string{
		"task_type", "language", "func_name", "name", "body", "signature", "input", "output",
	} {
		assert.Contains(t, fields, name)
	}
}
