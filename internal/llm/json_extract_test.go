package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_FencedBlock(t *testing.T) {
	response := "Here is the classification:\n```json\n{\"symptom\": \"db timeout\"}\n```\nLet me know if you need more."

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"symptom": "db timeout"}`, got)
}

func TestExtractJSON_UntaggedFence(t *testing.T) {
	response := "```\n{\"cause\": \"missing index\"}\n```"

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cause": "missing index"}`, got)
}

func TestExtractJSON_SkipsNonJSONFences(t *testing.T) {
	response := "```python\nprint('hi')\n```\n```json\n{\"action\": \"restart\"}\n```"

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action": "restart"}`, got)
}

func TestExtractJSON_RawObjectInProse(t *testing.T) {
	response := `The answer is {"symptom": "api slow", "confidence": 0.8} as requested.`

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"symptom": "api slow", "confidence": 0.8}`, got)
}

func TestExtractJSON_NestedObject(t *testing.T) {
	response := `{"outer": {"inner": [1, 2, {"deep": true}]}}`

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, response, got)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	response := `{"message": "use {placeholder} syntax"}`

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, response, got)
}

func TestExtractJSON_Array(t *testing.T) {
	response := `matches: [{"id": "a"}, {"id": "b"}]`

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "a"}, {"id": "b"}]`, got)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not classify this incident.")
	assert.Error(t, err)
}

func TestExtractJSON_UnbalancedBraces(t *testing.T) {
	_, err := ExtractJSON(`{"broken": `)
	assert.Error(t, err)
}
