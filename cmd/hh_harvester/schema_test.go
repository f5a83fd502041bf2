package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillra/hh-harvester/internal/features"
)

func TestSchemaCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "schema")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	cols := features.Columns()
	require.Len(t, lines, len(cols))
	assert.Equal(t, []string{"vacancy_id", "int"}, strings.Fields(lines[0]))
}

func TestSchemaCommand_JSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "schema", "--json")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Len(t, schema["required"], len(features.Columns()))
}
