package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/hivelab/internal/engine"
)

func TestValidateCommandAcceptsCleanComposition(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "validate", writeFile(t, "tool.yaml", pollChartYAML))
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "valid")
	assert.Contains(t, res.stdout, "Order: poll-1 -> chart-1")
	assert.NotContains(t, res.stdout, "Warnings")
}

func TestValidateCommandReportsWarnings(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "tool.yaml", pollChartYAML+`  - from: {instanceId: poll-1, output: results}
    to: {instanceId: ghost, input: data}
`)

	res := runCLI(t, "validate", path)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Warnings (1)")
	assert.Contains(t, res.stdout, `unknown instance "ghost"`)
}

func TestValidateCommandFailsOnCycle(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "validate", writeFile(t, "loop.yaml", cyclicYAML), "--json")
	require.Equal(t, exitInvalid, res.code)

	var report engine.Report
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "a", report.Errors[0].InstanceID)
	assert.Equal(t, []string{"a", "b", "a"}, report.Errors[0].Path)
}

func TestValidateCommandReportsStructure(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "validate", writeFile(t, "draft.yaml", "id: draft\nelements: []\n"))
	require.Equal(t, exitInvalid, res.code)
	assert.Contains(t, res.stdout, "invalid")
	assert.Contains(t, res.stdout, "name:")
}

func TestValidateCommandDuplicatePolicyFromConfig(t *testing.T) {
	t.Parallel()

	comp := writeFile(t, "tool.yaml", `id: t
name: Dupes
elements:
  - {elementId: counter, instanceId: a}
  - {elementId: counter, instanceId: b}
  - {elementId: chart-display, instanceId: c}
connections:
  - from: {instanceId: a, output: value}
    to: {instanceId: c, input: data}
  - from: {instanceId: b, output: value}
    to: {instanceId: c, input: data}
`)

	res := runCLI(t, "validate", comp)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "the last one wins")

	cfg := writeFile(t, "hivelab.yaml", "resolver:\n  duplicate_targets: reject\n")
	res = runCLI(t, "--config", cfg, "validate", comp)
	require.Equal(t, exitInvalid, res.code)
	assert.Contains(t, res.stdout, "fed by 2 connections")

	res = runCLI(t, "--config", cfg, "resolve", comp)
	require.Equal(t, exitConfig, res.code)
}

func TestInvalidConfigExitsWithConfigCode(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "hivelab.yaml", "log:\n  level: loud\n")
	res := runCLI(t, "--config", cfg, "validate", writeFile(t, "tool.yaml", pollChartYAML))
	require.Equal(t, exitConfig, res.code)
	assert.Contains(t, res.stderr, "log.level")
}
