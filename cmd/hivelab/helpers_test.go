package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const pollChartYAML = `id: tool-1
name: Lunch vote
elements:
  - elementId: poll-element
    instanceId: poll-1
    config:
      question: Where to?
  - elementId: chart-display
    instanceId: chart-1
connections:
  - from: {instanceId: poll-1, output: results}
    to: {instanceId: chart-1, input: data}
`

const pollStateYAML = `counters:
  "poll-1:Option A": 4
  "poll-1:Option B": 1
`

const cyclicYAML = `id: loop
name: Loop
elements:
  - {elementId: counter, instanceId: a}
  - {elementId: counter, instanceId: b}
connections:
  - from: {instanceId: a, output: value}
    to: {instanceId: b, input: value}
  - from: {instanceId: b, output: value}
    to: {instanceId: a, input: value}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}
