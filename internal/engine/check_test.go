package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	"github.com/alexisbeaulieu97/hivelab/internal/resolver"
)

func TestCheckCleanComposition(t *testing.T) {
	t.Parallel()

	report := newEngine(t).Check(pollToChart())
	require.True(t, report.Valid)
	require.Empty(t, report.Errors)
	require.Empty(t, report.Warnings)
	require.Equal(t, []string{"poll-1", "chart-1"}, report.Order)
}

func TestCheckReportsWarnings(t *testing.T) {
	t.Parallel()

	comp := pollToChart()
	comp.Elements = append(comp.Elements, instance("retired-widget", "old-1"))
	comp.Connections = append(comp.Connections,
		edge("poll-1", "results", "ghost", "data"),
		edge("poll-1", "votes", "chart-1", "series"),
	)

	report := newEngine(t).Check(comp)
	require.True(t, report.Valid)

	messages := make([]string, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		messages = append(messages, w.Message)
	}
	assert.Contains(t, messages, `connection references unknown instance "ghost" and will be skipped`)
	assert.Contains(t, messages, `element type "retired-widget" is not registered`)
	assert.Contains(t, messages, `poll-element does not declare output "votes"`)
	assert.Contains(t, messages, `chart-display does not declare input "series"`)
}

func TestCheckReportsCycle(t *testing.T) {
	t.Parallel()

	comp := pollToChart()
	comp.Connections = append(comp.Connections, edge("chart-1", "data", "poll-1", "options"))

	report := newEngine(t).Check(comp)
	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.NotEmpty(t, report.Errors[0].InstanceID)
	assert.NotEmpty(t, report.Errors[0].Path)
}

func TestCheckDuplicateTargetsFollowPolicy(t *testing.T) {
	t.Parallel()

	comp := pollToChart()
	comp.Elements = append(comp.Elements, instance(element.TypeCounter, "n1"))
	comp.Connections = append(comp.Connections, edge("n1", "value", "chart-1", "data"))

	report := newEngine(t).Check(comp)
	require.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)

	registry := element.NewDefaultRegistry(logger.Nop())
	strict := New(registry, resolver.New(registry, resolver.WithDuplicatePolicy(resolver.RejectDuplicates)))
	report = strict.Check(comp)
	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "chart-1", report.Errors[0].InstanceID)
}

func TestCheckInvalidStructure(t *testing.T) {
	t.Parallel()

	report := newEngine(t).Check(&composition.Composition{ID: "t"})
	require.False(t, report.Valid)
	require.Equal(t, "name", report.Errors[0].Field)
}
