package element

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefinitionDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		def      Definition
		expected string
	}{
		{name: "explicit name", def: Definition{ID: "poll-element", Name: "Poll"}, expected: "Poll"},
		{name: "derived from hyphenated id", def: Definition{ID: "tag-cloud"}, expected: "Tag Cloud"},
		{name: "derived from underscored id", def: Definition{ID: "score_keeper"}, expected: "Score Keeper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.def.DisplayName())
		})
	}
}

func TestDefinitionDefaultConfigIsFreshCopy(t *testing.T) {
	t.Parallel()

	def := Definition{
		ID: "poll-element",
		ConfigSchema: map[string]ConfigField{
			"options":  {Type: FieldArray, Default: []any{"A", "B"}},
			"question": {Type: FieldString},
		},
	}

	cfg := def.DefaultConfig()
	require.Equal(t, map[string]any{"options": []any{"A", "B"}}, cfg)

	cfg["options"].([]any)[0] = "mutated"
	require.Equal(t, []any{"A", "B"}, def.DefaultConfig()["options"])
}

func TestDefinitionPortsAndRenderable(t *testing.T) {
	t.Parallel()

	def := Definition{ID: "counter", Inputs: []string{"value"}, Outputs: []string{"value"}}
	require.True(t, def.HasInput("value"))
	require.True(t, def.HasOutput("value"))
	require.False(t, def.HasOutput("results"))
	require.False(t, def.Renderable())

	def.Render = func(config, data map[string]any) (any, error) { return nil, nil }
	require.True(t, def.Renderable())
}

func TestDefaultsAreWellFormed(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, def := range Defaults() {
		require.NotEmpty(t, def.ID)
		require.False(t, seen[def.ID], "duplicate default %s", def.ID)
		require.True(t, def.Category.Valid(), "invalid category for %s", def.ID)
		seen[def.ID] = true
	}
	require.True(t, seen[TypePoll])
	require.True(t, seen[TypeChart])
	require.True(t, seen[TypeLeaderboard])
}
