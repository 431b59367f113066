package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

func TestKey(t *testing.T) {
	t.Parallel()
	require.Equal(t, "poll-1:results", Key("poll-1", "results"))
}

func TestSnapshotCounters(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot()
	snap.Counters["p1:yes"] = 3
	snap.Counters["p1:no"] = 2
	snap.Counters["p10:yes"] = 7
	snap.Counters["p1:"] = 1

	v, ok := snap.Counter("p1:yes")
	require.True(t, ok)
	require.Equal(t, float64(3), v)

	_, ok = snap.Counter("p1:maybe")
	require.False(t, ok)

	require.Equal(t, map[string]float64{"yes": 3, "no": 2}, snap.CountersWithPrefix("p1"))
}

func TestSnapshotCollectionOrdersByID(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot()
	snap.Collections["rsvp-1:attendees"] = map[string]Entry{
		"b": {ID: "b"},
		"a": {},
	}

	entries, ok := snap.Collection("rsvp-1:attendees")
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)

	_, ok = snap.Collection("missing")
	require.False(t, ok)
}

func TestNilSnapshotReads(t *testing.T) {
	t.Parallel()

	var snap *Snapshot
	_, ok := snap.Counter("x")
	require.False(t, ok)
	_, ok = snap.Collection("x")
	require.False(t, ok)
	require.Empty(t, snap.CountersWithPrefix("x"))
	require.Nil(t, snap.Clone())
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot()
	snap.Counters["c:value"] = 1
	snap.Collections["s:scores"] = map[string]Entry{"x": {Data: map[string]any{"score": 5}}}
	snap.Computed["nested"] = map[string]any{"a": []any{1}}

	clone := snap.Clone()
	clone.Counters["c:value"] = 9
	clone.Collections["s:scores"]["x"].Data["score"] = 1
	clone.Computed["nested"].(map[string]any)["a"] = "changed"

	require.Equal(t, float64(1), snap.Counters["c:value"])
	require.Equal(t, 5, snap.Collections["s:scores"]["x"].Data["score"])
	require.Equal(t, []any{1}, snap.Computed["nested"].(map[string]any)["a"])
}

func TestLocalStateEnsureSlotsIsIdempotent(t *testing.T) {
	t.Parallel()

	local := LocalState{"poll-1": {"selected": "yes"}}
	once := local.EnsureSlots([]string{"poll-1", "chart-1"})
	twice := once.EnsureSlots([]string{"poll-1", "chart-1"})

	require.Equal(t, once, twice)
	require.Equal(t, "yes", twice["poll-1"]["selected"])
	require.Empty(t, twice["chart-1"])
	require.NotContains(t, local, "chart-1")

	v, ok := twice.Get("poll-1", "selected")
	require.True(t, ok)
	require.Equal(t, "yes", v)
	_, ok = twice.Get("ghost", "selected")
	require.False(t, ok)
}

func TestDecodeSnapshotJSON(t *testing.T) {
	t.Parallel()

	doc := []byte(`{
  "counters": {"poll-1:Option A": 4, "poll-1:Option B": 1},
  "collections": {"rsvp-1:attendees": {"u1": {"createdBy": "alice", "data": {"displayName": "Alice"}}}},
  "version": 3,
  "lastModified": "2026-01-02T03:04:05Z"
}`)

	snap, err := DecodeSnapshot(doc, "inline")
	require.NoError(t, err)
	require.Equal(t, float64(4), snap.Counters["poll-1:Option A"])
	require.Equal(t, int64(3), snap.Version)
	require.NotNil(t, snap.Computed)
	require.NotNil(t, snap.Timeline)

	entries, ok := snap.Collection("rsvp-1:attendees")
	require.True(t, ok)
	require.Equal(t, "u1", entries[0].ID)
	require.Equal(t, "alice", entries[0].CreatedBy)
	require.Equal(t, "Alice", entries[0].Data["displayName"])
}

func TestDecodeSnapshotReportsParseError(t *testing.T) {
	t.Parallel()

	_, err := DecodeSnapshot([]byte("counters: [unclosed"), "state.yaml")
	require.Error(t, err)

	var parseErr *hiveerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "state.yaml", parseErr.Path)
}

func TestLoadSnapshotAndLocalStateFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapPath := filepath.Join(dir, "state.yaml")
	localPath := filepath.Join(dir, "local.yaml")
	require.NoError(t, os.WriteFile(snapPath, []byte("counters:\n  counter-1:value: 12\n"), 0o644))
	require.NoError(t, os.WriteFile(localPath, []byte("poll-1:\n  selected: yes-option\n"), 0o644))

	snap, err := LoadSnapshot(snapPath)
	require.NoError(t, err)
	require.Equal(t, float64(12), snap.Counters["counter-1:value"])

	local, err := LoadLocalState(localPath)
	require.NoError(t, err)
	require.Equal(t, "yes-option", local["poll-1"]["selected"])

	_, err = LoadSnapshot(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestStampAdvancesVersion(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := &Snapshot{Version: 5}
	next := &Snapshot{Version: 2}

	stamped := Stamp(prev, next, now)
	require.Equal(t, int64(6), stamped.Version)
	require.Equal(t, "2026-03-01T12:00:00Z", stamped.LastModified)
	require.Equal(t, int64(2), next.Version)

	require.Equal(t, int64(1), Stamp(nil, nil, now).Version)
}
