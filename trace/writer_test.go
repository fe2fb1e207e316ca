package trace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

func readAll(t *testing.T, path string) []Record {
	t.Helper()
	var out []Record
	require.NoError(t, ReadFile(path, func(r Record) error {
		out = append(out, r)
		return nil
	}))
	return out
}

func TestWriter_RoundTripsSteps(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "decisions")
	w.now = func() time.Time { return time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC) }

	clock := model.NewSimClock(12.5)
	tr := w.For("agent-1", clock)
	tr.Step(priority.Step{Kind: priority.StepConsider, Depth: 0, Index: 0, Label: "flee"})
	clock.Advance(0.25)
	tr.Step(priority.Step{Kind: priority.StepSelect, Depth: 0, Index: 1, Behaviour: "idle"})
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "decisions-2026-03-01-14.jsonl.zst")
	got := readAll(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, Record{Agent: "agent-1", Time: 12.5, Step: priority.Step{Kind: priority.StepConsider, Label: "flee"}}, got[0])
	assert.Equal(t, 12.75, got[1].Time)
	assert.Equal(t, "idle", got[1].Behaviour)
}

func TestWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "decisions")
	hour := 9
	w.now = func() time.Time { return time.Date(2026, 3, 1, hour, 59, 0, 0, time.UTC) }

	require.NoError(t, w.Write(Record{Agent: "a"}))
	hour = 10
	require.NoError(t, w.Write(Record{Agent: "b"}))
	require.NoError(t, w.Write(Record{Agent: "c"}))
	require.NoError(t, w.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Len(t, readAll(t, filepath.Join(dir, "decisions-2026-03-01-09.jsonl.zst")), 1)
	assert.Len(t, readAll(t, filepath.Join(dir, "decisions-2026-03-01-10.jsonl.zst")), 2)
}

func TestWriter_AppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	now := func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	for _, id := range []string{"first", "second"} {
		w := NewWriter(dir, "decisions")
		w.now = now
		require.NoError(t, w.Write(Record{Agent: id}))
		require.NoError(t, w.Close())
	}

	got := readAll(t, filepath.Join(dir, "decisions-2026-03-01-09.jsonl.zst"))
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Agent)
	assert.Equal(t, "second", got[1].Agent)
}

func TestWriter_Flush(t *testing.T) {
	w := NewWriter(t.TempDir(), "decisions")
	require.NoError(t, w.Flush(), "flush before any write is a no-op")
	require.NoError(t, w.Write(Record{Agent: "a"}))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, ReadFile(filepath.Join(dir, "missing.zst"), func(Record) error { return nil }), os.ErrNotExist)

	w := NewWriter(dir, "bad")
	w.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, w.Write(map[string]any{"agent": 7}))
	require.NoError(t, w.Close())
	err := ReadFile(filepath.Join(dir, "bad-2026-03-01-09.jsonl.zst"), func(Record) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":1: unmarshal")
}
