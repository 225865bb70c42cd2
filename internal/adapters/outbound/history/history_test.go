package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/riskgate/riskgate/internal/adapters/outbound/history"
	"github.com/riskgate/riskgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	entry := domain.RunEntry{
		RunID:      "run-1",
		Timestamp:  "2026-02-25T10:00:00Z",
		CommitHash: "abc1234",
		Total:      4,
		Critical:   1,
		High:       2,
		Medium:     1,
		Failed:     true,
	}

	require.NoError(t, h.Save(dir, entry))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
	assert.FileExists(t, filepath.Join(dir, ".riskgate", "history", "runs.json"))
}

func TestHistory_AppendMultiple(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	require.NoError(t, h.Save(dir, domain.RunEntry{RunID: "a", Critical: 3, Failed: true}))
	require.NoError(t, h.Save(dir, domain.RunEntry{RunID: "b", Critical: 1, Failed: true}))
	require.NoError(t, h.Save(dir, domain.RunEntry{RunID: "c"}))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].RunID)
	assert.False(t, entries[2].Failed)
}

func TestHistory_LoadEmpty(t *testing.T) {
	entries, err := history.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	fp := history.Path(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0755))
	require.NoError(t, os.WriteFile(fp, []byte("not json"), 0644))

	_, err := history.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")

	assert.Error(t, history.New().Save(dir, domain.RunEntry{RunID: "x"}), "does not overwrite a corrupt file")
}

func TestHistory_CreatesDirectory(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "deep", "nested")
	h := history.New()

	require.NoError(t, h.Save(nestedDir, domain.RunEntry{RunID: "a"}))

	entries, err := h.Load(nestedDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
