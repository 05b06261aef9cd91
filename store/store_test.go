package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roleswap/rules"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "roleswap.json")
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	st := Open(tempStorePath(t))

	assert.Empty(t, st.AllSwapRules())
	assert.Equal(t, Stats{}, st.Snapshot())
	_, ok := st.WelcomeRole("G1")
	assert.False(t, ok)
}

func TestOpenMalformedFileStartsEmpty(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st := Open(path)

	assert.Equal(t, Stats{}, st.Snapshot())
}

func TestSaveRoundtrip(t *testing.T) {
	path := tempStorePath(t)
	st := Open(path)
	_, err := st.AddSwapRule("G1", rules.RoleRef{ID: "roleA", Label: "Newbie"}, rules.RoleRef{ID: "roleB"})
	require.NoError(t, err)
	st.SetWelcomeRole("G1", rules.RoleRef{ID: "roleW"})
	require.NoError(t, st.CreateReactionBinding("msg1", "🎉", rules.RoleRef{ID: "roleX"}))
	require.NoError(t, st.Save())

	reloaded := Open(path)

	swaps := reloaded.ListSwapRules("G1")
	require.Len(t, swaps, 1)
	assert.Equal(t, st.ListSwapRules("G1")[0], swaps[0], "surrogate IDs must survive a reload")
	welcome, ok := reloaded.WelcomeRole("G1")
	require.True(t, ok)
	assert.Equal(t, "roleW", welcome.ID)
	role, ok := reloaded.ResolveReactionRole("msg1", "🎉")
	require.True(t, ok)
	assert.Equal(t, "roleX", role.ID)
}

func TestSaveWritesWellFormedJSONAndCleansUp(t *testing.T) {
	path := tempStorePath(t)
	st := Open(path)
	_, err := st.AddSwapRule("G1", rules.RoleRef{ID: "a"}, rules.RoleRef{ID: "b"})
	require.NoError(t, err)
	require.NoError(t, st.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var agg rules.Aggregate
	require.NoError(t, json.Unmarshal(raw, &agg))
	assert.Len(t, agg.SwapRules, 1)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may be left behind")
}

func TestSaveFailureIsStorageUnavailable(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "roleswap.json"))
	_, err := st.AddSwapRule("G1", rules.RoleRef{ID: "a"}, rules.RoleRef{ID: "b"})
	require.NoError(t, err)

	err = st.Save()

	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrStorageUnavailable)
	//In-memory state is not rolled back
	assert.Len(t, st.ListSwapRules("G1"), 1)
}
