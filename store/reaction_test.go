package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roleswap/rules"
)

func TestReactionBindingLifecycle(t *testing.T) {
	st := Open(tempStorePath(t))

	require.NoError(t, st.CreateReactionBinding("msg1", "🎉", rules.RoleRef{ID: "roleX"}))

	err := st.CreateReactionBinding("msg1", "🎈", rules.RoleRef{ID: "roleY"})
	assert.ErrorIs(t, err, rules.ErrDuplicateBinding)

	require.NoError(t, st.AddReactionMapping("msg1", "🎈", rules.RoleRef{ID: "roleY"}))

	role, ok := st.ResolveReactionRole("msg1", "🎈")
	require.True(t, ok)
	assert.Equal(t, "roleY", role.ID)
	role, ok = st.ResolveReactionRole("msg1", "🎉")
	require.True(t, ok)
	assert.Equal(t, "roleX", role.ID)
}

func TestAddReactionMappingRequiresBinding(t *testing.T) {
	st := Open(tempStorePath(t))

	err := st.AddReactionMapping("msg1", "🎉", rules.RoleRef{ID: "roleX"})
	assert.ErrorIs(t, err, rules.ErrUnknownBinding)
}

func TestRemoveReactionBindingDropsAllMappings(t *testing.T) {
	st := Open(tempStorePath(t))
	require.NoError(t, st.CreateReactionBinding("msg1", "🎉", rules.RoleRef{ID: "roleX"}))
	require.NoError(t, st.AddReactionMapping("msg1", "🎈", rules.RoleRef{ID: "roleY"}))

	require.NoError(t, st.RemoveReactionBinding("msg1"))

	_, ok := st.ResolveReactionRole("msg1", "🎉")
	assert.False(t, ok)
	_, ok = st.ResolveReactionRole("msg1", "🎈")
	assert.False(t, ok)

	err := st.RemoveReactionBinding("msg1")
	assert.ErrorIs(t, err, rules.ErrUnknownBinding)
}

func TestResolveReactionRoleOnUnknownMessage(t *testing.T) {
	st := Open(tempStorePath(t))

	_, ok := st.ResolveReactionRole("msg1", "🎉")
	assert.False(t, ok)
}
