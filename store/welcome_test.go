package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roleswap/rules"
)

func TestWelcomeRolePerGuild(t *testing.T) {
	st := Open(tempStorePath(t))

	st.SetWelcomeRole("G1", rules.RoleRef{ID: "roleA"})
	st.SetWelcomeRole("G2", rules.RoleRef{ID: "roleB"})

	role, ok := st.WelcomeRole("G1")
	require.True(t, ok)
	assert.Equal(t, "roleA", role.ID)
	role, ok = st.WelcomeRole("G2")
	require.True(t, ok)
	assert.Equal(t, "roleB", role.ID)
}

func TestSetWelcomeRoleReplaces(t *testing.T) {
	st := Open(tempStorePath(t))

	st.SetWelcomeRole("G1", rules.RoleRef{ID: "roleA"})
	st.SetWelcomeRole("G1", rules.RoleRef{ID: "roleB"})

	role, ok := st.WelcomeRole("G1")
	require.True(t, ok)
	assert.Equal(t, "roleB", role.ID)
}

func TestClearWelcomeRole(t *testing.T) {
	st := Open(tempStorePath(t))
	st.SetWelcomeRole("G1", rules.RoleRef{ID: "roleA"})

	st.ClearWelcomeRole("G1")
	_, ok := st.WelcomeRole("G1")
	assert.False(t, ok)

	//Clearing a guild with nothing configured is a no-op
	st.ClearWelcomeRole("G1")
	st.ClearWelcomeRole("G2")
}
