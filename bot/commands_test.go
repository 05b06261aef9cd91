package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roleswap/rules"
	"roleswap/store"
)

//Command cores are exercised without a discord session; only the reply
//plumbing needs one.
func newTestBot(t *testing.T) (*RoleSwapBot, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roleswap.json")
	return &RoleSwapBot{Rules: store.Open(path)}, path
}

func TestAddSwapRuleCommand(t *testing.T) {
	b, path := newTestBot(t)

	result := b.addSwapRule("G1", "!addswap a b", rules.RoleRef{ID: "roleA"}, rules.RoleRef{ID: "roleB"})

	assert.IsType(t, ResponseSuccess{}, result)
	assert.Len(t, b.Rules.ListSwapRules("G1"), 1)
	_, err := os.Stat(path)
	assert.NoError(t, err, "a successful command persists immediately")
}

func TestAddSwapRuleCommandRejectsSelfSwap(t *testing.T) {
	b, path := newTestBot(t)

	result := b.addSwapRule("G1", "!addswap a a", rules.RoleRef{ID: "roleA"}, rules.RoleRef{ID: "roleA"})

	rejected, ok := result.(ResponseRejected)
	require.True(t, ok)
	assert.Equal(t, "InvalidRule", rejected.kind)
	assert.Empty(t, b.Rules.ListSwapRules("G1"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "a rejected command must not write the rule file")
}

func TestAddSwapRuleCommandReportsFailedSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "roleswap.json")
	b := &RoleSwapBot{Rules: store.Open(path)}

	result := b.addSwapRule("G1", "!addswap a b", rules.RoleRef{ID: "roleA"}, rules.RoleRef{ID: "roleB"})

	assert.IsType(t, ResponsePartialSuccess{}, result)
	//The in-memory mutation stands even though persistence failed
	assert.Len(t, b.Rules.ListSwapRules("G1"), 1)
}

func TestRemoveSwapRuleCommandOutOfRange(t *testing.T) {
	b, path := newTestBot(t)
	b.addSwapRule("G1", "!addswap a b", rules.RoleRef{ID: "roleA"}, rules.RoleRef{ID: "roleB"})
	b.addSwapRule("G1", "!addswap c d", rules.RoleRef{ID: "roleC"}, rules.RoleRef{ID: "roleD"})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	result := b.removeSwapRule("G1", "!removeswap 5", 5)

	rejected, ok := result.(ResponseRejected)
	require.True(t, ok)
	assert.Equal(t, "IndexOutOfRange", rejected.kind)
	assert.Len(t, b.Rules.ListSwapRules("G1"), 2)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a rejected removal must not rewrite the rule file")
}

func TestRemoveSwapRuleCommand(t *testing.T) {
	b, _ := newTestBot(t)
	b.addSwapRule("G1", "!addswap a b", rules.RoleRef{ID: "roleA"}, rules.RoleRef{ID: "roleB"})

	result := b.removeSwapRule("G1", "!removeswap 0", 0)

	assert.IsType(t, ResponseSuccess{}, result)
	assert.Empty(t, b.Rules.ListSwapRules("G1"))
}

func TestListSwapRulesCommand(t *testing.T) {
	b, _ := newTestBot(t)

	empty := b.listSwapRules("G1", "!listswaps")
	assert.Contains(t, empty.(ResponseSuccess).description, "No swap rules")

	b.addSwapRule("G1", "!addswap a b", rules.RoleRef{ID: "roleA"}, rules.RoleRef{ID: "roleB"})
	listing := b.listSwapRules("G1", "!listswaps")
	assert.Contains(t, listing.(ResponseSuccess).description, "roleA")
	assert.Contains(t, listing.(ResponseSuccess).description, "roleB")
}

func TestWelcomeRoleCommands(t *testing.T) {
	b, _ := newTestBot(t)

	result := b.setWelcomeRole("G1", "!setwelcome r", rules.RoleRef{ID: "roleW"})
	assert.IsType(t, ResponseSuccess{}, result)
	role, ok := b.Rules.WelcomeRole("G1")
	require.True(t, ok)
	assert.Equal(t, "roleW", role.ID)

	result = b.clearWelcomeRole("G1", "!clearwelcome")
	assert.IsType(t, ResponseSuccess{}, result)
	_, ok = b.Rules.WelcomeRole("G1")
	assert.False(t, ok)
}

func TestReactionBindingCommands(t *testing.T) {
	b, _ := newTestBot(t)

	result := b.createReactionBinding("msg1", "🎉", rules.RoleRef{ID: "roleX"}, "!reactionrole create")
	assert.IsType(t, ResponseSuccess{}, result)

	result = b.createReactionBinding("msg1", "🎈", rules.RoleRef{ID: "roleY"}, "!reactionrole create")
	rejected, ok := result.(ResponseRejected)
	require.True(t, ok)
	assert.Equal(t, "DuplicateBinding", rejected.kind)

	result = b.extendReactionBinding("msg1", "🎈", rules.RoleRef{ID: "roleY"}, "!reactionrole add")
	assert.IsType(t, ResponseSuccess{}, result)

	result = b.extendReactionBinding("msg2", "🎈", rules.RoleRef{ID: "roleY"}, "!reactionrole add")
	rejected, ok = result.(ResponseRejected)
	require.True(t, ok)
	assert.Equal(t, "UnknownBinding", rejected.kind)

	result = b.deleteReactionBinding("msg1", "!reactionrole delete")
	assert.IsType(t, ResponseSuccess{}, result)
	_, found := b.Rules.ResolveReactionRole("msg1", "🎉")
	assert.False(t, found)
}
