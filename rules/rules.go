package rules

import "fmt"

//RoleRef identifies a guild role. Only the ID is authoritative; the label is a
//display convenience cached at rule-creation time and may go stale if the role
//is renamed.
type RoleRef struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

//Equal reports whether two references point at the same role.
func (r RoleRef) Equal(other RoleRef) bool {
	return r.ID == other.ID
}

func (r RoleRef) String() string {
	if r.Label != "" {
		return fmt.Sprintf("%v (%v)", r.Label, r.ID)
	}
	return r.ID
}

//SwapRule removes one role from a member whenever another role is gained.
//Rules are namespaced per guild (the scope) and carry a surrogate ID assigned
//at creation time so that a specific rule can be referred to unambiguously
//even when two rules are structurally identical.
type SwapRule struct {
	ID      string  `json:"id"`
	Scope   string  `json:"scope"`
	Trigger RoleRef `json:"trigger"`
	Remove  RoleRef `json:"remove"`
}

//Aggregate is the full rule set as held in memory and persisted to disk. The
//on-disk form is this struct serialized as a single JSON object.
type Aggregate struct {
	WelcomeRoleByScope map[string]RoleRef            `json:"welcomeRoleByScope"`
	SwapRules          []SwapRule                    `json:"swapRules"`
	ReactionBindings   map[string]map[string]RoleRef `json:"reactionBindings"`
}

//EmptyAggregate returns an aggregate with every collection initialized, so
//callers never have to branch on a nil map.
func EmptyAggregate() Aggregate {
	return Aggregate{
		WelcomeRoleByScope: map[string]RoleRef{},
		SwapRules:          nil,
		ReactionBindings:   map[string]map[string]RoleRef{},
	}
}

//Normalize repairs nil collections on an aggregate decoded from an external
//source such as a hand-edited config file.
func (a *Aggregate) Normalize() {
	if a.WelcomeRoleByScope == nil {
		a.WelcomeRoleByScope = map[string]RoleRef{}
	}
	if a.ReactionBindings == nil {
		a.ReactionBindings = map[string]map[string]RoleRef{}
	}
}
