package engine

import "roleswap/rules"

//Event is the sum of all platform notifications the engine reconciles. The
//event source is responsible for delivering complete role-set snapshots (not
//deltas) and for filtering out reactions authored by the bot itself.
type Event interface {
	event()
}

//MemberRolesChanged reports a member's role set transitioning from Previous
//to Current within a guild.
type MemberRolesChanged struct {
	Scope    string
	MemberID string
	Previous []string
	Current  []string
}

//MemberJoined reports a new member arriving in a guild.
type MemberJoined struct {
	Scope    string
	MemberID string
}

//ReactionDirection distinguishes adding a reaction from removing one.
type ReactionDirection int

const (
	//ReactionAdded means the member clicked the reaction.
	ReactionAdded ReactionDirection = iota
	//ReactionRemoved means the member withdrew the reaction.
	ReactionRemoved
)

//ReactionToggled reports a member adding or removing a reaction on a message.
//MemberRoles is the member's complete current role set, needed to decide
//whether a bound role is already held.
type ReactionToggled struct {
	Scope       string
	MessageID   string
	EmojiKey    string
	MemberID    string
	Direction   ReactionDirection
	MemberRoles []string
}

func (MemberRolesChanged) event() {}
func (MemberJoined) event()       {}
func (ReactionToggled) event()    {}

//Operation is the kind of role mutation being attempted.
type Operation int

const (
	//OpGrant assigns a role to a member.
	OpGrant Operation = iota
	//OpRevoke removes a role from a member.
	OpRevoke
)

func (o Operation) String() string {
	switch o {
	case OpGrant:
		return "grant"
	case OpRevoke:
		return "revoke"
	default:
		return "unknown"
	}
}

//DenyReason is the machine-readable cause attached to a denied authorization.
type DenyReason string

const (
	//DenyMissingCapability means the bot lacks role-management permission in
	//the guild.
	DenyMissingCapability DenyReason = "missing_capability"
	//DenyInsufficientRank means the target role sits at or above the bot's
	//highest role in the guild hierarchy.
	DenyInsufficientRank DenyReason = "insufficient_rank"
)

//Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

//Authorized is the allow decision.
var Authorized = Decision{Allowed: true}

//Denied constructs a deny decision carrying its reason.
func Denied(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

//Gate checks, before any mutation is issued, that the bot's own membership
//holds both role-management capability and strictly higher hierarchy rank
//than the target role. Checking locally makes platform-side permission
//failures synchronous and attributable instead of surfacing nondeterministically
//mid-reconciliation.
type Gate interface {
	Authorize(scope string, target rules.RoleRef, op Operation) Decision
}

//Sink consumes the role mutations the engine decides on. Failures are
//returned as ordinary errors so the engine's log-and-continue policy can
//apply; the sink must never panic on platform faults.
type Sink interface {
	Grant(scope, memberID, roleID string) error
	Revoke(scope, memberID, roleID string) error
}

//RuleSource is the read-only view of the rule store the engine consults on
//each pass.
type RuleSource interface {
	ListSwapRules(scope string) []rules.SwapRule
	WelcomeRole(scope string) (rules.RoleRef, bool)
	ResolveReactionRole(messageID, emojiKey string) (rules.RoleRef, bool)
}
