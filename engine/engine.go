//Package engine reconciles member state transitions against the configured
//rule set and decides which role mutations to issue. The engine keeps no
//state of its own between invocations; each event is a single pass over the
//rules read fresh from the store. Denied authorizations and failed mutations
//are logged and skipped, never retried and never allowed to abort the rest of
//a pass, so partial application is an accepted, observable outcome.
package engine

import (
	"github.com/sirupsen/logrus"
)

//Engine is the per-event reconciler.
type Engine struct {
	rules RuleSource
	gate  Gate
	sink  Sink
}

//New builds an engine over a rule source, an authorization gate and a
//mutation sink.
func New(rules RuleSource, gate Gate, sink Sink) *Engine {
	return &Engine{
		rules: rules,
		gate:  gate,
		sink:  sink,
	}
}

//Handle dispatches one event to the matching reconciliation pass. Unknown
//event types are ignored.
func (e *Engine) Handle(ev Event) {
	switch ev := ev.(type) {
	case MemberRolesChanged:
		e.reconcileRoleChange(ev)
	case MemberJoined:
		e.applyWelcomeRole(ev)
	case ReactionToggled:
		e.applyReactionToggle(ev)
	default:
		logrus.Warnf("Rule engine received an event of unexpected type %T", ev)
	}
}

//reconcileRoleChange runs every swap rule whose trigger was gained in this
//transition. The working set of held roles is updated as revocations succeed,
//so one pass is sequentially consistent: a role is revoked at most once even
//when several gained triggers target it, and a rule whose remove target was
//already revoked earlier in the same pass becomes a no-op.
func (e *Engine) reconcileRoleChange(ev MemberRolesChanged) {
	gained := newRoles(ev.Previous, ev.Current)
	if len(gained) == 0 {
		return
	}
	guildRules := e.rules.ListSwapRules(ev.Scope)
	if len(guildRules) == 0 {
		return
	}
	held := make(map[string]bool, len(ev.Current))
	for _, id := range ev.Current {
		held[id] = true
	}
	for _, gainedID := range gained {
		for _, rule := range guildRules {
			if rule.Trigger.ID != gainedID || !held[rule.Remove.ID] {
				continue
			}
			logrus.Infof("Swap rule %v matched for member %v in guild %v: gained %v, removing %v",
				rule.ID, ev.MemberID, ev.Scope, rule.Trigger, rule.Remove)
			decision := e.gate.Authorize(ev.Scope, rule.Remove, OpRevoke)
			if !decision.Allowed {
				logrus.Warnf("Not authorized to remove role %v from member %v in guild %v: %v",
					rule.Remove, ev.MemberID, ev.Scope, decision.Reason)
				continue
			}
			if err := e.sink.Revoke(ev.Scope, ev.MemberID, rule.Remove.ID); err != nil {
				logrus.Warnf("Failed to remove role %v from member %v in guild %v due to error %v",
					rule.Remove, ev.MemberID, ev.Scope, err)
				continue
			}
			delete(held, rule.Remove.ID)
		}
	}
}

//applyWelcomeRole grants the guild's configured welcome role to a new member.
//A guild without one is silent; a denied or failed grant is logged and not
//retried, so the member simply does not receive the role.
func (e *Engine) applyWelcomeRole(ev MemberJoined) {
	role, ok := e.rules.WelcomeRole(ev.Scope)
	if !ok {
		return
	}
	decision := e.gate.Authorize(ev.Scope, role, OpGrant)
	if !decision.Allowed {
		logrus.Warnf("Not authorized to grant welcome role %v to member %v in guild %v: %v",
			role, ev.MemberID, ev.Scope, decision.Reason)
		return
	}
	if err := e.sink.Grant(ev.Scope, ev.MemberID, role.ID); err != nil {
		logrus.Warnf("Failed to grant welcome role %v to member %v in guild %v due to error %v",
			role, ev.MemberID, ev.Scope, err)
		return
	}
	logrus.Infof("Granted welcome role %v to member %v in guild %v", role, ev.MemberID, ev.Scope)
}

//applyReactionToggle grants or revokes the role bound to a reaction. Unbound
//messages and emoji are expected traffic and stay silent; toggles that would
//not change the member's role set are no-ops.
func (e *Engine) applyReactionToggle(ev ReactionToggled) {
	role, ok := e.rules.ResolveReactionRole(ev.MessageID, ev.EmojiKey)
	if !ok {
		return
	}
	holds := false
	for _, id := range ev.MemberRoles {
		if id == role.ID {
			holds = true
			break
		}
	}
	switch ev.Direction {
	case ReactionAdded:
		if holds {
			return
		}
		decision := e.gate.Authorize(ev.Scope, role, OpGrant)
		if !decision.Allowed {
			logrus.Warnf("Not authorized to grant reaction role %v to member %v in guild %v: %v",
				role, ev.MemberID, ev.Scope, decision.Reason)
			return
		}
		if err := e.sink.Grant(ev.Scope, ev.MemberID, role.ID); err != nil {
			logrus.Warnf("Failed to grant reaction role %v to member %v in guild %v due to error %v",
				role, ev.MemberID, ev.Scope, err)
			return
		}
		logrus.Infof("Granted reaction role %v to member %v in guild %v (message %v, emoji %v)",
			role, ev.MemberID, ev.Scope, ev.MessageID, ev.EmojiKey)
	case ReactionRemoved:
		if !holds {
			return
		}
		decision := e.gate.Authorize(ev.Scope, role, OpRevoke)
		if !decision.Allowed {
			logrus.Warnf("Not authorized to revoke reaction role %v from member %v in guild %v: %v",
				role, ev.MemberID, ev.Scope, decision.Reason)
			return
		}
		if err := e.sink.Revoke(ev.Scope, ev.MemberID, role.ID); err != nil {
			logrus.Warnf("Failed to revoke reaction role %v from member %v in guild %v due to error %v",
				role, ev.MemberID, ev.Scope, err)
			return
		}
		logrus.Infof("Revoked reaction role %v from member %v in guild %v (message %v, emoji %v)",
			role, ev.MemberID, ev.Scope, ev.MessageID, ev.EmojiKey)
	}
}

//newRoles returns the role IDs present in current but not in previous, in
//current's order.
func newRoles(previous, current []string) []string {
	if len(current) == 0 {
		return nil
	}
	before := make(map[string]bool, len(previous))
	for _, id := range previous {
		before[id] = true
	}
	var gained []string
	for _, id := range current {
		if !before[id] {
			gained = append(gained, id)
		}
	}
	return gained
}
