package store

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roleswap/rules"
)

//AddSwapRule appends a swap rule for the given guild and returns its
//positional index within that guild. A rule whose trigger and remove role are
//the same is rejected with rules.ErrInvalidRule.
func (s *Store) AddSwapRule(scope string, trigger, remove rules.RoleRef) (int, error) {
	if trigger.Equal(remove) {
		return 0, rules.ErrInvalidRule
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rule := rules.SwapRule{
		ID:      uuid.NewString(),
		Scope:   scope,
		Trigger: trigger,
		Remove:  remove,
	}
	s.agg.SwapRules = append(s.agg.SwapRules, rule)
	index := 0
	for _, existing := range s.agg.SwapRules[:len(s.agg.SwapRules)-1] {
		if existing.Scope == scope {
			index++
		}
	}
	logrus.Infof("Added swap rule %v for guild %v: gaining %v removes %v", rule.ID, scope, trigger, remove)
	return index, nil
}

//RemoveSwapRule removes the rule at the given position within the guild's
//insertion-ordered rule list. Positions outside [0, count) are rejected with
//rules.ErrIndexOutOfRange and leave the store untouched.
func (s *Store) RemoveSwapRule(scope string, index int) (rules.SwapRule, error) {
	if index < 0 {
		return rules.SwapRule{}, rules.ErrIndexOutOfRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := 0
	for i, rule := range s.agg.SwapRules {
		if rule.Scope != scope {
			continue
		}
		if seen == index {
			s.agg.SwapRules = append(s.agg.SwapRules[:i], s.agg.SwapRules[i+1:]...)
			logrus.Infof("Removed swap rule %v (position %v) from guild %v", rule.ID, index, scope)
			return rule, nil
		}
		seen++
	}
	return rules.SwapRule{}, rules.ErrIndexOutOfRange
}

//RemoveSwapRuleByID removes the rule with the given surrogate ID from the
//guild. Unknown IDs are rejected with rules.ErrUnknownRule.
func (s *Store) RemoveSwapRuleByID(scope, id string) (rules.SwapRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rule := range s.agg.SwapRules {
		if rule.Scope != scope || rule.ID != id {
			continue
		}
		s.agg.SwapRules = append(s.agg.SwapRules[:i], s.agg.SwapRules[i+1:]...)
		logrus.Infof("Removed swap rule %v from guild %v", rule.ID, scope)
		return rule, nil
	}
	return rules.SwapRule{}, rules.ErrUnknownRule
}

//ListSwapRules returns the guild's swap rules in insertion order. The result
//is a snapshot; mutating it does not affect the store.
func (s *Store) ListSwapRules(scope string) []rules.SwapRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []rules.SwapRule
	for _, rule := range s.agg.SwapRules {
		if rule.Scope == scope {
			res = append(res, rule)
		}
	}
	return res
}

//AllSwapRules returns every stored swap rule across all guilds, in insertion
//order, as a snapshot.
func (s *Store) AllSwapRules() []rules.SwapRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]rules.SwapRule, len(s.agg.SwapRules))
	copy(res, s.agg.SwapRules)
	return res
}
