package store

import (
	"github.com/sirupsen/logrus"

	"roleswap/rules"
)

//CreateReactionBinding starts a reaction binding on a message with one
//emoji-to-role mapping. A message may carry at most one binding; a second
//create is rejected with rules.ErrDuplicateBinding (use AddReactionMapping to
//extend an existing one).
func (s *Store) CreateReactionBinding(messageID, emojiKey string, role rules.RoleRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.agg.ReactionBindings[messageID]; exists {
		return rules.ErrDuplicateBinding
	}
	s.agg.ReactionBindings[messageID] = map[string]rules.RoleRef{emojiKey: role}
	logrus.Infof("Created reaction binding on message %v: emoji %v grants %v", messageID, emojiKey, role)
	return nil
}

//AddReactionMapping extends an existing binding with a further emoji-to-role
//mapping, replacing the entry for that emoji if one exists. Messages without a
//binding are rejected with rules.ErrUnknownBinding.
func (s *Store) AddReactionMapping(messageID, emojiKey string, role rules.RoleRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	binding, exists := s.agg.ReactionBindings[messageID]
	if !exists {
		return rules.ErrUnknownBinding
	}
	binding[emojiKey] = role
	logrus.Infof("Extended reaction binding on message %v: emoji %v grants %v", messageID, emojiKey, role)
	return nil
}

//RemoveReactionBinding deletes a message's binding together with all of its
//emoji mappings.
func (s *Store) RemoveReactionBinding(messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.agg.ReactionBindings[messageID]; !exists {
		return rules.ErrUnknownBinding
	}
	delete(s.agg.ReactionBindings, messageID)
	logrus.Infof("Removed reaction binding on message %v", messageID)
	return nil
}

//ResolveReactionRole looks up the role bound to an emoji on a message.
//Reactions on unbound messages or emoji are expected traffic, so this never
//errors; absence is reported through the bool.
func (s *Store) ResolveReactionRole(messageID, emojiKey string) (rules.RoleRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	binding, exists := s.agg.ReactionBindings[messageID]
	if !exists {
		return rules.RoleRef{}, false
	}
	role, ok := binding[emojiKey]
	return role, ok
}
