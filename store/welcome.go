package store

import (
	"github.com/sirupsen/logrus"

	"roleswap/rules"
)

//SetWelcomeRole configures the role granted to new members of the guild,
//replacing any previous welcome role.
func (s *Store) SetWelcomeRole(scope string, role rules.RoleRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.WelcomeRoleByScope[scope] = role
	logrus.Infof("Set welcome role for guild %v to %v", scope, role)
}

//ClearWelcomeRole removes the guild's welcome role configuration. Clearing a
//guild that has none is a no-op.
func (s *Store) ClearWelcomeRole(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.agg.WelcomeRoleByScope, scope)
	logrus.Infof("Cleared welcome role for guild %v", scope)
}

//WelcomeRole returns the guild's configured welcome role, if any.
func (s *Store) WelcomeRole(scope string) (rules.RoleRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.agg.WelcomeRoleByScope[scope]
	return role, ok
}
