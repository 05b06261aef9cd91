package discord

//Grant implements the engine's mutation sink by assigning a role over the
//REST API. Errors are returned for the engine to log; nothing here retries.
func (d *EventSource) Grant(scope, memberID, roleID string) error {
	return d.discordClient.GuildMemberRoleAdd(scope, memberID, roleID)
}

//Revoke removes a role over the REST API.
func (d *EventSource) Revoke(scope, memberID, roleID string) error {
	return d.discordClient.GuildMemberRoleRemove(scope, memberID, roleID)
}
