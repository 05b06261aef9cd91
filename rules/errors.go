package rules

import "errors"

//Validation and lifecycle errors surfaced by the rule store. Command front
//ends match on these with errors.Is and turn them into operator-facing
//rejections.
var (
	//ErrInvalidRule is returned for a self-referential swap rule.
	ErrInvalidRule = errors.New("a swap rule cannot remove its own trigger role")
	//ErrIndexOutOfRange is returned when a positional rule reference does not
	//exist within the scope.
	ErrIndexOutOfRange = errors.New("no swap rule exists at that position")
	//ErrUnknownRule is returned when a surrogate rule ID does not exist within
	//the scope.
	ErrUnknownRule = errors.New("no swap rule exists with that id")
	//ErrDuplicateBinding is returned when creating a reaction binding on a
	//message that already has one.
	ErrDuplicateBinding = errors.New("message already has a reaction binding")
	//ErrUnknownBinding is returned when extending or deleting a reaction
	//binding on a message that has none.
	ErrUnknownBinding = errors.New("message has no reaction binding")
	//ErrStorageUnavailable wraps failures to read or write the backing file.
	ErrStorageUnavailable = errors.New("rule storage unavailable")
)
