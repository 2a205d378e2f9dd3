package chat

import "errors"

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username must be 20 characters or fewer")
	ErrRoomRequired     = errors.New("room name is required")
	ErrRoomTooLong      = errors.New("room name must be 20 characters or fewer")
	ErrMessageEmpty     = errors.New("message is empty")
	ErrMessageTooLong   = errors.New("message must be 500 characters or fewer")

	ErrNameTaken        = errors.New("username already taken in this room")
	ErrIdentityMismatch = errors.New("message author does not match session")
	ErrNotInRoom        = errors.New("not in a room")

	// ErrAlreadyPresent should be unreachable: Join checks for a name
	// conflict before touching the member set.
	ErrAlreadyPresent = errors.New("member already present in room")
)
