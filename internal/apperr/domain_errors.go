package apperr

var (
	ErrUserNotFound         = NotFound("user not found")
	ErrSkillNotFound        = NotFound("skill not found")
	ErrRequestNotFound      = NotFound("request not found")
	ErrNotificationNotFound = NotFound("notification not found")
	ErrRoomNotFound         = NotFound("chat room not found")

	ErrSelfRequest      = InvalidArg("cannot request your own skill")
	ErrDuplicateRequest = Conflict("request already sent for this skill")
	ErrEmailTaken       = Conflict("email already registered")
	ErrNotEnoughPoints  = InsufficientBalance("not enough points (need 5)")
	ErrAlreadyDecided   = InvalidState("already in a terminal status")
)
