package userservice

const (
	// Error messages for user service operations
	ErrFailedToHashPassword = "failed to hash password" // #nosec G101
	ErrFailedToRegisterUser = "failed to register user"
	ErrFailedToIssueToken   = "failed to issue token"
	ErrFailedToLogout       = "failed to log out user"
	ErrRetrievingUser       = "error retrieving user"
	ErrUserNotFound         = "user not found"
	ErrInvalidPassword      = "invalid password"

	// DefaultBcryptCost is used when no cost is configured.
	DefaultBcryptCost = 10
)
