package models

const (
	// AccessAuth is the only access kind issued for session tokens.
	AccessAuth = "auth"
)

// Token is a single session entry stored on the user record.
type Token struct {
	Access string `json:"access" mapstructure:"access" db:"access"`
	Token  string `json:"token" mapstructure:"token" db:"token"`
}

// User represents an internal user model for the application/database.
// Tokens and Exercises are loaded by the repository, not scanned from the user row.
type User struct {
	ID             string   `mapstructure:"id" db:"id"`
	Username       string   `mapstructure:"username" db:"username"`
	HashedPassword string   `mapstructure:"hashed_password" db:"hashed_password"`
	Tokens         []Token  `mapstructure:"-" db:"-"`
	Exercises      []string `mapstructure:"-" db:"-"`
}

// NewUser creates a pending User with the given username and hashed password.
// Note: No validation is performed here and the ID is left for the store.
func NewUser(username string, hashedPassword string) *User {
	return &User{
		Username:       username,
		HashedPassword: hashedPassword,
		Tokens:         []Token{},
		Exercises:      []string{},
	}
}

// IsPending reports whether the user has not been persisted yet.
func (u *User) IsPending() bool {
	return u.ID == ""
}

// HasToken reports whether the user holds the token with the given access kind.
func (u *User) HasToken(token, access string) bool {
	for _, t := range u.Tokens {
		if t.Token == token && t.Access == access {
			return true
		}
	}
	return false
}
