// Package constants names the collections and tables shared by the repositories.
package constants

const (
	UsersCollection     = "users"
	ExercisesCollection = "exercises"

	// PostgreSQL side tables for the embedded user lists.
	UserTokensTable    = "user_tokens"
	UserExercisesTable = "user_exercises"
)
