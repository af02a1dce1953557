package models

// Exercise is a single log entry owned by the user in CreatorID.
type Exercise struct {
	ID          string  `json:"id" mapstructure:"id" db:"id"`
	Description string  `json:"description" mapstructure:"description" db:"description"`
	Duration    float64 `json:"duration" mapstructure:"duration" db:"duration"`
	Date        int64   `json:"date" mapstructure:"date" db:"date"`
	CreatorID   string  `json:"creatorId" mapstructure:"creator_id" db:"creator_id"`
}

// ExerciseInput carries the client supplied fields of a create or update.
// Nil fields were not sent.
type ExerciseInput struct {
	Description *string
	Duration    *float64
	Date        *int64
}

// ExerciseUpdate is the validated set of fields applied by an update.
type ExerciseUpdate struct {
	Description *string
	Duration    *float64
	Date        int64
}
