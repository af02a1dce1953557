package exerciseservice

const (
	// Error messages for exercise service operations
	ErrFailedToCreateExercise = "failed to create exercise"
	ErrFailedToUpdateExercise = "failed to update exercise"
	ErrFailedToDeleteExercise = "failed to delete exercise"
	ErrRetrievingExercise     = "error retrieving exercise"
	ErrExerciseNotFound       = "exercise not found"
	ErrDanglingReference      = "exercise deleted but its reference on the user was not removed"

	descriptionRule = "required,min=1,max=50"
)
