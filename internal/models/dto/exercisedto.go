package dto

import "github.com/haguru/tracker/internal/models"

// ExerciseRequestDTO is the body of create and update requests.
// Pointers distinguish omitted fields from zero values.
type ExerciseRequestDTO struct {
	Description *string  `json:"description"`
	Duration    *float64 `json:"duration"`
	// Date accepts any JSON number; fractional milliseconds are truncated.
	Date *float64 `json:"date"`
}

func (d *ExerciseRequestDTO) ToInput() models.ExerciseInput {
	input := models.ExerciseInput{
		Description: d.Description,
		Duration:    d.Duration,
	}
	if d.Date != nil {
		date := int64(*d.Date)
		input.Date = &date
	}
	return input
}
