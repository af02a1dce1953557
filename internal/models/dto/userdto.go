package dto

import "github.com/haguru/tracker/internal/models"

type UserSignupRequestDTO struct {
	Username string `json:"username" validate:"required,max=64,username"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UserResponseDTO is the public projection of a user returned on signup and login.
type UserResponseDTO struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Exercises []string `json:"exercises"`
}

// UserSummaryDTO is the projection used by the user lookup endpoints.
type UserSummaryDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type UsersListResponseDTO struct {
	Users []UserSummaryDTO `json:"users"`
}

// UserExercisesResponseDTO is the owner projection with populated exercises.
type UserExercisesResponseDTO struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Exercises []models.Exercise `json:"exercises"`
}

// NewUserResponse redacts the password hash and tokens from user.
func NewUserResponse(user *models.User) *UserResponseDTO {
	exercises := user.Exercises
	if exercises == nil {
		exercises = []string{}
	}
	return &UserResponseDTO{
		ID:        user.ID,
		Username:  user.Username,
		Exercises: exercises,
	}
}

func NewUserSummary(user *models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}
