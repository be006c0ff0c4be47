package domain

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type courseSet struct {
	Courses []Course `validate:"unique=Name,dive"`
}

// ValidateCourses checks field ranges and that course names are unique.
func ValidateCourses(courses []Course) error {
	return validate.Struct(courseSet{Courses: courses})
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	return validate
}
