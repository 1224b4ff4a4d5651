package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vultisig/feedback-portal/internal/types"
)

const (
	MinRating = 1
	MaxRating = 5
)

var validate = validator.New()

var ErrRatingOutOfRange = fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)

/**
 * Feedback validator shared by the submitter and the backend client.
 * The review text is free form, only the rating is constrained.
 */
func ValidateFeedback(feedback types.FeedbackCreateDto) error {
	err := validate.Struct(feedback)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("fail to validate feedback: %w", err)
	}

	problems := make([]error, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		switch {
		case fieldErr.Tag() == "required":
			problems = append(problems, fmt.Errorf("%s is required", field))
		case field == "rating" && (fieldErr.Tag() == "min" || fieldErr.Tag() == "max"):
			problems = append(problems, ErrRatingOutOfRange)
		default:
			problems = append(problems, fmt.Errorf("%s is invalid", field))
		}
	}
	return fmt.Errorf("invalid feedback: %w", errors.Join(problems...))
}

func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
