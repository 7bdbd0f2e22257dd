package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrPlayerNotFound indicates the player has not joined the quiz.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrResponseNotFound indicates no submission exists for a (player, quiz) pair.
	ErrResponseNotFound = errors.New("response not found")
	// ErrDuplicateSubmission is returned when a player submits a second
	// answer set for the same quiz. The first stored response is untouched.
	ErrDuplicateSubmission = errors.New("player has already submitted a response for this quiz")
)

// ValidationError reports malformed input on quiz creation or submission.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
