package domain

import (
	"errors"
	"strings"
)

// Sentinel errors used across layers.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrImageTooLarge = errors.New("image too large")
	ErrNotAnImage    = errors.New("attachment is not an image")
)

// ValidationMessage is shown to the user when a draft is incomplete.
const ValidationMessage = "Please fill in title, ingredients, and steps."

// ValidationError lists the draft fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing " + strings.Join(e.Fields, ", ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
