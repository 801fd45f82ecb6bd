package mealplan

import "errors"

// Sentinel validation errors for Request.Validate. These are distinct from
// pkg/errors.AppError: they signal a caller programming error (bad
// request shape) rather than a planner-runtime failure kind (spec.md §7).
var (
	ErrInvalidDays   = errors.New("days must be in [1,7]")
	ErrInvalidPeople = errors.New("people must be in [1,6]")
)
