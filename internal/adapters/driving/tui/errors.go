package tui

import "errors"

// ErrMissingQuestionService is returned when the question service is not provided.
var ErrMissingQuestionService = errors.New("tui: question service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
