package models

import (
	"errors"
)

var (
	ErrEmptyQuery       = errors.New("empty query")
	ErrCategoryNotFound = errors.New("category not found")

	ErrDatasetMissing = errors.New("dataset file missing")
	ErrDatasetInvalid = errors.New("dataset file invalid")

	ErrModelUnavailable     = errors.New("language model unavailable")
	ErrMalformedModelOutput = errors.New("malformed language model output")
)
