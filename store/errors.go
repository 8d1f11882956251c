package store

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every input error rejected before a request
// is made. Test with errors.Is(err, ErrValidation).
var ErrValidation = errors.New("validation error")

var (
	ErrEmptyTitle           = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong         = fmt.Errorf("%w: title is too long", ErrValidation)
	ErrDescriptionTooLong   = fmt.Errorf("%w: description is too long", ErrValidation)
	ErrCategoryNamesCollide = fmt.Errorf("%w: category names collide", ErrValidation)
	ErrEmptyCategoryName    = fmt.Errorf("%w: category name is required", ErrValidation)
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoteNotFound    = errors.New("note not found")
	ErrNoGateway       = errors.New("store has no persistence gateway")
)
