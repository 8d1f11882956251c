package services

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoteNotFound        = errors.New("note not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternal            = errors.New("internal server error")
	ErrResourceExists      = errors.New("resource already exists")
	ErrValidation          = errors.New("validation error")
	ErrWebSocketConnection = errors.New("websocket connection error")
)

var (
	ErrTitleRequired        = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong         = fmt.Errorf("%w: title is too long", ErrValidation)
	ErrDescriptionTooLong   = fmt.Errorf("%w: description is too long", ErrValidation)
	ErrCategoryNameRequired = fmt.Errorf("%w: category name is required", ErrValidation)
	ErrCategoryNamesCollide = fmt.Errorf("%w: category names collide", ErrValidation)
)
