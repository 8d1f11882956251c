package drag

import "errors"

var (
	ErrAlreadyDragging = errors.New("a drag is already in progress")
	ErrNotDragging     = errors.New("no drag in progress")
	ErrNotActiveItem   = errors.New("item is not the one being dragged")
)
