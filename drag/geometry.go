package drag

import (
	"slices"

	"jotfox-notes/jotfox/models"
)

// MergePointIntoPosition offsets a box by a pointer delta, keeping its size.
func MergePointIntoPosition(position models.Position, point models.Point) models.Position {
	position.X += point.X
	position.Y += point.Y
	return position
}

// IsColliding reports whether two boxes overlap by a non-zero amount on both
// axes. Boxes that only touch along an edge do not collide.
func IsColliding(a, b models.Position) bool {
	return overlap(a.X, a.Width, b.X, b.Width) > 0 && overlap(a.Y, a.Height, b.Y, b.Height) > 0
}

// OverlapArea is the area shared by two boxes, zero when they do not collide.
func OverlapArea(a, b models.Position) float64 {
	if !IsColliding(a, b) {
		return 0
	}
	return overlap(a.X, a.Width, b.X, b.Width) * overlap(a.Y, a.Height, b.Y, b.Height)
}

func overlap(startA, lenA, startB, lenB float64) float64 {
	return min(startA+lenA, startB+lenB) - max(startA, startB)
}

// SwapPosition returns a copy of items with the elements at i and j
// exchanged. The input is never modified.
func SwapPosition[T any](items []T, i, j int) []T {
	out := slices.Clone(items)
	out[i], out[j] = out[j], out[i]
	return out
}
