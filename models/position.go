package models

// Position is an item's bounding box as last laid out on screen.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a pointer offset relative to where the drag started.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
