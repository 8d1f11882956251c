// Package drag turns pointer movement over a grid of notes into reorder
// commands against the note store.
package drag

import (
	"fmt"
	"slices"
	"sync"

	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/store"

	"github.com/rs/zerolog/log"
)

// Reorderer is the part of the note store the engine drives.
type Reorderer interface {
	Reorder(from, to int) (store.Snapshot, error)
}

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TieBreak decides which sibling wins when the dragged box collides with
// several at once.
type TieBreak int

const (
	// LowestIndex picks the colliding sibling with the smallest index.
	LowestIndex TieBreak = iota
	// LargestOverlap picks the sibling sharing the most area, lowest index on
	// equal area.
	LargestOverlap
)

type Option func(*Engine)

func WithTieBreak(tieBreak TieBreak) Option {
	return func(e *Engine) {
		e.tieBreak = tieBreak
	}
}

// MoveResult describes what a single drag move did.
type MoveResult struct {
	Swapped  bool
	From     int
	To       int
	Snapshot store.Snapshot
}

// Engine holds the position cache for the rendered notes and the state of
// the current drag. Swaps are applied as soon as a collision is seen and are
// never rolled back.
type Engine struct {
	mu        sync.Mutex
	reorderer Reorderer
	tieBreak  TieBreak

	positions   []models.Position
	state       State
	activeIndex int

	// set for the length of a drag: the sibling boxes taken at drag start,
	// kept in step with the notes, and the dragged item's starting box
	dragPositions []models.Position
	origin        models.Position

	// layout reported while dragging, applied when the drag finishes
	pendingLayout []models.Position
}

func NewEngine(reorderer Reorderer, opts ...Option) *Engine {
	e := &Engine{
		reorderer:   reorderer,
		tieBreak:    LowestIndex,
		activeIndex: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPosition records the rendered box of the item at index. During a drag
// the update is held back until the drag finishes.
func (e *Engine) SetPosition(index int, position models.Position) {
	if index < 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Dragging {
		if e.pendingLayout == nil {
			e.pendingLayout = slices.Clone(e.dragPositions)
		}
		e.pendingLayout = setAt(e.pendingLayout, index, position)
		return
	}
	e.positions = setAt(e.positions, index, position)
}

func setAt(positions []models.Position, index int, position models.Position) []models.Position {
	if index >= len(positions) {
		positions = append(positions, make([]models.Position, index+1-len(positions))...)
	}
	positions[index] = position
	return positions
}

// ResetPositions replaces the whole cache after the set of rendered items
// changed. During a drag the new layout replaces the cache once the drag
// finishes.
func (e *Engine) ResetPositions(positions []models.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Dragging {
		e.pendingLayout = append([]models.Position{}, positions...)
		return
	}
	e.positions = slices.Clone(positions)
}

// Positions returns the cache the engine is working from: the drag-start
// boxes, reordered along with the notes, while a drag is in progress.
func (e *Engine) Positions() []models.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Dragging {
		return slices.Clone(e.dragPositions)
	}
	return slices.Clone(e.positions)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ActiveIndex is the current index of the dragged item.
func (e *Engine) ActiveIndex() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeIndex, e.state == Dragging
}

func (e *Engine) DragStart(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Dragging {
		return ErrAlreadyDragging
	}
	if index < 0 || index >= len(e.positions) {
		return fmt.Errorf("%w: no position for item %d", store.ErrIndexOutOfRange, index)
	}
	e.state = Dragging
	e.activeIndex = index
	e.dragPositions = slices.Clone(e.positions)
	e.origin = e.positions[index]
	e.pendingLayout = nil
	log.Debug().Int("index", index).Int("items", len(e.positions)).Msg("drag started")
	return nil
}

// DragMove offsets the dragged item's drag-start box by delta, the pointer
// movement since the drag started, and moves it onto a colliding sibling if
// there is one. The dragged item keeps its identity across moves, so the next
// move must use the index reported in the result.
func (e *Engine) DragMove(index int, delta models.Point) (MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Dragging {
		return MoveResult{}, ErrNotDragging
	}
	if index != e.activeIndex {
		return MoveResult{}, fmt.Errorf("%w: got %d, dragging %d", ErrNotActiveItem, index, e.activeIndex)
	}
	if index < 0 || index >= len(e.dragPositions) {
		return MoveResult{}, fmt.Errorf("%w: no position for item %d", store.ErrIndexOutOfRange, index)
	}

	candidate := MergePointIntoPosition(e.origin, delta)
	target, ok := e.pickTarget(index, candidate)
	if !ok {
		return MoveResult{From: index, To: index}, nil
	}

	snapshot, err := e.reorderer.Reorder(index, target)
	if err != nil {
		return MoveResult{From: index, To: index}, err
	}
	// the boxes follow the notes they belong to
	e.dragPositions = store.ArrayMove(e.dragPositions, index, target)
	e.activeIndex = target
	swapsTotal.Inc()
	log.Debug().Int("from", index).Int("to", target).Msg("drag swap")

	return MoveResult{Swapped: true, From: index, To: target, Snapshot: snapshot}, nil
}

func (e *Engine) pickTarget(index int, candidate models.Position) (int, bool) {
	best, bestArea := -1, 0.0
	for i, position := range e.dragPositions {
		if i == index || !IsColliding(candidate, position) {
			continue
		}
		if e.tieBreak == LowestIndex {
			return i, true
		}
		if area := OverlapArea(candidate, position); area > bestArea {
			best, bestArea = i, area
		}
	}
	return best, best >= 0
}

// DragEnd finishes the drag and returns the dragged item's final index. The
// order left by the last swap stands.
func (e *Engine) DragEnd() (int, error) {
	return e.finish("ended")
}

// Cancel abandons the drag without undoing any swap already made.
func (e *Engine) Cancel() {
	_, _ = e.finish("cancelled")
}

func (e *Engine) finish(outcome string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Dragging {
		return -1, ErrNotDragging
	}
	final := e.activeIndex
	e.state = Idle
	e.activeIndex = -1
	if e.pendingLayout != nil {
		e.positions = e.pendingLayout
	} else {
		e.positions = e.dragPositions
	}
	e.dragPositions = nil
	e.pendingLayout = nil
	dragsTotal.WithLabelValues(outcome).Inc()
	log.Debug().Int("index", final).Str("outcome", outcome).Msg("drag finished")
	return final, nil
}
