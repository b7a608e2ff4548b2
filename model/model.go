package model

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidDimensions = errors.New("board dimensions must be positive and bounded")
	ErrTooManyMines      = errors.New("mine count must be below the number of cells")
	ErrNegativeMines     = errors.New("mine count must not be negative")
	ErrInvalidLayout     = errors.New("mine layout does not fit the board")
)

type CellEvent int

const (
	EventOpen CellEvent = iota
	EventMark
	EventUnmark
	EventExplode
	EventReset
)

func (e CellEvent) Name() string {
	switch e {
	case EventOpen:
		return "OPEN"
	case EventMark:
		return "MARK"
	case EventUnmark:
		return "UNMARK"
	case EventExplode:
		return "EXPLODE"
	case EventReset:
		return "RESET"
	default:
		return fmt.Sprintf("n/a:%d", e)
	}
}

func (e CellEvent) String() string {
	return e.Name()
}

// CellObserver receives every event a cell emits, together with the cell.
type CellObserver func(c *Cell, e CellEvent)

// Cell is one grid position. Neighbors point back into the board's cells,
// the cell does not own them.
type Cell struct {
	row, col  int
	open      bool
	mined     bool
	flagged   bool
	neighbors []*Cell
	observers []CellObserver
}

type Position struct {
	Row, Col int
}

// RoundResult ends a round.
type RoundResult struct {
	Won bool
}

type ResultObserver func(r RoundResult)

type Board struct {
	rows, cols int
	mines      int
	cells      []*Cell
	layout     []Position
	fixed      bool
	rnd        *rand.Rand
	observers  []ResultObserver
}
