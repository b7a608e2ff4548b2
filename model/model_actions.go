package model

import (
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minefield/random"
)

type BoardOption func(b *Board)

// WithSeed makes mine placement reproducible.
func WithSeed(seed int64) BoardOption {
	return func(b *Board) {
		b.rnd = rand.New(rand.NewSource(seed))
	}
}

func WithRand(r *rand.Rand) BoardOption {
	return func(b *Board) {
		b.rnd = r
	}
}

// WithLayout pins the mines to the given positions, on construction and on
// every restart.
func WithLayout(mines []Position) BoardOption {
	return func(b *Board) {
		b.layout = append([]Position(nil), mines...)
		b.fixed = true
	}
}

// MaxCells bounds the size of any board.
const MaxCells = 1 << 24

// Validate checks a board configuration without building it.
func Validate(rows, cols, mines int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%dx%d: %w", rows, cols, ErrInvalidDimensions)
	}
	if rows > MaxCells/cols {
		return fmt.Errorf("%dx%d exceeds %d cells: %w", rows, cols, MaxCells, ErrInvalidDimensions)
	}
	if mines < 0 {
		return fmt.Errorf("%d mines: %w", mines, ErrNegativeMines)
	}
	if mines >= rows*cols {
		return fmt.Errorf("%d mines on %d cells: %w", mines, rows*cols, ErrTooManyMines)
	}
	return nil
}

func NewBoard(rows, cols, mines int, opts ...BoardOption) (*Board, error) {
	if err := Validate(rows, cols, mines); err != nil {
		return nil, err
	}

	b := &Board{rows: rows, cols: cols, mines: mines}
	for _, opt := range opts {
		opt(b)
	}
	if b.fixed {
		if err := b.checkLayout(); err != nil {
			return nil, err
		}
	}
	if b.rnd == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed board: %w", err)
		}
		b.rnd = rand.New(rand.NewSource(seed))
	}

	// create
	b.cells = make([]*Cell, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := NewCell(r, c)
			cell.OnEvent(b.onCellEvent)
			b.cells = append(b.cells, cell)
		}
	}
	// connect
	for _, cell := range b.cells {
		for r := cell.row - 1; r <= cell.row+1; r++ {
			for c := cell.col - 1; c <= cell.col+1; c++ {
				if other, ok := b.Cell(r, c); ok {
					cell.AddNeighbor(other)
				}
			}
		}
	}

	b.placeMines()
	return b, nil
}

func (b *Board) checkLayout() error {
	if len(b.layout) != b.mines {
		return fmt.Errorf("%d positions for %d mines: %w", len(b.layout), b.mines, ErrInvalidLayout)
	}
	seen := make(map[Position]bool, len(b.layout))
	for _, p := range b.layout {
		if !b.inside(p.Row, p.Col) {
			return fmt.Errorf("position %d,%d outside %dx%d: %w", p.Row, p.Col, b.rows, b.cols, ErrInvalidLayout)
		}
		if seen[p] {
			return fmt.Errorf("position %d,%d repeated: %w", p.Row, p.Col, ErrInvalidLayout)
		}
		seen[p] = true
	}
	return nil
}

func (b *Board) Rows() int  { return b.rows }
func (b *Board) Cols() int  { return b.cols }
func (b *Board) Mines() int { return b.mines }

func (b *Board) inside(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Cell looks a cell up by coordinate.
func (b *Board) Cell(row, col int) (*Cell, bool) {
	if !b.inside(row, col) {
		return nil, false
	}
	return b.cells[row*b.cols+col], true
}

// ForEachCell visits cells in row-major order.
func (b *Board) ForEachCell(fn func(c *Cell)) {
	for _, c := range b.cells {
		fn(c)
	}
}

func (b *Board) OnResult(o ResultObserver) {
	b.observers = append(b.observers, o)
}

func (b *Board) notify(won bool) {
	result := RoundResult{Won: won}
	log.WithFields(log.Fields{"won": won, "rows": b.rows, "cols": b.cols}).Debug("round over")
	for _, o := range b.observers {
		o(result)
	}
}

// Reveal is a no-op outside the grid.
func (b *Board) Reveal(row, col int) {
	if c, ok := b.Cell(row, col); ok {
		c.Reveal()
	}
}

func (b *Board) ToggleFlag(row, col int) {
	if c, ok := b.Cell(row, col); ok {
		c.ToggleFlag()
	}
}

func (b *Board) ObjectiveReached() bool {
	for _, c := range b.cells {
		if !c.ObjectiveMet() {
			return false
		}
	}
	return true
}

func (b *Board) MinedCount() int {
	count := 0
	for _, c := range b.cells {
		if c.mined {
			count++
		}
	}
	return count
}

func (b *Board) FlagCount() int {
	count := 0
	for _, c := range b.cells {
		if c.flagged {
			count++
		}
	}
	return count
}

// Restart resets every cell and places the mines again. Cells and their
// adjacency are reused.
func (b *Board) Restart() {
	for _, c := range b.cells {
		c.reset()
	}
	b.placeMines()
}

func (b *Board) placeMines() {
	if b.fixed {
		for _, p := range b.layout {
			b.cells[p.Row*b.cols+p.Col].mark()
		}
	} else {
		// marking is idempotent, so a repeated pick is just another try
		for armed := b.MinedCount(); armed < b.mines; armed = b.MinedCount() {
			b.cells[b.rnd.Intn(len(b.cells))].mark()
		}
	}
	log.WithFields(log.Fields{
		"rows":  b.rows,
		"cols":  b.cols,
		"mines": b.mines,
		"fixed": b.fixed,
	}).Debug("mines placed")
}

func (b *Board) onCellEvent(c *Cell, e CellEvent) {
	if e == EventExplode {
		b.showMines()
		b.notify(false)
	} else if b.ObjectiveReached() {
		b.notify(true)
	}
}

func (b *Board) showMines() {
	for _, c := range b.cells {
		if c.mined && !c.flagged {
			c.setOpen(true)
		}
	}
}
