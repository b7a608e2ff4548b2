package model

func NewCell(row, col int) *Cell {
	return &Cell{row: row, col: col}
}

func (c *Cell) Row() int        { return c.row }
func (c *Cell) Col() int        { return c.col }
func (c *Cell) IsOpen() bool    { return c.open }
func (c *Cell) IsClosed() bool  { return !c.open }
func (c *Cell) IsMined() bool   { return c.mined }
func (c *Cell) IsFlagged() bool { return c.flagged }

func (c *Cell) Position() Position {
	return Position{Row: c.row, Col: c.col}
}

// Neighbors returns a copy of the adjacency list.
func (c *Cell) Neighbors() []*Cell {
	n := make([]*Cell, len(c.neighbors))
	copy(n, c.neighbors)
	return n
}

// OnEvent registers an observer. Observers run synchronously in
// registration order.
func (c *Cell) OnEvent(o CellObserver) {
	c.observers = append(c.observers, o)
}

func (c *Cell) notify(e CellEvent) {
	for _, o := range c.observers {
		o(c, e)
	}
}

// AddNeighbor links other when it sits at Chebyshev distance 1.
// The link is one way; call it on both cells for a symmetric pair.
func (c *Cell) AddNeighbor(other *Cell) bool {
	dr := abs(c.row - other.row)
	dc := abs(c.col - other.col)
	if max(dr, dc) != 1 {
		return false
	}
	c.neighbors = append(c.neighbors, other)
	return true
}

func (c *Cell) ToggleFlag() {
	if c.open {
		return
	}
	c.flagged = !c.flagged
	if c.flagged {
		c.notify(EventMark)
	} else {
		c.notify(EventUnmark)
	}
}

// Reveal opens the cell and floods into its neighbors while the
// neighborhood holds no mine. A mined cell explodes and stays closed.
// Returns false when the cell was already open or flagged.
func (c *Cell) Reveal() bool {
	if c.open || c.flagged {
		return false
	}
	if c.mined {
		c.notify(EventExplode)
		return true
	}

	c.setOpen(true)

	if c.HasSafeNeighborhood() {
		for _, n := range c.neighbors {
			n.Reveal()
		}
	}
	return true
}

func (c *Cell) HasSafeNeighborhood() bool {
	for _, n := range c.neighbors {
		if n.mined {
			return false
		}
	}
	return true
}

func (c *Cell) CountMinedNeighbors() int {
	count := 0
	for _, n := range c.neighbors {
		if n.mined {
			count++
		}
	}
	return count
}

// ObjectiveMet reports a safely opened cell or a correctly flagged mine.
func (c *Cell) ObjectiveMet() bool {
	uncovered := !c.mined && c.open
	protected := c.mined && c.flagged
	return uncovered || protected
}

func (c *Cell) setOpen(open bool) {
	c.open = open
	if open {
		c.notify(EventOpen)
	}
}

func (c *Cell) mark() {
	c.mined = true
}

func (c *Cell) reset() {
	c.open = false
	c.mined = false
	c.flagged = false
	c.notify(EventReset)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
