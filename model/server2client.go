package model

type ServerMessage struct {
	Setup   []Setup
	Cells   []CellView
	Results []RoundResult
}

type Setup struct {
	Session    string
	Rows, Cols int
	Mines      int
}

type CellState int

const (
	StateHidden CellState = iota
	StateOpened
	StateFlagged
	StateMine
)

// CellView is what a client may know about a cell. Mines stay hidden until
// they are opened.
type CellView struct {
	Row, Col int
	State    CellState
	Count    int
}

func ViewOf(c *Cell) CellView {
	v := CellView{Row: c.row, Col: c.col}
	switch {
	case c.open && c.mined:
		v.State = StateMine
	case c.open:
		v.State = StateOpened
		v.Count = c.CountMinedNeighbors()
	case c.flagged:
		v.State = StateFlagged
	default:
		v.State = StateHidden
	}
	return v
}
