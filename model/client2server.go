package model

type Action int

const (
	ActionReveal Action = iota + 1
	ActionFlag
	ActionRestart
)

type ClientMessage struct {
	Action   Action
	Row, Col int
}
