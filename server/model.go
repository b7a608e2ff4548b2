package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minefield/config"
	"github.com/zucenko/minefield/model"
)

type GameServer struct {
	GameSessions  map[string]*GameSession
	GameRequests  chan GameRequest
	Upgrader      *websocket.Upgrader
	Presets       config.Presets
	DefaultPreset string
	Layout        *Layout
	Seed          int64
	// MaxCells caps boards requested with custom dimensions.
	MaxCells int
	// Timeout bounds each handshake step between a request and the server loop.
	Timeout time.Duration

	mu sync.Mutex
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_OVER
	GS_ERR
)

// GameSession owns one board. Every move goes through Loop, so the board is
// only ever touched by one goroutine.
type GameSession struct {
	Id                    string
	State                 GameSessionState
	Board                 *model.Board
	Player                *PlayerSession
	Errors                chan struct{}
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest

	log     *log.Entry
	quit    chan struct{}
	onEnd   func(id string)
	dirty   []*model.Cell
	seen    map[*model.Cell]bool
	results []model.RoundResult
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_ERR
)

// PlayerSession is the websocket side of a session. State is only written by
// GameSession.Loop; the read and write loops report failures on Errors.
type PlayerSession struct {
	State       PlayerSessionState
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage
}
