// Package client talks to a minefield game server over a websocket. It only
// forwards moves and hands back what the server sends; drawing the board is
// up to the caller.
package client

import (
	"context"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minefield/model"
)

type Client struct {
	Conn *websocket.Conn
	// Timeout bounds every Receive when positive.
	Timeout time.Duration
}

// Dial connects to a /play url. On a refused handshake the response carries
// the server's status code.
func Dial(ctx context.Context, url string) (*Client, *http.Response, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, resp, fmt.Errorf("dial %s: %w", url, err)
	}
	log.Debugf("client connected to %s", url)
	return &Client{Conn: conn, Timeout: 5 * time.Second}, resp, nil
}

func (c *Client) Send(m model.ClientMessage) error {
	w, err := c.Conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return fmt.Errorf("next writer: %w", err)
	}
	if err = gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return w.Close()
}

func (c *Client) Reveal(row, col int) error {
	return c.Send(model.ClientMessage{Action: model.ActionReveal, Row: row, Col: col})
}

func (c *Client) ToggleFlag(row, col int) error {
	return c.Send(model.ClientMessage{Action: model.ActionFlag, Row: row, Col: col})
}

func (c *Client) Restart() error {
	return c.Send(model.ClientMessage{Action: model.ActionRestart})
}

func (c *Client) Receive() (model.ServerMessage, error) {
	var m model.ServerMessage
	if c.Timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.Timeout)); err != nil {
			return m, err
		}
	}
	_, r, err := c.Conn.NextReader()
	if err != nil {
		return m, fmt.Errorf("next reader: %w", err)
	}
	if err = gob.NewDecoder(r).Decode(&m); err != nil {
		return m, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}

func (c *Client) Close() error {
	err := c.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	if cerr := c.Conn.Close(); err == nil {
		err = cerr
	}
	return err
}
