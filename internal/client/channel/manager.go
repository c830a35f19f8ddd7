package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"invoicer/internal/logging"
)

// ErrAlreadyOpen is returned by Open while a previous connection is still
// live. The caller must Close it first; duplicate channels are never
// created.
var ErrAlreadyOpen = errors.New("channel already open")

// Manager owns the single live connection per session. Only the manager
// creates or destroys connections; every other component just borrows the
// handle.
type Manager struct {
	url string
	log logging.Logger

	conn *Conn
}

func NewManager(url string, log logging.Logger) *Manager {
	return &Manager{url: url, log: log}
}

// Open dials the backend and starts the read loop. It fails with
// ErrAlreadyOpen if a live connection exists.
func (m *Manager) Open(ctx context.Context) (*Conn, error) {
	if m.conn != nil && !m.conn.IsClosed() {
		return nil, ErrAlreadyOpen
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, m.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", m.url, err)
	}

	m.conn = newConn(ws, m.log)
	m.log.Info(ctx, "channel opened", "url", m.url, "conn_id", m.conn.ID())
	return m.conn, nil
}

// Close releases the current connection, if any.
func (m *Manager) Close() error {
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// Current returns the live connection, or nil when none is open.
func (m *Manager) Current() *Conn {
	if m.conn == nil || m.conn.IsClosed() {
		return nil
	}
	return m.conn
}
