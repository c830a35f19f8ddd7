// Package channel implements the persistent bidirectional message channel
// between the client and the ingestion backend. Each WebSocket text frame
// carries one JSON envelope {"event": ..., "data": ...}; outbound traffic
// goes through Emit, inbound events are dispatched to handlers registered
// with On.
package channel

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"invoicer/internal/common"
	"invoicer/internal/logging"
)

// Handler consumes the data portion of one inbound envelope. Handlers run
// on the connection's read goroutine; they must not block for long.
type Handler func(data json.RawMessage)

// envelope is the wire format of every channel message, in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Conn is one live channel. Writes are serialized internally; the read loop
// runs on its own goroutine until the peer closes or Close is called.
type Conn struct {
	id  string
	ws  *websocket.Conn
	log logging.Logger

	writeMu sync.Mutex

	handlerMu sync.RWMutex
	handlers  map[string]Handler

	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(ws *websocket.Conn, log logging.Logger) *Conn {
	id := uuid.NewString()
	c := &Conn{
		id:       id,
		ws:       ws,
		log:      log.With("conn_id", id),
		handlers: make(map[string]Handler),
		closed:   make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// ID returns the client-generated identifier used to correlate log lines
// of this connection.
func (c *Conn) ID() string { return c.id }

// Emit marshals payload and writes one envelope for the named event.
// It returns common.ErrChannelClosed once the connection is released.
func (c *Conn) Emit(event string, payload any) error {
	if c.IsClosed() {
		return common.ErrChannelClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		c.markClosed()
		return err
	}
	return nil
}

// On registers h for the named inbound event. Registering again for the
// same event replaces the previous handler; there is never more than one
// handler per event.
func (c *Conn) On(event string, h Handler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.handlers[event] = h
}

// Close releases the connection. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.ws.Close()
	})
	return err
}

// IsClosed reports whether the connection has been released or lost.
func (c *Conn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Conn) markClosed() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.ws.Close()
	})
}

// readLoop decodes inbound envelopes and dispatches them until the
// connection drops. Malformed frames and events without a handler are
// logged and skipped.
func (c *Conn) readLoop() {
	ctx := context.Background()
	for {
		var env envelope
		if err := c.ws.ReadJSON(&env); err != nil {
			if !c.IsClosed() {
				c.log.Warn(ctx, "channel read failed, releasing connection", "error", err)
			}
			c.markClosed()
			return
		}

		if env.Event == "" {
			c.log.Warn(ctx, "skipping malformed channel message")
			continue
		}

		c.handlerMu.RLock()
		h := c.handlers[env.Event]
		c.handlerMu.RUnlock()

		if h == nil {
			c.log.Debug(ctx, "no handler for inbound event", "event", env.Event)
			continue
		}
		h(env.Data)
	}
}
