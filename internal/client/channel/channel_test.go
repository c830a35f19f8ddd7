package channel

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/common"
	"invoicer/internal/logging"
)

// wsServer is a minimal backend double: it records inbound envelopes and
// can push envelopes to the connected client.
type wsServer struct {
	t  *testing.T
	mu sync.Mutex

	received []envelope
	conn     *websocket.Conn
	ready    chan struct{}
}

func newWSServer(t *testing.T) (*wsServer, *httptest.Server) {
	t.Helper()
	s := &wsServer{t: t, ready: make(chan struct{})}

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		close(s.ready)

		for {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			s.mu.Lock()
			s.received = append(s.received, env)
			s.mu.Unlock()
		}
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *wsServer) wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func (s *wsServer) push(t *testing.T, event string, data string) {
	t.Helper()
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NoError(t, s.conn.WriteJSON(envelope{Event: event, Data: json.RawMessage(data)}))
}

func (s *wsServer) lastReceived() []envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]envelope, len(s.received))
	copy(out, s.received)
	return out
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func dialTestConn(t *testing.T) (*wsServer, *Manager, *Conn) {
	t.Helper()
	s, srv := newWSServer(t)
	m := NewManager(s.wsURL(srv), testLogger())
	conn, err := m.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return s, m, conn
}

func TestEmit_WritesEnvelope(t *testing.T) {
	s, _, conn := dialTestConn(t)

	require.NoError(t, conn.Emit("list", map[string]string{"token": "tok"}))

	require.Eventually(t, func() bool {
		return len(s.lastReceived()) == 1
	}, time.Second, 10*time.Millisecond)

	got := s.lastReceived()[0]
	assert.Equal(t, "list", got.Event)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(got.Data, &payload))
	assert.Equal(t, "tok", payload["token"])
}

func TestOn_DispatchesInboundEvent(t *testing.T) {
	s, _, conn := dialTestConn(t)

	got := make(chan string, 1)
	conn.On("list", func(data json.RawMessage) {
		got <- string(data)
	})

	s.push(t, "list", `{"files":{}}`)

	select {
	case data := <-got:
		assert.JSONEq(t, `{"files":{}}`, data)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestOn_ReRegisterReplacesHandler(t *testing.T) {
	s, _, conn := dialTestConn(t)

	var firstCalls atomic.Int32
	second := make(chan struct{}, 1)

	conn.On("list", func(json.RawMessage) { firstCalls.Add(1) })
	conn.On("list", func(json.RawMessage) { second <- struct{}{} })

	s.push(t, "list", `{}`)

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("replacement handler was not invoked")
	}
	assert.Zero(t, firstCalls.Load(), "replaced handler must not run")
}

func TestEmit_AfterCloseReturnsErrClosed(t *testing.T) {
	_, m, conn := dialTestConn(t)

	require.NoError(t, m.Close())
	err := conn.Emit("list", map[string]string{})
	require.ErrorIs(t, err, common.ErrChannelClosed)
}

func TestManager_SecondOpenFailsWhileLive(t *testing.T) {
	_, m, _ := dialTestConn(t)

	_, err := m.Open(context.Background())
	require.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestManager_ReopenAfterClose(t *testing.T) {
	_, m, _ := dialTestConn(t)

	require.NoError(t, m.Close())
	assert.Nil(t, m.Current())

	conn, err := m.Open(context.Background())
	require.NoError(t, err)
	assert.Same(t, conn, m.Current())
}

func TestReadLoop_ServerDropMarksClosed(t *testing.T) {
	s, _, conn := dialTestConn(t)

	<-s.ready
	s.mu.Lock()
	require.NoError(t, s.conn.Close())
	s.mu.Unlock()

	require.Eventually(t, conn.IsClosed, time.Second, 10*time.Millisecond)
}
