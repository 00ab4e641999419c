// Package net owns the client's WebSocket to the world server.
//
// The socket is serviced by a dial goroutine and a read and write pump. They
// never touch client state: lifecycle changes and inbound frames are queued
// as events and applied when the update loop calls Poll.
package net

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chosenoffset.com/plaza/internal/logging"
	"chosenoffset.com/plaza/internal/protocol"
)

// State is the connection lifecycle. Closed is terminal.
type State int

const (
	Connecting State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "connected"
	case Closed:
		return "disconnected"
	default:
		return "unknown"
	}
}

// EventKind tags an Event
type EventKind int

const (
	EventOpen EventKind = iota
	EventMessage
	EventClosed
)

// Event is one lifecycle change or inbound text frame
type Event struct {
	Kind EventKind
	Data []byte
	Err  error // EventClosed only; nil on a clean close
}

// maxMessageSize bounds inbound frames; join snapshots carry the full world
const maxMessageSize = 4 << 20

// Options tunes the connection
type Options struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

// Manager is the single connection to the server
type Manager struct {
	url      string
	username string
	opts     Options
	log      *zap.Logger
	dialer   *websocket.Dialer

	// loop-owned
	state    State
	sent     int64
	dropped  int64
	openedAt time.Time

	events chan Event
	send   chan []byte

	received  atomic.Int64
	done      chan struct{}
	closeOnce sync.Once
	cancel    context.CancelFunc
	pumps     sync.WaitGroup
}

// NewManager creates a manager for url. username is sent in the join request
// once the socket opens.
func NewManager(url, username string, opts Options, logger *zap.Logger) *Manager {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	return &Manager{
		url:      url,
		username: username,
		opts:     opts,
		log:      logging.OrNop(logger).Named("net"),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   4096,
			WriteBufferSize:  1024,
		},
		state:  Connecting,
		events: make(chan Event, 256),
		send:   make(chan []byte, opts.SendBuffer),
		done:   make(chan struct{}),
	}
}

// Dial starts connecting in the background. Call it once.
func (m *Manager) Dial(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.log.Info("connecting", zap.String("url", m.url))

	m.pumps.Add(1)
	go func() {
		defer m.pumps.Done()
		conn, _, err := m.dialer.DialContext(ctx, m.url, nil)
		if err != nil {
			m.push(Event{Kind: EventClosed, Err: err})
			return
		}
		select {
		case <-m.done:
			conn.Close()
			return
		default:
		}

		conn.SetReadLimit(maxMessageSize)
		m.pumps.Add(2)
		go m.writePump(conn)
		go m.readPump(conn)
		m.push(Event{Kind: EventOpen})
	}()
}

func (m *Manager) push(ev Event) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

// Poll applies queued events in arrival order and hands them to fn. The join
// request goes out as the Open event is applied. Messages arriving outside
// the Open state and repeated close events are dropped. It returns the number
// of events handed to fn.
func (m *Manager) Poll(fn func(Event)) int {
	n := 0
	for {
		var ev Event
		select {
		case ev = <-m.events:
		default:
			return n
		}

		switch ev.Kind {
		case EventOpen:
			if m.state != Connecting {
				continue
			}
			m.state = Open
			m.openedAt = time.Now()
			m.log.Info("connected")
			m.sendJoin()
		case EventMessage:
			if m.state != Open {
				continue
			}
		case EventClosed:
			if m.state == Closed {
				continue
			}
			m.state = Closed
			if ev.Err != nil {
				m.log.Warn("connection closed", zap.Error(ev.Err))
			} else {
				m.log.Info("connection closed")
			}
			m.shutdown()
		}
		fn(ev)
		n++
	}
}

func (m *Manager) sendJoin() {
	data, err := protocol.Join(m.username).Encode()
	if err != nil {
		m.log.Error("encode join", zap.Error(err))
		return
	}
	m.Send(data)
}

// Send queues a frame for the write pump. Frames are dropped when the socket
// is not open or the queue is full. It reports whether the frame was queued.
func (m *Manager) Send(data []byte) bool {
	if m.state != Open {
		m.dropped++
		return false
	}
	select {
	case m.send <- data:
		m.sent++
		return true
	default:
		m.dropped++
		m.log.Debug("send queue full, dropping frame")
		return false
	}
}

// Close shuts the connection down with a normal closure and waits for the
// pumps to exit
func (m *Manager) Close() {
	m.state = Closed
	m.shutdown()
	m.pumps.Wait()
}

func (m *Manager) shutdown() {
	m.closeOnce.Do(func() {
		close(m.done)
		if m.cancel != nil {
			m.cancel()
		}
	})
}

// State returns the lifecycle state as seen by the loop
func (m *Manager) State() State {
	return m.state
}

// Stats reports traffic counters
func (m *Manager) Stats() Stats {
	return Stats{
		BytesReceived: m.received.Load(),
		FramesSent:    m.sent,
		FramesDropped: m.dropped,
		OpenedAt:      m.openedAt,
	}
}

// Stats is a snapshot of connection counters
type Stats struct {
	BytesReceived int64
	FramesSent    int64
	FramesDropped int64
	OpenedAt      time.Time
}

func (m *Manager) writePump(conn *websocket.Conn) {
	defer m.pumps.Done()
	defer conn.Close()

	var ping <-chan time.Time
	if m.opts.PingInterval > 0 {
		ticker := time.NewTicker(m.opts.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case msg := <-m.send:
			conn.SetWriteDeadline(time.Now().Add(m.opts.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				m.push(Event{Kind: EventClosed, Err: err})
				return
			}
		case <-ping:
			deadline := time.Now().Add(m.opts.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				m.push(Event{Kind: EventClosed, Err: err})
				return
			}
		case <-m.done:
			deadline := time.Now().Add(m.opts.WriteTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		}
	}
}

func (m *Manager) readPump(conn *websocket.Conn) {
	defer m.pumps.Done()

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				errors.Is(err, websocket.ErrCloseSent) {
				err = nil
			}
			m.push(Event{Kind: EventClosed, Err: err})
			return
		}
		m.received.Add(int64(len(data)))
		if typ != websocket.TextMessage {
			continue
		}
		m.push(Event{Kind: EventMessage, Data: data})
	}
}
