package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"QPaint/internal/logging"
	"QPaint/internal/state"
)

// LivePath is the WebSocket endpoint served by a sharing host.
const LivePath = "/live"

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many operations a viewer may fall behind before
	// it is disconnected.
	sendBuffer = 256
)

// Peer is a connected viewer. Operations queued on send are written by
// the peer's own goroutine so a slow network never stalls the editor.
type Peer struct {
	conn *websocket.Conn
	addr string
	send chan state.Op
}

// Hub is run by the HOST. It keeps a replica of the local drawing and
// streams every operation to connected viewers. Viewers are read-only:
// anything they send is discarded.
type Hub struct {
	replica    *state.Replica
	upgrader   websocket.Upgrader
	peers      map[*Peer]struct{}
	sendBuffer int
	mu         sync.Mutex
	log        *slog.Logger
}

// NewHub creates a hub with an empty drawing.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		replica: state.NewReplica(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		peers:      make(map[*Peer]struct{}),
		sendBuffer: sendBuffer,
		log:        logging.Component(logger, "hub"),
	}
}

// Publish records a local operation and queues it for every viewer. It
// never waits on the network: a viewer whose queue is full is dropped.
// It is meant to be installed as the session's OnOp hook.
func (h *Hub) Publish(op state.Op) {
	h.replica.Apply(op)
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		select {
		case p.send <- op:
		default:
			h.log.Warn("dropping slow viewer", "addr", p.addr, "queued", len(p.send))
			h.drop(p)
		}
	}
}

// Peers returns the number of connected viewers.
func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// ServeHTTP upgrades a viewer connection, queues the current drawing for
// it and keeps it registered until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}

	// Snapshot and registration happen under one lock so no operation
	// published in between is lost.
	h.mu.Lock()
	snapshot := h.replica.Ops()
	p := &Peer{conn: conn, addr: r.RemoteAddr, send: make(chan state.Op, len(snapshot)+h.sendBuffer)}
	for _, op := range snapshot {
		p.send <- op
	}
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	h.log.Info("viewer connected", "addr", p.addr, "snapshot", len(snapshot))

	go h.writeLoop(p)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	h.drop(p)
	h.mu.Unlock()
	h.log.Info("viewer disconnected", "addr", p.addr)
}

// writeLoop is the only writer of data frames on p.conn. It ends when
// the queue is closed by drop or a write fails.
func (h *Hub) writeLoop(p *Peer) {
	for op := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteJSON(op); err != nil {
			h.log.Warn("write to viewer failed", "addr", p.addr, "err", err)
			// Unblocks the read loop in ServeHTTP, which drops the peer.
			p.conn.Close()
			return
		}
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "host closed"),
			time.Now().Add(time.Second))
		h.drop(p)
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(p *Peer) {
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	close(p.send)
	p.conn.Close()
}

// Server serves a hub over HTTP.
type Server struct {
	hub  *Hub
	http *http.Server
	ln   net.Listener
	log  *slog.Logger
}

// Listen binds the hub on addr (":8888" style).
func Listen(addr string, hub *Hub, logger *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle(LivePath, hub)
	return &Server{
		hub:  hub,
		http: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		ln:   ln,
		log:  logging.Component(logger, "share"),
	}, nil
}

// Port is the bound TCP port.
func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Serve blocks until Shutdown.
func (s *Server) Serve() error {
	s.log.Info("share server listening", "port", s.Port())
	if err := s.http.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}
