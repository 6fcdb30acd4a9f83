package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	applogger "BTCPulse/pkg/logger"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
	streamSendBuffer = 16
)

// WindowSource yields the current window for a newly connected client.
type WindowSource interface {
	Symbol() string
	Window() models.SeriesWindow
}

// WindowMessage is one frame on /ws/candles.
type WindowMessage struct {
	Symbol   string          `json:"symbol"`
	Capacity int             `json:"capacity"`
	Candles  []models.Candle `json:"candles"`
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// StreamHub pushes every committed window to connected WebSocket clients. Commit never blocks
// the feed: a client whose buffer is full is disconnected.
type StreamHub struct {
	log      *applogger.Logger
	src      WindowSource
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*streamClient]struct{}
	closed  bool
	// latest is the last committed frame, keyed by its newest candle time.
	latest   []byte
	latestTS int64
}

func NewStreamHub(log *applogger.Logger, src WindowSource, allowedOrigins []string) *StreamHub {
	h := &StreamHub{
		log:     log.With(applogger.String("component", "stream_hub")),
		src:     src,
		clients: make(map[*streamClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func (h *StreamHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/candles", h.Serve)
}

// Serve upgrades the request and streams windows until the client goes away.
func (h *StreamHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", applogger.Error(err))
		return nil
	}

	cl := &streamClient{conn: conn, send: make(chan []byte, streamSendBuffer)}
	if !h.add(cl, h.src.Window()) {
		_ = conn.Close()
		return nil
	}

	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

// add registers cl and queues its first frame: snap, or the last committed frame if that is newer.
// Commits after registration reach cl through Commit, so the client never starts behind.
func (h *StreamHub) add(cl *streamClient, snap models.SeriesWindow) bool {
	first, err := encodeWindow(h.src.Symbol(), snap)
	if err != nil {
		first = nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.latest != nil && h.latestTS > lastTimestamp(snap) {
		first = h.latest
	}
	if first != nil {
		cl.send <- first
	}
	h.clients[cl] = struct{}{}
	return true
}

func lastTimestamp(w models.SeriesWindow) int64 {
	if c, ok := w.Last(); ok {
		return c.Timestamp
	}
	return 0
}

func (h *StreamHub) remove(cl *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
}

// readLoop only services control frames; the stream is one-way.
func (h *StreamHub) readLoop(cl *streamClient) {
	defer h.remove(cl)
	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHub) writeLoop(cl *streamClient) {
	ping := time.NewTicker(streamPingPeriod)
	defer func() {
		ping.Stop()
		_ = cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Commit implements WindowSink.
func (h *StreamHub) Commit(_ context.Context, symbol string, w models.SeriesWindow) error {
	msg, err := encodeWindow(symbol, w)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if ts := lastTimestamp(w); h.latest == nil || ts >= h.latestTS {
		h.latest, h.latestTS = msg, ts
	}
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			delete(h.clients, cl)
			close(cl.send)
			h.log.Warn("dropping slow websocket client")
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *StreamHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func encodeWindow(symbol string, w models.SeriesWindow) ([]byte, error) {
	return json.Marshal(WindowMessage{Symbol: symbol, Capacity: w.Capacity, Candles: w.Candles})
}

var _ domrepo.WindowSink = (*StreamHub)(nil)
