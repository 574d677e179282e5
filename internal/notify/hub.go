package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 25 * time.Second
	pongWait     = 60 * time.Second
	sendBuffer   = 32
	maxFrameSize = 1024
)

// EstimateFunc answers a client's estimate request for a meal.
type EstimateFunc func(ctx context.Context, mealID int) (int, error)

type estimateRequest struct {
	MealID int `json:"meal_id"`
}

type errorFrame struct {
	Error  string `json:"error"`
	MealID int    `json:"meal_id,omitempty"`
}

type wsClient struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Hub pushes events to connected websocket clients. Events are fanned out by
// a single broadcaster goroutine in publish order; estimate requests run on a
// bounded worker pool. A client whose buffer is full misses frames instead of
// slowing others down.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*wsClient]struct{}
	pool     *ants.Pool
	estimate EstimateFunc
	upgrader websocket.Upgrader

	pendingMu sync.Mutex
	pending   [][]byte
	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewHub(workers int, estimate EstimateFunc) (*Hub, error) {
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	h := &Hub{
		clients:  make(map[*wsClient]struct{}),
		pool:     pool,
		estimate: estimate,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go h.broadcaster()
	return h, nil
}

// Publish implements Publisher. The queue is unbounded so a committed change
// is never lost to a busy hub; only slow clients drop frames.
func (h *Hub) Publish(ev Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		zap.L().Error("failed to encode event", zap.Error(err))
		return
	}

	h.pendingMu.Lock()
	h.pending = append(h.pending, frame)
	h.pendingMu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Hub) broadcaster() {
	defer close(h.stopped)
	for {
		select {
		case <-h.done:
			return
		case <-h.wake:
		}

		h.pendingMu.Lock()
		frames := h.pending
		h.pending = nil
		h.pendingMu.Unlock()

		for _, frame := range frames {
			h.broadcast(frame)
		}
	}
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, frame)
	}
}

// enqueue never blocks. Caller holds mu for reading.
func (h *Hub) enqueue(c *wsClient, frame []byte) {
	select {
	case c.send <- frame:
	default:
		zap.L().Debug("websocket client too slow, frame dropped")
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	go h.writeLoop(c)
	h.readLoop(r.Context(), c)
}

func (h *Hub) writeLoop(c *wsClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, c *wsClient) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var req estimateRequest
		if err := json.Unmarshal(msg, &req); err != nil || req.MealID <= 0 {
			h.reply(c, errorFrame{Error: "expected {\"meal_id\": <id>}"})
			continue
		}
		h.submitEstimate(ctx, c, req.MealID)
	}
}

func (h *Hub) submitEstimate(ctx context.Context, c *wsClient, mealID int) {
	if h.estimate == nil {
		h.reply(c, errorFrame{Error: "estimates unavailable", MealID: mealID})
		return
	}
	err := h.pool.Submit(func() {
		n, err := h.estimate(context.WithoutCancel(ctx), mealID)
		if err != nil {
			h.reply(c, errorFrame{Error: err.Error(), MealID: mealID})
			return
		}
		h.reply(c, newMealEstimate(mealID, n))
	})
	if err != nil {
		h.reply(c, errorFrame{Error: "server busy", MealID: mealID})
	}
}

func (h *Hub) reply(c *wsClient, v any) {
	frame, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; ok {
		h.enqueue(c, frame)
	}
}

// Close stops the broadcaster, disconnects every client and releases the
// worker pool. Events published afterwards are discarded.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped

	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
	h.pool.Release()
}
