package controller

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"pricewidget/pkg/integrations/wmPubsub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	defaultHubBuffer = 8
	defaultBusSize   = 32
	wsWriteWait      = 10 * time.Second

	SnapshotTopic = "snapshots"
)

// Hub fans published snapshots out to stream clients. New clients receive
// the latest snapshot first. A client that falls behind loses its oldest
// buffered snapshot, never the newest.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	buffer int
	latest []byte
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultHubBuffer
	}
	return &Hub{
		subs:   make(map[chan []byte]struct{}),
		buffer: buffer,
	}
}

// Broadcast has the wmPubsub handler signature so it can consume the
// snapshot topic directly.
func (h *Hub) Broadcast(data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = data
	for ch := range h.subs {
		select {
		case ch <- data:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- data:
		default:
		}
	}
	return nil
}

// Bus returns the snapshot topic feeding h, already subscribed. Publish
// waits for room instead of dropping, so the newest snapshot always reaches
// the hub; Broadcast never blocks, which keeps that wait short.
func (h *Hub) Bus(ctx context.Context, logger *slog.Logger, size int) (*wmPubsub.PubSub, error) {
	if size <= 0 {
		size = defaultBusSize
	}
	bus := wmPubsub.New(
		wmPubsub.WithChannel(make(chan []byte, size)),
		wmPubsub.WithContext(ctx),
		wmPubsub.WithTopic(SnapshotTopic),
		wmPubsub.WithLogger(logger),
		wmPubsub.WithHandler(h.Broadcast),
	)
	if err := bus.Subscribe(); err != nil {
		return nil, err
	}
	return bus, nil
}

// Subscribe returns a channel of snapshots and a func that releases it.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, h.buffer)

	h.mu.Lock()
	if h.latest != nil {
		ch <- h.latest
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// StreamWidget godoc
// @Summary Stream widget snapshots
// @Description Server-Sent Events endpoint emitting a snapshot event per state change
// @Tags widget
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /api/widget/stream [get]
func (c *Controller) StreamWidget(ctx *gin.Context) {
	if c.hub == nil {
		serviceUnavailable(ctx, "Snapshot stream not available")
		return
	}

	ch, unsubscribe := c.hub.Subscribe()
	defer unsubscribe()

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	ctx.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			ctx.SSEvent("snapshot", string(msg))
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}

// WidgetSocket godoc
// @Summary Stream widget snapshots over WebSocket
// @Description Sends one text message per state change. Client messages are ignored.
// @Tags widget
// @Success 101 {string} string "Switching Protocols"
// @Router /api/widget/ws [get]
func (c *Controller) WidgetSocket(ctx *gin.Context) {
	if c.hub == nil {
		serviceUnavailable(ctx, "Snapshot stream not available")
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch, unsubscribe := c.hub.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-closed:
			return
		}
	}
}
