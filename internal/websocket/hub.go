package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"summarization-hub/internal/middleware"
	"summarization-hub/internal/models"
	"summarization-hub/internal/services"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// conn serializes writes; gorilla allows one concurrent writer per connection.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Hub fans pipeline events out to every socket a subject has open.
// With Redis configured, events travel over pub/sub so any instance can deliver them.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*conn
	redisClient *redis.Client
	cancelFuncs map[string]context.CancelFunc
	logger      *zap.Logger
}

func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string][]*conn),
		redisClient: redisClient,
		cancelFuncs: make(map[string]context.CancelFunc),
		logger:      logger,
	}
}

// HandleWebSocket must sit behind the auth middleware, which resolves the subject.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &conn{ws: ws}
	h.registerConnection(subject, c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(subject, c)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) registerConnection(subject string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[subject] = append(h.connections[subject], c)

	// Start pub/sub subscription if this is the first connection for this subject
	if h.redisClient != nil && len(h.connections[subject]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[subject] = cancel
		go h.subscribeToPubSub(ctx, subject)
	}

	h.logger.Debug("websocket connected",
		zap.String("subject", subject),
		zap.Int("connections", len(h.connections[subject])),
	)
}

func (h *Hub) unregisterConnection(subject string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.ws.Close()

	conns := h.connections[subject]
	for i, existing := range conns {
		if existing == c {
			h.connections[subject] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[subject]) == 0 {
		delete(h.connections, subject)
		if cancel, ok := h.cancelFuncs[subject]; ok {
			cancel()
			delete(h.cancelFuncs, subject)
		}
	}

	h.logger.Debug("websocket disconnected", zap.String("subject", subject))
}

func channelFor(subject string) string {
	return "artifact_events:" + subject
}

func (h *Hub) subscribeToPubSub(ctx context.Context, subject string) {
	pubsub := h.redisClient.Subscribe(ctx, channelFor(subject))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(subject, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(subject string, data []byte) {
	h.mu.RLock()
	conns := append([]*conn(nil), h.connections[subject]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			h.logger.Debug("websocket write failed", zap.String("subject", subject), zap.Error(err))
		}
	}
}

// Publish delivers msg to the subject's sockets.
func (h *Hub) Publish(ctx context.Context, subject string, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.Publish(ctx, channelFor(subject), data).Err(); err != nil {
			h.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
		}
		return
	}
	h.broadcast(subject, data)
}

// Sink adapts Publish to the pipeline's event callback.
func (h *Hub) Sink(ctx context.Context, subject string) services.EventSink {
	return func(ev models.PipelineEvent) {
		h.Publish(ctx, subject, models.WSMessage{Type: string(ev.Type), Payload: ev.WSPayload()})
	}
}

// ConnectionCount reports how many sockets subject has open on this instance.
func (h *Hub) ConnectionCount(subject string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[subject])
}
