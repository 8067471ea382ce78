package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/gorilla/websocket"
	logging "github.com/ipfs/go-log/v2"
)

var logger = logging.Logger("cyberblog/live")

const (
	writeTimeout    = 10 * time.Second
	pingInterval    = 50 * time.Second
	clientQueueSize = 16

	// EventContentChanged 在内容发布、修改或删除后广播。
	EventContentChanged = "content.changed"
)

// Event 是推送给浏览器的一条通知。
type Event struct {
	Type     string           `json:"type"`
	Category content.Category `json:"category"`
	Action   string           `json:"action"`
	At       time.Time        `json:"at"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 维护在线的 websocket 连接并向它们广播内容变更。
// 不同客户端之间收到事件的先后顺序没有保证。
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates a Hub; call Run before serving connections.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 32),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// SetCheckOrigin overrides the upgrader origin check.
func (h *Hub) SetCheckOrigin(check func(r *http.Request) bool) {
	h.upgrader.CheckOrigin = check
}

// Run 处理注册、注销与广播，直到 ctx 结束。
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// 慢客户端直接断开，页面会在重连后重新拉取列表
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish 将事件排入广播队列，队列已满时丢弃并记录日志。
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		logger.Errorw("encode live event", "error", err)
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		logger.Warnw("live broadcast queue full, dropping event", "type", ev.Type)
	}
}

// Notify implements service.Notifier.
func (h *Hub) Notify(category content.Category, action string) {
	h.Publish(Event{Type: EventContentChanged, Category: category, Action: action})
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientQueueSize)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.write(c)
	h.read(c)
}

// read 只用于感知断开，客户端发来的消息被丢弃。
func (h *Hub) read(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugw("websocket read failed", "error", err)
			}
			return
		}
	}
}

func (h *Hub) write(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
