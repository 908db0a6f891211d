package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/1gm/counter"
	"github.com/1gm/counter/internal/log"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	messageState   = "state"
	messageVibrate = "vibrate"

	clientBuffer = 16
)

// Message is what the page receives over the websocket.
type Message struct {
	Type  string        `json:"type"`
	State *stateMessage `json:"state,omitempty"`
	// Millis is the vibration length of a vibrate message.
	Millis int64 `json:"ms,omitempty"`
}

type stateMessage struct {
	counter.State
	Label string `json:"label"`
}

func newStateMessage(s counter.State) *stateMessage {
	return &stateMessage{State: s, Label: s.Label()}
}

// NewHub returns a Hub whose websocket writes give up after writeTimeout.
func NewHub(log *zap.SugaredLogger, writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 3 * time.Second
	}
	return &Hub{
		log:          log,
		writeTimeout: writeTimeout,
		clients:      make(map[string]chan Message),
	}
}

// Hub fans counter states and vibration pulses out to every connected page.
// It is a binder.View and a feedback.Vibrator. Neither Render nor Vibrate
// blocks: a client that cannot keep up is disconnected.
type Hub struct {
	log          *zap.SugaredLogger
	writeTimeout time.Duration

	mu      sync.Mutex
	clients map[string]chan Message
	last    *Message
}

func (h *Hub) Render(s counter.State) {
	msg := Message{Type: messageState, State: newStateMessage(s)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = &msg
	h.broadcast(msg)
}

func (h *Hub) Vibrate(_ context.Context, d time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcast(Message{Type: messageVibrate, Millis: d.Milliseconds()})
	return nil
}

// Clients returns the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast must be called with h.mu held.
func (h *Hub) broadcast(msg Message) {
	for id, send := range h.clients {
		select {
		case send <- msg:
		default:
			h.log.Warnf("client %s is not keeping up, disconnecting", id)
			close(send)
			delete(h.clients, id)
		}
	}
}

func (h *Hub) register() (string, chan Message) {
	id := uuid.NewString()
	send := make(chan Message, clientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last != nil {
		send <- *h.last
	}
	h.clients[id] = send
	return id, send
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if send, ok := h.clients[id]; ok {
		close(send)
		delete(h.clients, id)
	}
}

// ServeWS streams messages to one page until it disconnects or bgContext is done.
func (h *Hub) ServeWS(bgContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			h.log.Errorf("websocket accept failed: %v", err)
			return
		}

		id, send := h.register()
		// the page only listens, presses go through the REST api
		ctx := conn.CloseRead(log.Put(r.Context(), "client", id))
		l := log.With(ctx, h.log)
		l.Info("websocket connection established")

		status := websocket.StatusNormalClosure
		defer func() {
			h.unregister(id)
			if cerr := conn.Close(status, ""); cerr != nil {
				l.Debugf("close websocket: %v", cerr)
			}
			l.Info("websocket connection closed")
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-bgContext.Done():
				status = websocket.StatusGoingAway
				return
			case msg, ok := <-send:
				if !ok {
					status = websocket.StatusPolicyViolation
					return
				}
				if werr := h.write(ctx, conn, msg); werr != nil {
					l.Errorf("write failed: %v", werr)
					status = websocket.StatusInternalError
					return
				}
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
