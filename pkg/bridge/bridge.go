// Package bridge connects an engine to browser clients over WebSocket. Clients receive
// tones and announcements and send back key presses or named commands.
package bridge

import (
	"embed"
	"encoding/json"
	"io/fs"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/sonify/pkg/logger"
	"github.com/raykavin/sonify/pkg/navigation"
	"github.com/raykavin/sonify/pkg/scale"
)

//go:embed assets
var assets embed.FS

// Message types
const (
	TypeTone     = "tone"
	TypeAnnounce = "announce"
	TypeKey      = "key"
	TypeCommand  = "command"
	TypeFocus    = "focus"
)

const (
	broadcastBuffer = 100
	writeWait       = 10 * time.Second
)

// Message is sent to every client
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Tone is the payload of a tone message
type Tone struct {
	Bin        int     `json:"bin"`
	Frequency  float64 `json:"frequency"`
	Pan        float64 `json:"pan"`
	DurationMS int64   `json:"duration_ms"`
}

// Announcement is the payload of an announce message
type Announcement struct {
	Text string `json:"text"`
}

// Input is a message received from a client
type Input struct {
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Shift   bool   `json:"shift,omitempty"`
	Command string `json:"command,omitempty"`
}

// Controller receives the input of clients, usually a *sonify.Sonify
type Controller interface {
	Send(cmd navigation.Command) error
	Focus() error
}

// Bridge implements core.ToneRenderer and core.Announcer by broadcasting to WebSocket clients
type Bridge struct {
	sync.RWMutex
	clients    map[*websocket.Conn]struct{}
	upgrader   websocket.Upgrader
	broadcast  chan Message
	done       chan struct{}
	closeOnce  sync.Once
	controller Controller
	pitches    []float64
	log        logger.Logger
}

type Option func(*Bridge)

// WithPitchTable sets the table used to turn bins into frequencies
func WithPitchTable(pitches []float64) Option {
	return func(b *Bridge) {
		b.pitches = pitches
	}
}

// WithController sets the receiver of client input
func WithController(c Controller) Option {
	return func(b *Bridge) {
		b.controller = c
	}
}

// New creates a bridge and starts its broadcast loop
func New(log logger.Logger, options ...Option) *Bridge {
	b := &Bridge{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcast: make(chan Message, broadcastBuffer),
		done:      make(chan struct{}),
		pitches:   scale.Hertz,
		log:       log,
	}

	for _, option := range options {
		option(b)
	}

	go b.handleBroadcasts()

	return b
}

// SetController sets the receiver of client input. The engine usually needs the bridge
// before it exists, so the controller is attached afterwards.
func (b *Bridge) SetController(c Controller) {
	b.Lock()
	defer b.Unlock()
	b.controller = c
}

// Clients returns the number of connected clients
func (b *Bridge) Clients() int {
	b.RLock()
	defer b.RUnlock()
	return len(b.clients)
}

// Handler serves the player page on / and the WebSocket endpoint on /ws
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.HandleWebSocket)

	static, err := fs.Sub(assets, "assets")
	if err != nil {
		b.log.WithError(err).Error("failed to load player assets")
		return mux
	}
	mux.Handle("/", http.FileServer(http.FS(static)))
	return mux
}

// EmitTone implements core.ToneRenderer
func (b *Bridge) EmitTone(bin int, pan float64, duration time.Duration) {
	frequency := 0.0
	if bin >= 0 && bin < len(b.pitches) {
		frequency = math.Round(b.pitches[bin]*100) / 100
	}

	b.publish(Message{Type: TypeTone, Payload: Tone{
		Bin:        bin,
		Frequency:  frequency,
		Pan:        pan,
		DurationMS: duration.Milliseconds(),
	}})
}

// Announce implements core.Announcer
func (b *Bridge) Announce(text string) {
	b.publish(Message{Type: TypeAnnounce, Payload: Announcement{Text: text}})
}

// publish queues a message without blocking the caller. Messages are dropped when the
// queue is full or the bridge is closed.
func (b *Bridge) publish(msg Message) {
	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.broadcast <- msg:
	default:
		b.log.WithField("type", msg.Type).Warn("broadcast queue full, message dropped")
	}
}

// Close disconnects every client and stops the broadcast loop
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)

		b.Lock()
		for conn := range b.clients {
			_ = conn.Close()
		}
		b.Unlock()
	})
	return nil
}

func (b *Bridge) handleBroadcasts() {
	for {
		select {
		case <-b.done:
			return
		case msg := <-b.broadcast:
			b.RLock()
			for conn := range b.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					b.log.WithError(err).Warn("failed to send message, closing client")
					// the reader of this client removes it from the map
					_ = conn.Close()
				}
			}
			b.RUnlock()
		}
	}
}

// HandleWebSocket upgrades the request and serves one client
func (b *Bridge) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.WithError(err).Error("failed to upgrade connection to websocket")
		return
	}

	b.Lock()
	b.clients[conn] = struct{}{}
	count := len(b.clients)
	b.Unlock()

	b.log.WithField("clients", count).Info("websocket client connected")

	go b.handleClient(conn)
}

func (b *Bridge) handleClient(conn *websocket.Conn) {
	defer func() {
		b.Lock()
		delete(b.clients, conn)
		count := len(b.clients)
		b.Unlock()
		_ = conn.Close()
		b.log.WithField("clients", count).Info("websocket client disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.log.WithError(err).Warn("websocket read error")
			}
			return
		}

		var input Input
		if err := json.Unmarshal(data, &input); err != nil {
			b.log.WithError(err).Warn("invalid client message")
			continue
		}

		if err := b.dispatch(input); err != nil {
			b.log.WithError(err).WithField("type", input.Type).Warn("client input rejected")
		}
	}
}

// dispatch forwards one client input to the controller
func (b *Bridge) dispatch(input Input) error {
	b.RLock()
	controller := b.controller
	b.RUnlock()

	if controller == nil {
		return errNoController
	}

	switch input.Type {
	case TypeFocus:
		return controller.Focus()

	case TypeKey:
		cmd, ok := navigation.FromKey(input.Key, input.Shift)
		if !ok {
			return nil
		}
		return controller.Send(cmd)

	case TypeCommand:
		cmd, err := navigation.ParseCommand(input.Command)
		if err != nil {
			return err
		}
		return controller.Send(cmd)
	}

	return errUnknownInput
}
