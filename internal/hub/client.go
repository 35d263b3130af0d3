// Package hub is the realtime lobby client: join a named lobby, track its
// membership, and exchange chat messages over a websocket connection to the
// game hub.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/store"
)

// Event and invocation names on the wire, matching the game hub's contract.
const (
	evtCurrentPlayers = "CurrentPlayers"
	evtPlayerJoined   = "PlayerJoined"
	evtPlayerLeft     = "PlayerLeft"
	evtLobbyMessage   = "ReceiveLobbyMessage"
	evtLobbyError     = "LobbyError"

	invJoinLobby   = "JoinLobby"
	invLeaveLobby  = "LeaveLobby"
	invSendMessage = "SendLobbyMessage"
)

// TokenSource supplies the stored session for the connection handshake.
type TokenSource interface {
	Auth(ctx context.Context) (store.Auth, error)
}

// Handlers receive hub events. Nil handlers are skipped. All handlers run on
// the reader goroutine, so they must not block.
type Handlers struct {
	OnCurrentPlayers func(players []domain.LobbyPlayer)
	OnPlayerJoined   func(player domain.LobbyPlayer)
	OnPlayerLeft     func(userID int)
	OnMessage        func(msg domain.LobbyMessage)
	OnError          func(message string)
	OnReconnected    func()
	OnDisconnect     func(err error)
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client maintains one connection to the game hub with automatic reconnect.
type Client struct {
	url       string
	tokens    TokenSource
	handlers  Handlers
	dialer    *websocket.Dialer
	log       zerolog.Logger
	attempts  int
	baseDelay time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	send   chan envelope
	closed bool
	done   chan struct{}
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger attaches a logger for connection events.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log.With().Str("component", "hub").Logger()
	}
}

// WithReconnect tunes the reconnect policy: attempts per drop and the initial
// delay (doubled per attempt).
func WithReconnect(attempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.baseDelay = baseDelay
	}
}

func New(url string, tokens TokenSource, handlers Handlers, opts ...Option) *Client {
	c := &Client{
		url:       url,
		tokens:    tokens,
		handlers:  handlers,
		dialer:    websocket.DefaultDialer,
		log:       zerolog.Nop(),
		attempts:  3,
		baseDelay: time.Second,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the hub and starts the reader/writer goroutines.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return domain.ErrNotConnected
	}
	c.attach(conn)
	c.mu.Unlock()
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	auth, err := c.tokens.Auth(ctx)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+auth.Token)
	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

// attach wires a fresh connection; c.mu must be held.
func (c *Client) attach(conn *websocket.Conn) {
	c.conn = conn
	c.send = make(chan envelope, 16)
	go c.writer(conn, c.send)
	go c.reader(conn)
}

func (c *Client) writer(conn *websocket.Conn, send <-chan envelope) {
	for msg := range send {
		if err := conn.WriteJSON(msg); err != nil {
			c.log.Debug().Err(err).Msg("hub write failed")
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
}

func (c *Client) reader(conn *websocket.Conn) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.handleDrop(conn, err)
			return
		}
		c.dispatch(env)
	}
}

// handleDrop tears down a dead connection and, unless the client was closed
// deliberately, tries to re-establish it.
func (c *Client) handleDrop(conn *websocket.Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		// Already replaced; stale reader.
		c.mu.Unlock()
		return
	}
	c.detachLocked()
	wasClosed := c.closed
	c.mu.Unlock()

	if wasClosed {
		return
	}
	c.log.Warn().Err(cause).Msg("hub connection lost; reconnecting")

	delay := c.baseDelay
	for attempt := 0; attempt < c.attempts; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(delay):
		}
		delay *= 2

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		fresh, err := c.dial(ctx)
		cancel()
		if err != nil {
			c.log.Debug().Err(err).Int("attempt", attempt+1).Msg("hub redial failed")
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			fresh.Close()
			return
		}
		c.attach(fresh)
		c.mu.Unlock()
		if c.handlers.OnReconnected != nil {
			c.handlers.OnReconnected()
		}
		return
	}
	if c.handlers.OnDisconnect != nil {
		c.handlers.OnDisconnect(cause)
	}
}

func (c *Client) dispatch(env envelope) {
	switch env.Type {
	case evtCurrentPlayers:
		var players []domain.LobbyPlayer
		if json.Unmarshal(env.Payload, &players) == nil && c.handlers.OnCurrentPlayers != nil {
			c.handlers.OnCurrentPlayers(players)
		}
	case evtPlayerJoined:
		var player domain.LobbyPlayer
		if json.Unmarshal(env.Payload, &player) == nil && c.handlers.OnPlayerJoined != nil {
			c.handlers.OnPlayerJoined(player)
		}
	case evtPlayerLeft:
		var userID int
		if json.Unmarshal(env.Payload, &userID) == nil && c.handlers.OnPlayerLeft != nil {
			c.handlers.OnPlayerLeft(userID)
		}
	case evtLobbyMessage:
		var msg domain.LobbyMessage
		if json.Unmarshal(env.Payload, &msg) == nil && c.handlers.OnMessage != nil {
			c.handlers.OnMessage(msg)
		}
	case evtLobbyError:
		var message string
		if json.Unmarshal(env.Payload, &message) == nil && c.handlers.OnError != nil {
			c.handlers.OnError(message)
		}
	default:
		c.log.Debug().Str("type", env.Type).Msg("unknown hub event")
	}
}

// JoinLobby invokes the join procedure for a lobby code.
func (c *Client) JoinLobby(joinCode string, userID int) error {
	return c.invoke(invJoinLobby, map[string]any{"joinCode": joinCode, "userId": userID})
}

// LeaveLobby invokes the leave procedure.
func (c *Client) LeaveLobby(joinCode string) error {
	return c.invoke(invLeaveLobby, map[string]any{"joinCode": joinCode})
}

// SendMessage broadcasts a chat line to the lobby.
func (c *Client) SendMessage(joinCode, message string) error {
	return c.invoke(invSendMessage, map[string]any{"joinCode": joinCode, "message": message})
}

func (c *Client) invoke(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.closed {
		return domain.ErrNotConnected
	}
	select {
	case c.send <- envelope{Type: name, Payload: data}:
		return nil
	default:
		return domain.ErrNotConnected
	}
}

// Close shuts the connection down and disables reconnects. Idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.detachLocked()
	c.mu.Unlock()
}

// detachLocked drops the current connection; c.mu must be held.
func (c *Client) detachLocked() {
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
