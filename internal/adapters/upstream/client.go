package upstream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	// ErrDisconnected means the pairing with the core was lost.
	ErrDisconnected = errors.New("upstream disconnected")
	ErrQueueFull    = errors.New("upstream send queue full")
)

const (
	sendBuffer = 256
	writeWait  = 5 * time.Second
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcMessage struct {
	ID     *uint64         `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`

	// err is set locally when the call cannot complete.
	err error
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// notification is one subscription push from the gateway.
type notification struct {
	Key      string          `json:"key"`
	Response string          `json:"response"`
	Data     json.RawMessage `json:"data"`
}

// Client speaks JSON-RPC 2.0 over a websocket to the core gateway.
// Requests are correlated by id; subscription pushes are routed by key.
type Client struct {
	url     string
	timeout time.Duration
	conn    *websocket.Conn
	send    chan []byte
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan rpcMessage
	subs    map[string]func(notification)

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the gateway. Run must be called to service the connection.
func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial upstream %s: %w", url, err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log.Info().Str("module", "upstream").Str("url", url).Msg("connected")
	return &Client{
		url:     url,
		timeout: timeout,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		pending: make(map[uint64]chan rpcMessage),
		subs:    make(map[string]func(notification)),
		done:    make(chan struct{}),
	}, nil
}

// Run pumps the connection until ctx is done or the gateway goes away,
// in which case it returns ErrDisconnected.
func (c *Client) Run(ctx context.Context) error {
	go c.writeLoop()
	go func() {
		select {
		case <-ctx.Done():
			c.close()
		case <-c.done:
		}
	}()

	err := c.readLoop()
	c.close()
	c.failPending()
	if ctx.Err() != nil {
		return nil
	}
	log.Error().Err(err).Str("module", "upstream").Str("url", c.url).Msg("connection lost")
	return fmt.Errorf("%w: %v", ErrDisconnected, err)
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "upstream").Msg("write failed")
				c.close()
				return
			}
		}
	}
}

func (c *Client) readLoop() error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Str("module", "upstream").Msg("bad frame")
			continue
		}
		switch {
		case msg.ID != nil:
			c.resolve(msg)
		case msg.Method == "subscription":
			c.route(msg.Params)
		default:
			log.Debug().Str("module", "upstream").Str("method", msg.Method).Msg("unhandled notification")
		}
	}
}

func (c *Client) resolve(msg rpcMessage) {
	c.mu.Lock()
	ch, ok := c.pending[*msg.ID]
	delete(c.pending, *msg.ID)
	c.mu.Unlock()
	if ok {
		ch <- msg
		return
	}
	if msg.Error != nil {
		log.Warn().Err(msg.Error).Str("module", "upstream").Uint64("id", *msg.ID).Msg("call rejected")
	}
}

func (c *Client) route(raw json.RawMessage) {
	var n notification
	if err := json.Unmarshal(raw, &n); err != nil {
		log.Warn().Err(err).Str("module", "upstream").Msg("bad notification")
		return
	}
	c.mu.Lock()
	fn := c.subs[n.Key]
	c.mu.Unlock()
	if fn == nil {
		log.Debug().Str("module", "upstream").Str("key", n.Key).Msg("notification without subscriber")
		return
	}
	fn(n)
}

func (c *Client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.pending {
		ch <- rpcMessage{err: ErrDisconnected}
		delete(c.pending, id)
	}
}

func (c *Client) encode(method string, params any) (uint64, []byte, error) {
	id := c.nextID.Add(1)
	data, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s: %w", method, err)
	}
	return id, data, nil
}

func (c *Client) enqueue(data []byte) error {
	select {
	case <-c.done:
		return ErrDisconnected
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// notify sends a request without waiting for its response.
func (c *Client) notify(method string, params any) error {
	_, data, err := c.encode(method, params)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// call sends a request and waits for its result.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	id, data, err := c.encode(method, params)
	if err != nil {
		return err
	}
	ch := make(chan rpcMessage, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.enqueue(data); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	select {
	case msg := <-ch:
		if msg.err != nil {
			return fmt.Errorf("%s: %w", method, msg.err)
		}
		if msg.Error != nil {
			return fmt.Errorf("%s: %w", method, msg.Error)
		}
		if result == nil || len(msg.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(msg.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
		return nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", method, ctx.Err())
	}
}

func (c *Client) subscribe(key string, fn func(notification)) {
	c.mu.Lock()
	c.subs[key] = fn
	c.mu.Unlock()
}
