package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/zonebridge/internal/app/orch"
	"github.com/dkeye/zonebridge/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("connection closed")

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Limiter *ConnectLimiter

	validate   *validator.Validate
	readLimit  int64
	pingPeriod time.Duration
}

func NewSignalWSController(o *orch.Orchestrator, limiter *ConnectLimiter, readLimit int64, pingPeriod time.Duration) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		Limiter:    limiter,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		readLimit:  readLimit,
		pingPeriod: pingPeriod,
	}
}

// WsSignalConn queues outbound frames for the write pump. The queue is
// unbounded: a frame is refused only once the connection is closed.
type WsSignalConn struct {
	conn  *websocket.Conn
	ready chan struct{}
	done  chan struct{}

	mu     sync.Mutex
	queue  []core.Frame
	closed bool
}

func newWsSignalConn(ws *websocket.Conn) *WsSignalConn {
	return &WsSignalConn{
		conn:  ws,
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.queue = append(c.queue, f)
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
	return nil
}

// take hands the queued frames to the write pump in order.
func (c *WsSignalConn) take() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queue
	c.queue = nil
	return q
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.queue = nil
	close(c.done)
	c.mu.Unlock()
	_ = c.conn.Close()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades a client to a websocket session. Clients are
// refused while the upstream subscription is down.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	if !ctl.Orch.Running() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service not running"})
		return
	}
	token := c.GetString("client_token")
	if ctl.Limiter != nil && !ctl.Limiter.Allow(token) {
		log.Warn().Str("module", "signal").Str("client", token).Msg("connect rate exceeded")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many connection attempts"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", token).Msg("new WS connection")

	conn := newWsSignalConn(ws)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Post(func() { ctl.Orch.Connect(sid, conn) })

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
