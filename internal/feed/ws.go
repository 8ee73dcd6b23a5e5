package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// TailConfig configures the websocket tail source.
type TailConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the exponential backoff.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for keepalive ping frames.
	PingInterval time.Duration
	// ReadTimeout bounds a single message read.
	ReadTimeout time.Duration
	// WriteTimeout bounds control-frame writes.
	WriteTimeout time.Duration
}

// DefaultTailConfig returns the default tail configuration.
func DefaultTailConfig() TailConfig {
	return TailConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// TailSource streams feed lines from a websocket endpoint that emits the
// same line-delimited records as the file feed, one record per text message.
// It reconnects with exponential backoff and never drops received items.
type TailSource struct {
	endpoint string
	config   TailConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	items chan *Item
	line  atomic.Int64

	done chan struct{}
	wg   sync.WaitGroup
}

// NewTailSource connects to the endpoint and starts streaming.
func NewTailSource(ctx context.Context, endpoint string, config *TailConfig) (*TailSource, error) {
	cfg := DefaultTailConfig()
	if config != nil {
		cfg = *config
	}

	s := &TailSource{
		endpoint: endpoint,
		config:   cfg,
		items:    make(chan *Item, 10000),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

// Items returns the channel of streamed feed items. Closed on shutdown.
func (s *TailSource) Items() <-chan *Item {
	return s.items
}

// Close shuts the source down and closes the item channel.
func (s *TailSource) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.items)
	return nil
}

func (s *TailSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// readLoop reads messages and dispatches items, reconnecting on error.
func (s *TailSource) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			if !s.waitAndReconnect(reconnectDelay) {
				return
			}
			reconnectDelay = nextDelay(reconnectDelay, s.config.MaxReconnectDelay)
			continue
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			s.connMu.Lock()
			if s.conn != nil {
				s.conn.Close()
				s.conn = nil
			}
			s.connMu.Unlock()

			if !s.waitAndReconnect(reconnectDelay) {
				return
			}
			reconnectDelay = nextDelay(reconnectDelay, s.config.MaxReconnectDelay)
			continue
		}

		reconnectDelay = s.config.ReconnectDelay

		s.dispatch(message)
	}
}

// dispatch parses one message into an item. Blocks rather than drop.
func (s *TailSource) dispatch(message []byte) {
	line := int(s.line.Add(1))

	item := &Item{Line: line}
	ev, err := parseLine(message, line)
	if err != nil {
		item.Err = err
	} else {
		item.Event = ev
	}

	select {
	case s.items <- item:
	case <-s.done:
	}
}

// waitAndReconnect sleeps for the backoff delay and dials again. Returns
// false when the source is shutting down.
func (s *TailSource) waitAndReconnect(delay time.Duration) bool {
	select {
	case <-s.done:
		return false
	case <-time.After(delay):
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Failure leaves conn nil; the read loop retries with a longer delay.
	s.connect(ctx)
	return true
}

func nextDelay(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (s *TailSource) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				s.conn.WriteMessage(websocket.PingMessage, nil)
			}
			s.connMu.Unlock()
		}
	}
}
