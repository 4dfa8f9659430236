package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/providers/theme"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// conn is the drawable side of a terminal view. Output goes out as binary
// frames, control messages as JSON text frames. gorilla allows one
// concurrent writer, so every write holds mu.
type conn struct {
	ws      *websocket.Conn
	metrics *monitoring.Metrics
	log     *zap.Logger

	mu     sync.Mutex
	closed bool
}

func newConn(ws *websocket.Conn, metrics *monitoring.Metrics, log *zap.Logger) *conn {
	return &conn{ws: ws, metrics: metrics, log: log}
}

// Draw forwards process output.
func (c *conn) Draw(p []byte) {
	if len(p) == 0 {
		return
	}
	if err := c.write(websocket.BinaryMessage, p); err != nil {
		c.log.Debug("Output write failed", zap.Error(err))
		return
	}
	c.record("output")
}

// Exited tells the client the shell is gone.
func (c *conn) Exited(code int) {
	c.send(map[string]interface{}{
		"type":      "exit",
		"code":      code,
		"timestamp": time.Now().Unix(),
	})
}

// ApplyPalette pushes the current palette so the client renderer can theme itself.
func (c *conn) ApplyPalette(p theme.Palette) {
	c.send(map[string]interface{}{
		"type":    "palette",
		"palette": p,
	})
}

func (c *conn) send(data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(data); err != nil {
		return err
	}
	if m, ok := data.(map[string]interface{}); ok {
		if t, ok := m["type"].(string); ok {
			c.record(t)
		}
	}
	return nil
}

func (c *conn) sendError(msg string) error {
	return c.send(map[string]interface{}{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}

func (c *conn) write(kind int, p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(kind, p)
}

func (c *conn) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *conn) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	_ = c.ws.Close()
}

func (c *conn) record(msgType string) {
	if c.metrics != nil {
		c.metrics.RecordWSMessage("out", msgType)
	}
}
