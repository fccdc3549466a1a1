package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"office_climate/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12

	defaultStreamInterval = 5 * time.Second
	maxStreamInterval     = time.Minute
)

// Stream message types.
const (
	msgStatus = "status"
	msgPower  = "power"
	msgError  = "error"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Any origin is accepted, matching the CORS policy.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamInterval reads ?interval as a Go duration ("2s") or plain milliseconds ("2000").
// Missing, malformed or out of range values give the default.
func streamInterval(c *gin.Context) time.Duration {
	raw := c.Query("interval")
	if raw == "" {
		return defaultStreamInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		ms, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return defaultStreamInterval
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if d <= 0 || d > maxStreamInterval {
		return defaultStreamInterval
	}
	return d
}

// statusStream pushes status on every tick and a power message whenever the
// recommended socket state changes.
type statusStream struct {
	h    *Handler
	conn *websocket.Conn

	sentPower bool
	lastPower *models.PowerState
}

func (h *Handler) wsConnect(c *gin.Context) {
	interval := streamInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logInfo("ws_upgrade_failed", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go drain(conn, closed)

	s := &statusStream{h: h, conn: conn}
	ctx := c.Request.Context()
	if err := s.push(ctx); err != nil {
		h.logInfo("ws_write_failed", err)
		return
	}

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				h.logInfo("ws_ping_failed", err)
				return
			}
		case <-ticker.C:
			if err := s.push(ctx); err != nil {
				h.logInfo("ws_write_failed", err)
				return
			}
		}
	}
}

// drain consumes client frames so control messages are processed; it closes
// closed when the peer goes away.
func drain(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// push sends one status message, then a power message if the state moved.
// Lookup failures become error envelopes; only write errors end the stream.
func (s *statusStream) push(ctx context.Context) error {
	now := s.h.now()

	st, err := s.h.services.Readings.Status(ctx, now)
	if err != nil {
		s.h.logError("ws_status_failed", err)
		return s.send(wsEnvelope{Type: msgError, Error: errInternal})
	}
	if err := s.send(wsEnvelope{Type: msgStatus, Data: statusResponse(st)}); err != nil {
		return err
	}

	if s.h.services.Power == nil {
		return nil
	}
	rec, err := s.h.services.Recommend(ctx, now)
	if err != nil {
		s.h.logError("ws_recommendation_failed", err)
		return s.send(wsEnvelope{Type: msgError, Error: errInternal})
	}
	if s.sentPower && models.SamePowerState(s.lastPower, rec.State) {
		return nil
	}
	if err := s.send(wsEnvelope{Type: msgPower, Data: recommendationResponse(rec)}); err != nil {
		return err
	}
	s.sentPower, s.lastPower = true, rec.State
	return nil
}

func (s *statusStream) send(msg wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *statusStream) write(messageType int, data []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

func (h *Handler) logInfo(event string, err error) {
	if h.log != nil {
		h.log.Infow(event, "err", err)
	}
}

func (h *Handler) logError(event string, err error) {
	if h.log != nil {
		h.log.Errorw(event, "err", err)
	}
}
