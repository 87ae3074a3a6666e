package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/message"
	"github.com/matzehuels/ddcharts/pkg/pipeline"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Session reply statuses.
const (
	statusRendered = "rendered"
	statusIgnored  = "ignored"
	statusFailed   = "failed"
)

// sessionReply answers every inbound websocket message.
type sessionReply struct {
	Session string         `json:"session"`
	Status  string         `json:"status"`
	Cycle   *cycleResponse `json:"cycle,omitempty"`
	Error   *errorBody     `json:"error,omitempty"`
	SVG     string         `json:"svg,omitempty"`
}

// session is one websocket connection drawing into a private chart state.
type session struct {
	id     string
	conn   *websocket.Conn
	state  *pipeline.ChartState
	opts   pipeline.Options
	runner *pipeline.Runner
	logger *log.Logger

	// Buffered channel of outbound replies.
	send chan []byte
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	_, kind, err := s.chartFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.options(kind, r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !slices.Contains(opts.Formats, sink.FormatSVG) {
		opts.Formats = append(opts.Formats, sink.FormatSVG)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	sess := &session{
		id:     uuid.NewString(),
		conn:   conn,
		state:  pipeline.NewChartState(kind),
		opts:   opts,
		runner: s.runner,
		send:   make(chan []byte, 16),
	}
	sess.logger = s.logger.With("session", sess.id, "kind", kind)
	sess.logger.Debug("session opened")

	go sess.writePump()
	sess.readPump(r.Context())
}

// readPump runs one render cycle per inbound frame. It is the only reader
// of the connection and the only user of the session state.
func (c *session) readPump(ctx context.Context) {
	defer func() {
		close(c.send)
		c.logger.Debug("session closed", "cycles", c.state.Cycles(), "failures", c.state.Failures())
	}()
	c.conn.SetReadLimit(MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("session read failed", "err", err)
			}
			return
		}
		reply, err := json.Marshal(c.cycle(ctx, raw))
		if err != nil {
			c.logger.Error("encode reply", "err", err)
			return
		}
		c.send <- reply
	}
}

func (c *session) cycle(ctx context.Context, raw []byte) sessionReply {
	reply := sessionReply{Session: c.id}
	res, err := c.runner.Cycle(ctx, c.state, raw, c.opts)
	switch {
	case stderrors.Is(err, message.ErrIgnored):
		reply.Status = statusIgnored
	case err != nil:
		reply.Status = statusFailed
		body := newErrorBody(err)
		reply.Error = &body
	default:
		reply.Status = statusRendered
		summary := newCycleResponse(res)
		reply.Cycle = &summary
		reply.SVG = string(res.Artifacts[sink.FormatSVG])
	}
	return reply
}

// writePump is the only writer of the connection. It exits when readPump
// closes the send channel or a write fails.
func (c *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.drain()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.drain()
				return
			}
		}
	}
}

// drain discards replies until readPump stops so it never blocks on send.
func (c *session) drain() {
	c.conn.Close()
	go func() {
		for range c.send {
		}
	}()
}
