package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/grid"
	"github.com/phenrril/cabinetry/internal/usecase"
)

const (
	ProtocolVersion1 = "cabinetry-v1"

	pongWait       = 60 * time.Second
	writeTimeout   = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
)

// WSMessage es el sobre de todos los mensajes del canal de grilla.
type WSMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type WSError struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var pointerTypes = map[string]string{
	"pointer_down":   "down",
	"pointer_move":   "move",
	"pointer_up":     "up",
	"pointer_cancel": "cancel",
	"pointer_leave":  "leave",
}

type wsConn struct {
	conn *websocket.Conn
	sid  uuid.UUID
	grid *usecase.GridUC
	send chan []byte
	// gesture indica que esta conexión dejó un pointer_down sin cerrar.
	gesture bool
}

// handleGridWS recibe eventos de puntero y empuja cada vista publicada por la sesión.
func (s *Server) handleGridWS(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	initial, err := s.grid.View(sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views, cancel, err := s.grid.Subscribe(sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sid.String()).Msg("websocket upgrade")
		return
	}
	c := &wsConn{conn: conn, sid: sid, grid: s.grid, send: make(chan []byte, 64)}
	c.enqueue(stateMessage(initial))

	go c.writePump(views)
	c.readPump()
}

func stateMessage(v grid.View) []byte {
	data, _ := json.Marshal(v)
	b, _ := json.Marshal(WSMessage{Type: "grid_state", Data: data})
	return b
}

func (c *wsConn) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		log.Warn().Str("session", c.sid.String()).Msg("websocket: cola llena, se descarta mensaje")
	}
}

func (c *wsConn) sendError(id string, err error) {
	b, _ := json.Marshal(WSError{Type: "error", ID: id, Error: err.Error(), Code: statusFor(err), Message: err.Error()})
	c.enqueue(b)
}

func (c *wsConn) readPump() {
	defer func() {
		c.endGesture()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", c.sid.String()).Msg("websocket read")
			}
			return
		}
		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("", domainInvalid("mensaje mal formado"))
			continue
		}
		c.handle(msg)
	}
}

func (c *wsConn) handle(msg WSMessage) {
	if msg.Type == "ping" {
		b, _ := json.Marshal(WSMessage{Type: "pong", ID: msg.ID})
		c.enqueue(b)
		return
	}
	kind, ok := pointerTypes[msg.Type]
	if !ok {
		c.sendError(msg.ID, domainInvalid("tipo de mensaje desconocido: "+msg.Type))
		return
	}
	var ev usecase.PointerEvent
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.sendError(msg.ID, domainInvalid("data mal formada"))
			return
		}
	}
	ev.Type = kind
	// la vista resultante llega por la suscripción
	if _, err := c.grid.Pointer(c.sid, ev); err != nil {
		c.sendError(msg.ID, err)
		return
	}
	switch kind {
	case "down":
		c.gesture = true
	case "up", "cancel", "leave":
		c.gesture = false
	}
}

// endGesture cancela el gesto que el cliente dejó abierto al desconectarse.
func (c *wsConn) endGesture() {
	if !c.gesture {
		return
	}
	c.gesture = false
	if _, err := c.grid.Pointer(c.sid, usecase.PointerEvent{Type: "cancel"}); err != nil && !errors.Is(err, usecase.ErrSessionNotFound) {
		log.Warn().Err(err).Str("session", c.sid.String()).Msg("websocket: cancelar gesto")
		return
	}
	log.Debug().Str("session", c.sid.String()).Msg("websocket cerrado con gesto en curso, se cancela")
}

func (c *wsConn) writePump(views <-chan grid.View) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case v, ok := <-views:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "sesión cerrada"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, stateMessage(v)); err != nil {
				return
			}
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
