package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/cabinetry/internal/domain"
)

type wsReply struct {
	Type string          `json:"type"`
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
	Code int             `json:"code"`
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string) wsReply {
	t.Helper()
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg wsReply
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == typ {
			return msg
		}
	}
}

// readMode saltea estados viejos hasta ver uno en el modo pedido.
func readMode(t *testing.T, conn *websocket.Conn, mode string) wireView {
	t.Helper()
	for {
		msg := readUntil(t, conn, "grid_state")
		var v wireView
		require.NoError(t, json.Unmarshal(msg.Data, &v))
		if v.Mode == mode {
			return v
		}
	}
}

func sendWS(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(WSMessage{Type: typ, ID: typ, Data: raw}))
}

func TestGridWS_PointerStream(t *testing.T) {
	env := newGridAPIEnv(t)
	tid := env.base.ID
	c := env.store.AddCabinet(domain.Cabinet{WallID: env.wall.ID, TypeID: &tid, Name: "A", GridStartX: 0, GridStartY: 12, GridEndX: 3, GridEndY: 17})
	path := env.open(t)

	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	dialer := websocket.Dialer{Subprotocols: []string{ProtocolVersion1}}
	conn, resp, err := dialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+path+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, ProtocolVersion1, resp.Header.Get("Sec-WebSocket-Protocol"))

	v := readMode(t, conn, "idle")
	require.Len(t, v.Zones, 1)

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "ping", ID: "p1"}))
	assert.Equal(t, "p1", readUntil(t, conn, "pong").ID)

	sendWS(t, conn, "pointer_down", map[string]any{"zone": c.ID.String(), "x": 10, "y": 10})
	readMode(t, conn, "dragging")

	sendWS(t, conn, "pointer_down", map[string]any{"zone": c.ID.String(), "x": 10, "y": 10})
	assert.Equal(t, http.StatusConflict, readUntil(t, conn, "error").Code)

	sendWS(t, conn, "pointer_move", map[string]any{"x": 10 + 2*18, "y": 10})
	sendWS(t, conn, "pointer_up", map[string]any{})
	v = readMode(t, conn, "idle")
	assert.Equal(t, 2, v.Zones[0].Start.X)

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "wheel"}))
	assert.Equal(t, http.StatusBadRequest, readUntil(t, conn, "error").Code)

	// cerrar la sesión corta el stream
	assert.Equal(t, http.StatusNoContent, env.api.Do(http.MethodDelete, path, nil).Code)
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "%v", err)
}

func TestGridWS_UnknownSession(t *testing.T) {
	env := newGridAPIEnv(t)
	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/grid/"+env.wall.ID.String()+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGridWS_DisconnectMidDragReleasesSession(t *testing.T) {
	env := newGridAPIEnv(t)
	tid := env.base.ID
	c := env.store.AddCabinet(domain.Cabinet{WallID: env.wall.ID, TypeID: &tid, Name: "A", GridStartX: 0, GridStartY: 12, GridEndX: 3, GridEndY: 17})
	path := env.open(t)

	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	dialer := websocket.Dialer{Subprotocols: []string{ProtocolVersion1}}
	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+path+"/ws", nil)
	require.NoError(t, err)

	readMode(t, conn, "idle")
	sendWS(t, conn, "pointer_down", map[string]any{"zone": c.ID.String(), "x": 10, "y": 10})
	readMode(t, conn, "dragging")
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		rr := env.api.Do(http.MethodGet, path, nil)
		var g wireGrid
		if rr.Code != http.StatusOK || json.NewDecoder(rr.Body).Decode(&g) != nil {
			return false
		}
		return g.View.Mode == "idle"
	}, 2*time.Second, 10*time.Millisecond, "el gesto abandonado vuelve a idle")

	rr := env.api.Do(http.MethodPost, path+"/autoplace", map[string]any{"type_id": env.base.ID})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}
