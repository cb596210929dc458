package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jtheo/pairwire/internal/match"
	"github.com/jtheo/pairwire/internal/models"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// Client is one participant's WebSocket connection. It satisfies match.Sender
// through its buffered send channel so the hub never blocks on a slow peer.
type Client struct {
	id     string
	hub    *match.Hub
	conn   *websocket.Conn
	send   chan *models.Envelope
	log    *zap.SugaredLogger
	joined bool
}

// Send buffers an outbound message; it reports false instead of blocking when
// the client cannot keep up.
func (c *Client) Send(env *models.Envelope) bool {
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

// HandleSignaling upgrades the connection and starts the per-participant read
// and write pumps. sendBuffer sizes the outbound channel.
func HandleSignaling(hub *match.Hub, log *zap.SugaredLogger, sendBuffer int) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warnw("failed to upgrade connection", "err", err)
			return
		}

		client := &Client{
			id:   uuid.New().String(),
			hub:  hub,
			conn: conn,
			send: make(chan *models.Envelope, sendBuffer),
			log:  log,
		}

		go client.writePump()
		go client.readPump()
	}
}

// readPump decodes inbound envelopes and dispatches them to the hub. The
// first message must be a join; everything before that is dropped. Transport
// closure, however it happens, funnels into exactly one hub.Disconnect.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c.id)
		c.conn.Close()
		close(c.send)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warnw("websocket read error", "participant", c.id, "err", err)
			}
			break
		}

		var env models.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warnw("malformed message dropped", "participant", c.id, "err", err)
			continue
		}

		switch env.Type {
		case models.SignalTypeJoin:
			// The hub itself drops duplicate joins; joined only gates the
			// pre-join case below.
			c.hub.Join(c.id, env.DisplayName, c)
			c.joined = true
		default:
			if !c.joined {
				c.log.Warnw("message before join dropped",
					"participant", c.id, "type", env.Type)
				continue
			}
			c.hub.Relay(c.id, &env)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(env); err != nil {
				c.log.Warnw("websocket write error", "participant", c.id, "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
