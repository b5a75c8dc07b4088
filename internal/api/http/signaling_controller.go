package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"

	"github.com/Molza01/Communicaton-Web-App/internal/config"
	"github.com/Molza01/Communicaton-Web-App/internal/domain"
	"github.com/Molza01/Communicaton-Web-App/internal/service"
	"github.com/Molza01/Communicaton-Web-App/lib/logger/sl"
)

type SignalingController struct {
	signaling service.SignalingInteractor
	tokens    service.TokenInteractor
	cfg       *config.Config
	log       *slog.Logger
	upgrader  websocket.Upgrader
}

func NewSignalingController(signaling service.SignalingInteractor, tokens service.TokenInteractor, cfg *config.Config, log *slog.Logger) *SignalingController {
	if log == nil {
		log = slog.Default()
	}
	return &SignalingController{
		signaling: signaling,
		tokens:    tokens,
		cfg:       cfg,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ICEConfig serves the STUN servers clients should use when gathering
// candidates, so the frontend carries no hardcoded server list.
func (c *SignalingController) ICEConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"iceServers": []webrtc.ICEServer{
			{URLs: c.cfg.WebRTC.STUNServers},
		},
	})
}

// Serve upgrades the request to a websocket and runs the connection's
// session: one reader loop feeding the dispatch table, one writer
// goroutine draining the client's event channel.
func (c *SignalingController) Serve(ctx *gin.Context) {
	if c.cfg.Token.Require {
		if _, err := c.tokens.Verify(ctx.Query("token")); err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Error("failed to upgrade connection", sl.Err(err))
		return
	}

	client := domain.NewClient(conn)
	c.signaling.RegisterClient(client)

	go c.writeEvents(client)
	c.readEvents(client)
}

func (c *SignalingController) readEvents(client *domain.Client) {
	conn := client.Socket

	defer func() {
		c.signaling.UnregisterClient(client.ID)
		conn.Close()
	}()

	conn.SetReadLimit(c.cfg.Socket.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(c.cfg.Socket.PongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.cfg.Socket.PongTimeout))
		return nil
	})

	for {
		var event domain.Event
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Warn("read failed", slog.String("conn", client.ID), sl.Err(err))
			}
			return
		}

		c.signaling.Dispatch(client, &event)
	}
}

func (c *SignalingController) writeEvents(client *domain.Client) {
	// Pings must go out more often than the peer's pong deadline.
	pingPeriod := c.cfg.Socket.PongTimeout * 9 / 10
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		client.Socket.Close()
	}()

	for {
		select {
		case event, ok := <-client.Events:
			client.Socket.SetWriteDeadline(time.Now().Add(c.cfg.Socket.WriteTimeout))
			if !ok {
				client.Socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Socket.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			client.Socket.SetWriteDeadline(time.Now().Add(c.cfg.Socket.WriteTimeout))
			if err := client.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
