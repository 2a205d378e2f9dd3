package ws

import (
	"context"
	"net/http"
	"time"

	"chathubgo/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 12 * time.Second
	pingPeriod = 3 * time.Second // must be < pongWait

	maxFrameSize    = 4096
	dispatchTimeout = 1900 * time.Millisecond
)

type WsServer struct {
	svc      chat.IChatService
	router   *Router
	upgrader websocket.Upgrader
}

func NewWsServer(svc chat.IChatService) *WsServer {
	srv := &WsServer{
		svc:    svc,
		router: NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
		},
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxFrameSize)

	c := newClient(rawConn)
	zap.L().Debug("ws.connected", zap.String("conn", c.ID()))

	go c.writePump()
	go s.reader(c)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 membership -----------------------------------------------------------
	Register(s.router, "join-room",
		func(ctx context.Context, c *Client, req JoinRoomRequest) error {
			return s.svc.Join(c, req.Username, req.Room)
		},
	)
	Register(s.router, "leave-room",
		func(ctx context.Context, c *Client, _ EmptyBody) error {
			s.svc.Leave(c)
			return nil
		},
	)
	Register(s.router, "get-active-users",
		func(ctx context.Context, c *Client, _ EmptyBody) error {
			return s.svc.ActiveUsers(c)
		},
	)

	// 🔹 messages -------------------------------------------------------------
	Register(s.router, "user-message",
		func(ctx context.Context, c *Client, req UserMessageRequest) error {
			return s.svc.PostMessage(c, req.User, req.Message)
		},
	)

	// 🔹 typing indicators ----------------------------------------------------
	Register(s.router, "typing",
		func(ctx context.Context, c *Client, _ TypingRequest) error {
			s.svc.StartTyping(c)
			return nil
		},
	)
	Register(s.router, "stop-typing",
		func(ctx context.Context, c *Client, _ TypingRequest) error {
			s.svc.StopTyping(c)
			return nil
		},
	)
}

func (s *WsServer) reader(c *Client) {
	defer func() {
		// Transport-driven disconnect runs the full leave cleanup
		// before the writer is stopped.
		s.svc.Disconnect(c)
		c.close()
	}()

	_ = c.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	c.rawConn.SetPongHandler(func(string) error {
		return c.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}
		s.handleEvent(c, env)
	}
}

// handleEvent isolates a single event: a handler error becomes an error
// push to the offending connection, a panic is recovered and reported
// as a generic failure. Other connections and rooms are unaffected.
func (s *WsServer) handleEvent(c *Client, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("ws.handler_panic",
				zap.String("event", env.Event),
				zap.Any("panic", r),
			)
			c.Push("error", ErrorBody{Message: "internal error"})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	err := s.router.dispatch(ctx, c, env)
	cancel()

	// ---- error -> {"event":"error", "body":{...}} ---------------
	if err != nil {
		c.Push("error", ErrorBody{Message: err.Error()})
	}
}
