package controllerImp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"animeplan/pkg/logging"
	"animeplan/pkg/middleware"
	"animeplan/pkg/session"
)

const (
	pingPeriod     = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type clientFrame struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// Socket opens a session for the caller, pushes its view, then applies one
// action per client frame and pushes the updated view. The session closes
// with the socket.
func (h *SessionCtrl) Socket(c echo.Context) error {
	uid := middleware.CurrentUser(c)
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logging.Warn().Err(err).Msg("[ws] upgrade failed")
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := h.agg.Open(ctx, uid)
	defer s.Close()
	log := logging.With().Int64("user_id", uid).Str("remote", c.RealIP()).Logger()
	log.Info().Msg("[ws] session opened")

	if err := writeFrame(conn, s.View()); err != nil {
		return nil
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go keepAlive(ctx, conn)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("[ws] read failed")
			}
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var out any
		v, err := dispatch(ctx, s, msg)
		if err != nil {
			out = errorFrame{Error: err.Error()}
		} else {
			out = v
		}
		if err := writeFrame(conn, out); err != nil {
			log.Warn().Err(err).Msg("[ws] write failed")
			return nil
		}
	}
}

var errUnknownAction = errors.New("unknown action")

func dispatch(ctx context.Context, s *session.Session, msg []byte) (session.View, error) {
	var f clientFrame
	if err := json.Unmarshal(msg, &f); err != nil {
		return session.View{}, fmt.Errorf("bad frame: %w", err)
	}
	switch f.Action {
	case "search":
		return s.Search(ctx, f.Value)
	case "add":
		return s.Add(ctx, f.Value)
	case "remove":
		return s.Remove(ctx, f.Value)
	case "toggle":
		return s.Toggle(ctx, f.Value)
	}
	return session.View{}, fmt.Errorf("%w %q", errUnknownAction, f.Action)
}

func writeFrame(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func keepAlive(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
