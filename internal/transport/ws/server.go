package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cwrk-planet/chat-service/internal/registry"
	"github.com/cwrk-planet/chat-service/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Server struct {
	upgrader websocket.Upgrader
	coord    *service.Coordinator

	readLimit int64
	pingEvery time.Duration
}

func NewServer(coord *service.Coordinator, clientOrigin string, readLimit int64) *Server {
	if readLimit <= 0 {
		readLimit = 1 << 20
	}
	return &Server{
		coord:     coord,
		readLimit: readLimit,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(clientOrigin),
		},
		pingEvery: 15 * time.Second,
	}
}

// пустой clientOrigin — принимаем всех (dev); иначе точное совпадение
func originChecker(clientOrigin string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if clientOrigin == "" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == clientOrigin
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWSConn(conn)
	s.coord.Connect(c)

	go s.writeLoop(c)
	s.readLoop(c)

	// транспорт закрылся — терминальный переход
	s.coord.Disconnect(c.ID())
	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", c.ID(), "err", err)
	}
}

func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(s.readLimit)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}
		s.dispatch(c.ID(), in)
	}
}

func (s *Server) dispatch(connID string, in Inbound) {
	switch in.Type {
	case TypeUserJoin:
		var username string
		if decode(in.Payload, &username) == nil {
			s.coord.Join(connID, username)
		}
	case TypeSendMessage:
		var p SendMessagePayload
		if decode(in.Payload, &p) == nil {
			s.coord.SendMessage(connID, p.Text, p.Attachment)
		}
	case TypeTyping:
		var isTyping bool
		if decode(in.Payload, &isTyping) == nil {
			s.coord.Typing(connID, isTyping)
		}
	case TypePrivateMessage:
		var p PrivateMessagePayload
		if decode(in.Payload, &p) == nil {
			s.coord.PrivateMessage(connID, p.To, p.Message)
		}
	case TypePrivateTyping:
		var p PrivateTypingPayload
		if decode(in.Payload, &p) == nil {
			s.coord.PrivateTyping(connID, p.To, p.IsTyping)
		}
	case TypeRoomCreate:
		var name string
		if decode(in.Payload, &name) == nil {
			s.coord.CreateRoom(connID, name)
		}
	case TypeRoomJoin:
		var name string
		if decode(in.Payload, &name) == nil {
			s.coord.SwitchRoom(connID, name)
		}
	default:
		// ignore
	}
}

func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

type wsConn struct {
	id     string
	conn   *websocket.Conn
	sendMu chan struct{}
	closed chan struct{}
}

func newWSConn(c *websocket.Conn) *wsConn {
	return &wsConn{
		id:     uuid.NewString(),
		conn:   c,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(ev registry.Event) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(ev)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) ID() string { return c.id }
