package service

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/registry"
)

// Coordinator — машина состояний сессии: join -> active-in-room ->
// room-switch -> disconnect. Единственный мутатор реестра, каталога комнат
// и presence от имени соединения. Невалидный ввод молча отбрасывается:
// у канала нет корреляции запрос/ответ, вернуть ошибку клиенту некуда.
type Coordinator struct {
	reg      *registry.Registry
	rooms    *RoomDirectory
	presence *PresenceTracker
	router   *MessageRouter

	defaultRoom string
}

func NewCoordinator(reg *registry.Registry, rooms *RoomDirectory, presence *PresenceTracker, router *MessageRouter, defaultRoom string) *Coordinator {
	c := &Coordinator{
		reg:         reg,
		rooms:       rooms,
		presence:    presence,
		router:      router,
		defaultRoom: defaultRoom,
	}
	// комната по умолчанию существует с момента старта
	_, _, _ = rooms.EnsureRoom(defaultRoom)
	return c
}

func (c *Coordinator) DefaultRoom() string { return c.defaultRoom }

// Connect регистрирует транспортное соединение (состояние Connected,
// идентичности ещё нет).
func (c *Coordinator) Connect(conn registry.Conn) {
	c.reg.Register(conn)
	slog.Info("connection open", "conn", conn.ID())
}

// Join: Connected -> Joined. Имя ставится один раз; повторный user_join
// на том же соединении игнорируется.
func (c *Coordinator) Join(connID, username string) {
	username = strings.TrimSpace(username)
	if username == "" {
		slog.Debug("coordinator.Join: empty username", "conn", connID)
		return
	}
	if _, ok := c.reg.Lookup(connID); ok {
		slog.Debug("coordinator.Join: identity already set", "conn", connID)
		return
	}

	c.reg.SetIdentity(connID, username)
	c.presence.SetOnline(connID, username)
	room, _, _ := c.rooms.Join(connID, c.defaultRoom)
	c.reg.MoveToRoom(connID, room)

	c.reg.BroadcastAll(registry.Event{Type: EvUserList, Payload: c.presence.ListOnline()})
	c.reg.BroadcastRoom(room, registry.Event{Type: EvUserJoined, Payload: UserEventPayload{Username: username, ID: connID}})
	c.reg.BroadcastAll(registry.Event{Type: EvRooms, Payload: c.rooms.ListRooms()})
	c.reg.SendTo(connID, registry.Event{Type: EvRoomJoined, Payload: RoomJoinedPayload{Room: room}})
	c.reg.SendTo(connID, registry.Event{Type: EvRoomHistory, Payload: RoomHistoryPayload{Room: room, Messages: c.rooms.History(room)}})

	slog.Info("user joined", "conn", connID, "username", username, "room", room)
}

// SendMessage: сообщение в текущую комнату отправителя.
func (c *Coordinator) SendMessage(connID, text string, att *domain.Attachment) {
	msg, err := c.router.RouteRoomMessage(connID, text, att)
	if err != nil {
		c.dropped("coordinator.SendMessage", connID, err)
		return
	}
	c.reg.BroadcastRoom(msg.Room, registry.Event{Type: EvReceiveMessage, Payload: msg})
}

// Typing: обновлённый список печатающих уходит только в текущую комнату.
func (c *Coordinator) Typing(connID string, isTyping bool) {
	room, names, err := c.router.RouteTyping(connID, isTyping)
	if err != nil {
		c.dropped("coordinator.Typing", connID, err)
		return
	}
	c.reg.BroadcastRoom(room, registry.Event{Type: EvTypingUsers, Payload: names})
}

// PrivateMessage доставляется в две точки: получателю (если он ещё
// подключён) и эхом отправителю, с одинаковыми id и таймстемпом.
func (c *Coordinator) PrivateMessage(fromConnID, toConnID, text string) {
	pm, err := c.router.RoutePrivateMessage(fromConnID, toConnID, text)
	if err != nil {
		c.dropped("coordinator.PrivateMessage", fromConnID, err)
		return
	}
	c.reg.SendTo(toConnID, registry.Event{Type: EvPrivateMessage, Payload: pm})
	c.reg.SendTo(fromConnID, registry.Event{Type: EvPrivateMessage, Payload: pm})
}

// PrivateTyping — ретрансляция без серверного состояния, только адресату.
func (c *Coordinator) PrivateTyping(fromConnID, toConnID string, isTyping bool) {
	c.reg.SendTo(toConnID, registry.Event{
		Type:    EvUserTypingPrivate,
		Payload: PrivateTypingPayload{UserID: fromConnID, IsTyping: isTyping},
	})
}

// CreateRoom идемпотентен; каталог рассылается всем, комната вызывающего
// не меняется.
func (c *Coordinator) CreateRoom(connID, name string) {
	if _, _, err := c.rooms.EnsureRoom(name); err != nil {
		c.dropped("coordinator.CreateRoom", connID, err)
		return
	}
	c.reg.BroadcastAll(registry.Event{Type: EvRooms, Payload: c.rooms.ListRooms()})
}

// SwitchRoom: InRoom(a) -> InRoom(b). Остальным членам комнат уведомления
// не рассылаются (поведение оригинала сохранено сознательно).
func (c *Coordinator) SwitchRoom(connID, name string) {
	if _, ok := c.reg.Lookup(connID); !ok {
		c.dropped("coordinator.SwitchRoom", connID, domain.ErrUnknownSender)
		return
	}
	room, created, err := c.rooms.Join(connID, name)
	if err != nil {
		c.dropped("coordinator.SwitchRoom", connID, err)
		return
	}
	c.reg.MoveToRoom(connID, room)
	if created {
		c.reg.BroadcastAll(registry.Event{Type: EvRooms, Payload: c.rooms.ListRooms()})
	}
	c.reg.SendTo(connID, registry.Event{Type: EvRoomJoined, Payload: RoomJoinedPayload{Room: room}})
	c.reg.SendTo(connID, registry.Event{Type: EvRoomHistory, Payload: RoomHistoryPayload{Room: room, Messages: c.rooms.History(room)}})
}

// Disconnect — терминальное состояние; события по этому connID больше
// не принимаются. Сбой одного соединения не задевает остальные.
func (c *Coordinator) Disconnect(connID string) {
	user, joined := c.reg.Lookup(connID)
	room, hadRoom := c.rooms.RoomOf(connID)

	c.presence.Clear(connID)
	c.rooms.Leave(connID)
	c.reg.Remove(connID)

	if joined {
		c.reg.BroadcastAll(registry.Event{Type: EvUserLeft, Payload: UserEventPayload{Username: user.Username, ID: connID}})
		slog.Info("user left", "conn", connID, "username", user.Username)
	}
	c.reg.BroadcastAll(registry.Event{Type: EvUserList, Payload: c.presence.ListOnline()})
	if hadRoom {
		c.reg.BroadcastRoom(room, registry.Event{
			Type:    EvTypingUsers,
			Payload: c.presence.TypingNames(c.rooms.Members(room)),
		})
	}
}

func (c *Coordinator) dropped(op, connID string, err error) {
	// протокольные нарушения — Debug: это баг клиента, не инцидент сервера
	if errors.Is(err, domain.ErrInvalidMessage) || errors.Is(err, domain.ErrUnknownSender) || errors.Is(err, domain.ErrEmptyRoomName) {
		slog.Debug(op+": input dropped", "conn", connID, "err", err)
		return
	}
	slog.Warn(op+": input dropped", "conn", connID, "err", err)
}
