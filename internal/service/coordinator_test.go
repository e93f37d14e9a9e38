package service

import (
	"sync"
	"testing"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/registry"
)

type fakeConn struct {
	id string

	mu     sync.Mutex
	events []registry.Event
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(ev registry.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) recorded() []registry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]registry.Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

func (c *fakeConn) byType(evType string) []registry.Event {
	var out []registry.Event
	for _, ev := range c.recorded() {
		if ev.Type == evType {
			out = append(out, ev)
		}
	}
	return out
}

func (c *fakeConn) lastOfType(t *testing.T, evType string) registry.Event {
	t.Helper()
	evs := c.byType(evType)
	if len(evs) == 0 {
		t.Fatalf("conn %s: no %s event, got %v", c.id, evType, c.recorded())
	}
	return evs[len(evs)-1]
}

func newTestCoordinator() (*Coordinator, func(id string) *fakeConn) {
	reg := registry.NewRegistry()
	rooms := NewRoomDirectory(200)
	presence := NewPresenceTracker()
	router := NewMessageRouter(reg, rooms, presence, "general", 1<<20)
	coord := NewCoordinator(reg, rooms, presence, router, "general")

	connect := func(id string) *fakeConn {
		c := &fakeConn{id: id}
		coord.Connect(c)
		return c
	}
	return coord, connect
}

func TestCoordinator_JoinFlow(t *testing.T) {
	coord, connect := newTestCoordinator()

	x := connect("x")
	coord.Join("x", "alice")

	joined := x.lastOfType(t, EvRoomJoined).Payload.(RoomJoinedPayload)
	if joined.Room != "general" {
		t.Fatalf("room_joined = %+v", joined)
	}
	hist := x.lastOfType(t, EvRoomHistory).Payload.(RoomHistoryPayload)
	if hist.Room != "general" || len(hist.Messages) != 0 {
		t.Fatalf("room_history = %+v", hist)
	}

	y := connect("y")
	coord.Join("y", "bob")

	for _, c := range []*fakeConn{x, y} {
		list := c.lastOfType(t, EvUserList).Payload.([]domain.User)
		if len(list) != 2 || list[0].Username != "alice" || list[1].Username != "bob" {
			t.Fatalf("conn %s: user_list = %v", c.id, list)
		}
	}

	x.reset()
	y.reset()
	coord.SendMessage("x", "hi", nil)

	for _, c := range []*fakeConn{x, y} {
		msg := c.lastOfType(t, EvReceiveMessage).Payload.(domain.Message)
		if msg.Sender != "alice" || msg.Room != "general" || msg.Text != "hi" {
			t.Fatalf("conn %s: receive_message = %+v", c.id, msg)
		}
	}

	y.reset()
	coord.Disconnect("x")

	left := y.lastOfType(t, EvUserLeft).Payload.(UserEventPayload)
	if left.Username != "alice" || left.ID != "x" {
		t.Fatalf("user_left = %+v", left)
	}
	list := y.lastOfType(t, EvUserList).Payload.([]domain.User)
	if len(list) != 1 || list[0].Username != "bob" {
		t.Fatalf("user_list after leave = %v", list)
	}
}

func TestCoordinator_RoomCreateAndSwitch(t *testing.T) {
	coord, connect := newTestCoordinator()

	x := connect("x")
	coord.Join("x", "alice")
	y := connect("y")
	coord.Join("y", "bob")

	x.reset()
	y.reset()

	coord.CreateRoom("x", "dev")
	for _, c := range []*fakeConn{x, y} {
		rooms := c.lastOfType(t, EvRooms).Payload.([]string)
		if len(rooms) != 2 || rooms[0] != "general" || rooms[1] != "dev" {
			t.Fatalf("conn %s: rooms = %v", c.id, rooms)
		}
	}

	y.reset()
	coord.SwitchRoom("x", "dev")

	joined := x.lastOfType(t, EvRoomJoined).Payload.(RoomJoinedPayload)
	if joined.Room != "dev" {
		t.Fatalf("room_joined = %+v", joined)
	}
	hist := x.lastOfType(t, EvRoomHistory).Payload.(RoomHistoryPayload)
	if len(hist.Messages) != 0 {
		t.Fatalf("dev history = %+v", hist)
	}
	// смена комнаты не анонсируется остальным
	if evs := y.recorded(); len(evs) != 0 {
		t.Fatalf("bystander got events on switch: %v", evs)
	}

	x.reset()
	y.reset()
	coord.SendMessage("x", "dev only", nil)

	if msgs := x.byType(EvReceiveMessage); len(msgs) != 1 {
		t.Fatalf("sender events = %v", msgs)
	}
	if msgs := y.byType(EvReceiveMessage); len(msgs) != 0 {
		t.Fatalf("general member got dev message: %v", msgs)
	}
}

func TestCoordinator_PrivateMessage(t *testing.T) {
	coord, connect := newTestCoordinator()

	a := connect("a")
	coord.Join("a", "alice")
	b := connect("b")
	coord.Join("b", "bob")
	c := connect("c")
	coord.Join("c", "carol")

	a.reset()
	b.reset()
	c.reset()
	coord.PrivateMessage("a", "b", "psst")

	pmA := a.lastOfType(t, EvPrivateMessage).Payload.(domain.PrivateMessage)
	pmB := b.lastOfType(t, EvPrivateMessage).Payload.(domain.PrivateMessage)
	if pmA.ID != pmB.ID || !pmA.CreatedAt.Equal(pmB.CreatedAt) {
		t.Fatalf("echo and delivery differ: %+v vs %+v", pmA, pmB)
	}
	if evs := c.byType(EvPrivateMessage); len(evs) != 0 {
		t.Fatalf("third party got private message: %v", evs)
	}
}

func TestCoordinator_PrivateMessageToGone(t *testing.T) {
	coord, connect := newTestCoordinator()

	a := connect("a")
	coord.Join("a", "alice")
	connect("b")
	coord.Join("b", "bob")
	coord.Disconnect("b")

	a.reset()
	coord.PrivateMessage("a", "b", "anyone there")

	// деградация до эха отправителю, без ошибки
	if evs := a.byType(EvPrivateMessage); len(evs) != 1 {
		t.Fatalf("sender echo = %v", evs)
	}
}

func TestCoordinator_TypingRoomScoped(t *testing.T) {
	coord, connect := newTestCoordinator()

	a := connect("a")
	coord.Join("a", "alice")
	b := connect("b")
	coord.Join("b", "bob")
	coord.SwitchRoom("b", "dev")

	a.reset()
	b.reset()
	coord.Typing("a", true)

	names := a.lastOfType(t, EvTypingUsers).Payload.([]string)
	if len(names) != 1 || names[0] != "alice" {
		t.Fatalf("typing_users = %v", names)
	}
	if evs := b.byType(EvTypingUsers); len(evs) != 0 {
		t.Fatalf("other room got typing_users: %v", evs)
	}

	a.reset()
	coord.Typing("a", false)
	if names := a.lastOfType(t, EvTypingUsers).Payload.([]string); len(names) != 0 {
		t.Fatalf("typing_users after stop = %v", names)
	}
}

func TestCoordinator_DisconnectClearsTyping(t *testing.T) {
	coord, connect := newTestCoordinator()

	connect("a")
	coord.Join("a", "alice")
	b := connect("b")
	coord.Join("b", "bob")

	coord.Typing("a", true)
	b.reset()
	coord.Disconnect("a")

	names := b.lastOfType(t, EvTypingUsers).Payload.([]string)
	if len(names) != 0 {
		t.Fatalf("typing_users after disconnect = %v", names)
	}
}

func TestCoordinator_PrivateTypingRelay(t *testing.T) {
	coord, connect := newTestCoordinator()

	a := connect("a")
	coord.Join("a", "alice")
	b := connect("b")
	coord.Join("b", "bob")

	a.reset()
	b.reset()
	coord.PrivateTyping("a", "b", true)

	p := b.lastOfType(t, EvUserTypingPrivate).Payload.(PrivateTypingPayload)
	if p.UserID != "a" || !p.IsTyping {
		t.Fatalf("user_typing_private = %+v", p)
	}
	// отправителю эхо не шлётся
	if evs := a.byType(EvUserTypingPrivate); len(evs) != 0 {
		t.Fatalf("sender got relay back: %v", evs)
	}
}

func TestCoordinator_MessageBeforeJoinDropped(t *testing.T) {
	coord, connect := newTestCoordinator()

	x := connect("x")
	coord.SendMessage("x", "hello?", nil)

	if evs := x.recorded(); len(evs) != 0 {
		t.Fatalf("events before join = %v", evs)
	}
}

func TestCoordinator_SecondJoinIgnored(t *testing.T) {
	coord, connect := newTestCoordinator()

	x := connect("x")
	coord.Join("x", "alice")
	x.reset()
	coord.Join("x", "mallory")

	if evs := x.recorded(); len(evs) != 0 {
		t.Fatalf("second join emitted events: %v", evs)
	}
}
