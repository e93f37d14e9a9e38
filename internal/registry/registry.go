package registry

import (
	"sync"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// Event — единый конверт исходящих сообщений ядра.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Conn interface {
	ID() string
	Send(ev Event) error
	Close() error
}

// Registry отслеживает живые соединения и их объявленную идентичность.
// Комнатные наборы соединений поддерживаются координатором через MoveToRoom
// и зеркалят членство в RoomDirectory.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
	users map[string]domain.User
	rooms map[string]map[string]Conn // room -> connID -> conn
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]Conn),
		users: make(map[string]domain.User),
		rooms: make(map[string]map[string]Conn),
	}
}

func (r *Registry) Register(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
}

// SetIdentity привязывает имя к соединению; выставляется один раз при user_join.
func (r *Registry) SetIdentity(connID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[connID]; !ok {
		return
	}
	r.users[connID] = domain.User{ID: connID, Username: username}
}

func (r *Registry) Lookup(connID string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[connID]
	return u, ok
}

func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, connID)
	if _, ok := r.conns[connID]; !ok {
		return
	}
	delete(r.conns, connID)
	for room, rs := range r.rooms {
		if _, in := rs[connID]; in {
			delete(rs, connID)
			if len(rs) == 0 {
				delete(r.rooms, room)
			}
		}
	}
}

// MoveToRoom переносит соединение в комнатный набор room, убирая из прежнего.
func (r *Registry) MoveToRoom(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[connID]
	if !ok {
		return
	}
	for name, rs := range r.rooms {
		if name == room {
			continue
		}
		if _, in := rs[connID]; in {
			delete(rs, connID)
			if len(rs) == 0 {
				delete(r.rooms, name)
			}
		}
	}
	rs, ok := r.rooms[room]
	if !ok {
		rs = make(map[string]Conn)
		r.rooms[room] = rs
	}
	rs[connID] = c
}

// SendTo — no-op для неизвестного connID: получатель мог отключиться
// между маршрутизацией и доставкой.
func (r *Registry) SendTo(connID string, ev Event) {
	r.mu.RLock()
	c, ok := r.conns[connID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	_ = c.Send(ev) // best-effort
}

func (r *Registry) BroadcastRoom(room string, ev Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.rooms[room] {
		_ = c.Send(ev)
	}
}

func (r *Registry) BroadcastAll(ev Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.conns {
		_ = c.Send(ev)
	}
}
