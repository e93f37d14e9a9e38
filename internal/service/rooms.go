package service

import (
	"strings"
	"sync"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// RoomDirectory владеет набором комнат, членством и ограниченной историей.
// Комнаты создаются при первом create/join и никогда не удаляются.
type RoomDirectory struct {
	mu           sync.RWMutex
	order        []string                       // порядок создания, для стабильного каталога
	histories    map[string][]domain.Message    // room -> кольцо сообщений
	members      map[string]map[string]struct{} // room -> set of connIDs
	memberOf     map[string]string              // connID -> текущая комната
	historyLimit int
}

func NewRoomDirectory(historyLimit int) *RoomDirectory {
	if historyLimit <= 0 {
		historyLimit = 200
	}
	return &RoomDirectory{
		histories:    make(map[string][]domain.Message),
		members:      make(map[string]map[string]struct{}),
		memberOf:     make(map[string]string),
		historyLimit: historyLimit,
	}
}

// EnsureRoom идемпотентно создаёт комнату; created=false, если она уже была.
func (d *RoomDirectory) EnsureRoom(name string) (room string, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, domain.ErrEmptyRoomName
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return name, d.ensureLocked(name), nil
}

func (d *RoomDirectory) ensureLocked(name string) bool {
	if _, ok := d.histories[name]; ok {
		return false
	}
	d.histories[name] = nil
	d.members[name] = make(map[string]struct{})
	d.order = append(d.order, name)
	return true
}

// Join переводит соединение в комнату name, убирая его из прежней.
// Инвариант: соединение состоит ровно в одной комнате.
func (d *RoomDirectory) Join(connID, name string) (room string, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, domain.ErrEmptyRoomName
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	created = d.ensureLocked(name)
	if prev, ok := d.memberOf[connID]; ok {
		delete(d.members[prev], connID)
	}
	d.members[name][connID] = struct{}{}
	d.memberOf[connID] = name
	return name, created, nil
}

// Leave убирает соединение из членства; история комнаты не трогается.
func (d *RoomDirectory) Leave(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if room, ok := d.memberOf[connID]; ok {
		delete(d.members[room], connID)
		delete(d.memberOf, connID)
	}
}

// RoomOf возвращает текущую комнату соединения.
func (d *RoomDirectory) RoomOf(connID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.memberOf[connID]
	return room, ok
}

func (d *RoomDirectory) Members(name string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.members[name]))
	for id := range d.members[name] {
		ids = append(ids, id)
	}
	return ids
}

// Append добавляет сообщение в историю комнаты; при превышении лимита
// вытесняется самое старое (FIFO).
func (d *RoomDirectory) Append(name string, msg domain.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(name)
	h := append(d.histories[name], msg)
	if len(h) > d.historyLimit {
		h = h[len(h)-d.historyLimit:]
	}
	d.histories[name] = h
}

// History отдаёт снапшот: вызывающий не видит последующих мутаций.
func (d *RoomDirectory) History(name string) []domain.Message {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h := d.histories[name]
	out := make([]domain.Message, len(h))
	copy(out, h)
	return out
}

// ListRooms возвращает имена комнат в порядке создания.
func (d *RoomDirectory) ListRooms() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
