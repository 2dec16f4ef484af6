package store

import (
	"sort"
	"sync"

	"github.com/scythe504/impostor-backend/internal"
)

// RoomStore owns every live room, keyed by room code.
type RoomStore struct {
	rooms map[string]*internal.Room
	mu    sync.RWMutex
}

// NewRoomStore creates an empty room store
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*internal.Room),
	}
}

// Get retrieves a room by code
func (s *RoomStore) Get(code string) (*internal.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, exists := s.rooms[code]
	return room, exists
}

// Add stores a room under its code. It refuses to overwrite a live room.
func (s *RoomStore) Add(room *internal.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[room.Code]; exists {
		return false
	}
	s.rooms[room.Code] = room
	return true
}

// Delete removes a room
func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// Exists checks if a room code is taken
func (s *RoomStore) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.rooms[code]
	return exists
}

func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// All returns a snapshot of the live rooms ordered by code.
func (s *RoomStore) All() []*internal.Room {
	s.mu.RLock()
	rooms := make([]*internal.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Code < rooms[j].Code })
	return rooms
}
