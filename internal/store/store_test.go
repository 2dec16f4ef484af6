package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scythe504/impostor-backend/internal"
)

func TestRoomStore(t *testing.T) {
	s := NewRoomStore()
	assert.Zero(t, s.Len())

	b := &internal.Room{Code: "BBBB"}
	a := &internal.Room{Code: "AAAA"}
	assert.True(t, s.Add(b))
	assert.True(t, s.Add(a))
	assert.False(t, s.Add(&internal.Room{Code: "AAAA"}), "live codes are never overwritten")

	got, ok := s.Get("AAAA")
	assert.True(t, ok)
	assert.Same(t, a, got)
	assert.True(t, s.Exists("BBBB"))
	assert.Equal(t, []*internal.Room{a, b}, s.All())

	s.Delete("AAAA")
	_, ok = s.Get("AAAA")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStoresAreIsolated(t *testing.T) {
	first, second := NewRoomStore(), NewRoomStore()
	first.Add(&internal.Room{Code: "ABCD"})
	assert.False(t, second.Exists("ABCD"))
}
