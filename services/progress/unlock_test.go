package progress

import (
	"learnhub/services/catalog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sessions(free ...uint) []catalog.SessionInfo {
	isFree := map[uint]bool{}
	for _, id := range free {
		isFree[id] = true
	}
	var out []catalog.SessionInfo
	for id := uint(1); id <= 4; id++ {
		out = append(out, catalog.SessionInfo{ID: id, IsFree: isFree[id]})
	}
	return out
}

func TestUnlock_Sequential(t *testing.T) {
	tests := []struct {
		name      string
		free      []uint
		completed map[uint]bool
		want      map[uint]bool
	}{
		{
			name:      "only first session open at start",
			completed: map[uint]bool{},
			want:      map[uint]bool{1: true},
		},
		{
			name:      "completing a session opens the next",
			completed: map[uint]bool{1: true},
			want:      map[uint]bool{1: true, 2: true},
		},
		{
			name:      "free preview is always open",
			free:      []uint{3},
			completed: map[uint]bool{},
			want:      map[uint]bool{1: true, 3: true},
		},
		{
			name:      "completed free preview opens its successor",
			free:      []uint{3},
			completed: map[uint]bool{3: true},
			want:      map[uint]bool{1: true, 3: true, 4: true},
		},
		{
			name:      "everything done",
			completed: map[uint]bool{1: true, 2: true, 3: true, 4: true},
			want:      map[uint]bool{1: true, 2: true, 3: true, 4: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unlock(sessions(tt.free...), tt.completed, true))
		})
	}
}

func TestUnlock_NonSequentialOpensAll(t *testing.T) {
	got := Unlock(sessions(), map[uint]bool{}, false)
	assert.Equal(t, map[uint]bool{1: true, 2: true, 3: true, 4: true}, got)
}

func TestUnlock_Empty(t *testing.T) {
	assert.Empty(t, Unlock(nil, nil, true))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(0, 3))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 66, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(3, 3))
	assert.Equal(t, 100, Percentage(5, 3))
}
