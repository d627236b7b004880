package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredit(t *testing.T) {
	seg, ok := credit(0, 50, 100, 30*time.Second, 2)
	assert.True(t, ok)
	assert.Equal(t, segment{0, 50}, seg)

	seg, ok = credit(0, 100, 100, 10*time.Second, 2)
	assert.True(t, ok)
	assert.Equal(t, segment{0, 20}, seg, "clipped to elapsed x rate")

	seg, ok = credit(-5, 500, 100, time.Hour, 2)
	assert.True(t, ok)
	assert.Equal(t, segment{0, 100}, seg, "clipped to the video")

	_, ok = credit(40, 40, 100, time.Minute, 2)
	assert.False(t, ok)

	_, ok = credit(0, 50, 100, 0, 2)
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	got := merge([]segment{{50, 60}, {0, 10}, {5, 20}, {20, 30}, {70, 80}})
	assert.Equal(t, []segment{{0, 30}, {50, 60}, {70, 80}}, got)
	assert.Equal(t, 50, watchedPercentage(got, 100))
}
