package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNavigator(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, jst)
	n := NewNavigator(func() time.Time { return now })

	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, jst), n.Current())
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, jst), n.Week().Start())

	w := n.Next()
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, jst), w.Start())
	assert.Equal(t, time.Date(2025, 1, 22, 0, 0, 0, 0, jst), n.Current())

	n.Prev()
	w = n.Prev()
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, jst), w.Start())

	w = n.Today()
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, jst), w.Start())
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, jst), n.Current())
}
