package irq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	var l Line
	assert.False(t, l.Raised())
	l.Raise()
	assert.True(t, l.Raised())
	l.Clear()
	assert.False(t, l.Raised())
}

func TestLineSatisfiesSender(t *testing.T) {
	var l Line
	var s Sender = &l
	l.Raise()
	assert.True(t, s.Raised())
}
