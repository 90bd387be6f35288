package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePort struct {
	in  uint8
	out uint8
}

func (f *fakePort) Input() uint8    { return f.in }
func (f *fakePort) Output(v uint8) { f.out = v }

func TestRegisterReadWrite(t *testing.T) {
	p := &fakePort{in: 0x42}
	r := &Register{Port: p}

	v, err := r.Read(0xC000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v)

	require.NoError(t, r.Write(0xC000, 0x99))
	assert.Equal(t, uint8(0x99), p.out)
}

func TestRegisterNoPortAttached(t *testing.T) {
	r := &Register{}
	_, err := r.Read(0xC000)
	require.Error(t, err)
	require.Error(t, r.Write(0xC000, 0x01))
}
