package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew8BitRAMBankRejectsBadSize(t *testing.T) {
	_, err := New8BitRAMBank(0, nil)
	require.Error(t, err)
	_, err = New8BitRAMBank(100, nil)
	require.Error(t, err, "100 is not a power of 2")
	_, err = New8BitRAMBank(1<<17, nil)
	require.Error(t, err, "bigger than 64k")
}

func TestRAMBankReadWrite(t *testing.T) {
	b, err := New8BitRAMBank(256, nil)
	require.NoError(t, err)
	b.Write(0x10, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x10))
	assert.Equal(t, uint8(0x42), b.DatabusVal())
}

func TestRAMBankAliasing(t *testing.T) {
	b, err := New8BitRAMBank(256, nil)
	require.NoError(t, err)
	b.Write(0x10, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0x110), "256 byte bank must alias every 256 bytes")
}

func TestLatestDatabusVal(t *testing.T) {
	parent, err := New8BitRAMBank(256, nil)
	require.NoError(t, err)
	child, err := New8BitRAMBank(256, parent)
	require.NoError(t, err)
	parent.Write(0x00, 0xAB)
	child.Write(0x00, 0xCD)
	assert.Equal(t, uint8(0xAB), LatestDatabusVal(child), "must hunt up to the outermost parent")
}

type fakeDevice struct {
	val uint8
	err error
}

func (f *fakeDevice) Read(addr uint16) (uint8, error)    { return f.val, f.err }
func (f *fakeDevice) Write(addr uint16, v uint8) error { f.val = v; return f.err }

func TestDeviceBankDispatch(t *testing.T) {
	backing, err := New8BitRAMBank(1<<16, nil)
	require.NoError(t, err)
	db := NewDeviceBank(backing)
	dev := &fakeDevice{val: 0x77}
	require.NoError(t, db.Map(0x2000, 0x2000, dev))

	assert.Equal(t, uint8(0x77), db.Read(0x2000))
	db.Write(0x2000, 0x88)
	assert.Equal(t, uint8(0x88), dev.val)

	backing.Write(0x0010, 0x55)
	assert.Equal(t, uint8(0x55), db.Read(0x0010), "unmapped addresses fall through to backing store")
}

func TestDeviceBankRejectsOverlap(t *testing.T) {
	backing, err := New8BitRAMBank(1<<16, nil)
	require.NoError(t, err)
	db := NewDeviceBank(backing)
	require.NoError(t, db.Map(0x2000, 0x20FF, &fakeDevice{}))
	err = db.Map(0x2080, 0x20FF, &fakeDevice{})
	require.Error(t, err)
}

func TestDeviceBankSurfacesLastErr(t *testing.T) {
	backing, err := New8BitRAMBank(1<<16, nil)
	require.NoError(t, err)
	db := NewDeviceBank(backing)
	wantErr := assert.AnError
	require.NoError(t, db.Map(0x3000, 0x3000, &fakeDevice{err: wantErr}))
	db.Read(0x3000)
	assert.Equal(t, wantErr, db.LastErr())
	assert.NoError(t, db.LastErr(), "LastErr must clear after being read")
}
