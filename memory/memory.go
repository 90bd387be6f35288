// Package memory defines the basic interfaces for working
// with a 6502 family memory map. Since each implementation
// that is emulated has specific mappings (including shadowed
// regions) this is defined as an interface.
package memory

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Bank is the memory contract a Chip holds a non-owning reference to.
// It is the only collaborator the cpu package depends on for the
// entire 64KiB address space.
type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value. For ROM addresses this is simply a no-op without
	// any error.
	Write(addr uint16, val uint8)
	// PowerOn performs power on reset of the memory. This is implementation specific as to
	// whether it's randomized or preset to all zeros.
	PowerOn()
	// Parent holds a reference (if non-nil) to the next level memory controller. A chain
	// of these can be created in order to find the top one and be able to query items
	// such as the databus state (from the last value to go over it). Some implementations
	// depend on transient databus state due to side effects.
	Parent() Bank
	// DatabusVal returns the last value seen to go across on the data bus.
	DatabusVal() uint8
}

// LatestDatabusVal hunts up a chain of Banks until it finds the outermost one and
// return the DatabusVal from it.
func LatestDatabusVal(b Bank) uint8 {
	if b.Parent() != nil {
		return LatestDatabusVal(b.Parent())
	}
	return b.DatabusVal()
}

// ram implements a standard R/W interface to an address space for 8 bit systems.
// If this is mapped into a larger memory map it's up to a parent Bank to properly mask addr
// before calling Read/Write.
type ram struct {
	ram        []uint8
	parent     Bank
	databusVal uint8
}

// New8BitRAMBank creates a R/W RAM bank of the given size. Size must be a power of 2.
// If this is smaller than 64k (uint16 max) aliasing will occur on Read/Write.
func New8BitRAMBank(size int, parent Bank) (Bank, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("invalid size: %d must be a power of 2", size)
	}
	if size > 1<<16 {
		return nil, fmt.Errorf("invalid size: %d is bigger than 64k", size)
	}
	b := &ram{
		parent: parent,
	}
	// Go ahead and completely preallocate this now.
	b.ram = make([]uint8, size)
	return b, nil
}

// Read implements the interface for Bank. Address is clipped based on length of ram buffer.
func (r *ram) Read(addr uint16) uint8 {
	// Mask addr to fit
	addr &= uint16(len(r.ram) - 1)
	val := r.ram[addr]
	r.databusVal = val
	return val
}

// Write implements the interface for Bank. Address is clipped based on length of ram buffer.
func (r *ram) Write(addr uint16, val uint8) {
	// Mask addr to fit
	addr &= uint16(len(r.ram) - 1)
	r.databusVal = val
	r.ram[addr] = val
}

// PowerOn implements the interface for memory.Bank and randomizes the RAM.
func (r *ram) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	for i := range r.ram {
		r.ram[i] = uint8(rand.Intn(256))
	}
}

// Parent implements the interface for returning a possible parent memory.Bank.
func (r *ram) Parent() Bank {
	return r.parent
}

// DatabusVal returns the most recent seen databus item.
func (r *ram) DatabusVal() uint8 {
	return r.databusVal
}

// Device is a memory mapped peripheral occupying a contiguous address
// range within a DeviceBank. A Device may fail a Read or Write (a real
// bus fault, or a misbehaving peripheral); DeviceBank surfaces that via
// LastErr so a cpu.Chip can wrap it as a MemoryFault.
type Device interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, val uint8) error
}

type deviceRange struct {
	start, end uint16 // inclusive
	dev        Device
}

// DeviceBank chains a backing Bank (normally flat RAM) with a set of
// memory mapped devices occupying sub-ranges of the address space. The
// CPU never needs to know which ranges are backed by RAM vs a device;
// it only ever sees the Bank interface.
type DeviceBank struct {
	backing    Bank
	devices    []deviceRange
	databusVal uint8
	lastErr    error
}

// NewDeviceBank wraps backing with memory mapped device support.
func NewDeviceBank(backing Bank) *DeviceBank {
	return &DeviceBank{backing: backing}
}

// Map installs dev to handle addresses in [start, end] inclusive. Ranges
// must not overlap a previously mapped range.
func (d *DeviceBank) Map(start, end uint16, dev Device) error {
	if end < start {
		return fmt.Errorf("invalid range [%.4X, %.4X]", start, end)
	}
	for _, r := range d.devices {
		if start <= r.end && end >= r.start {
			return fmt.Errorf("range [%.4X, %.4X] overlaps existing [%.4X, %.4X]", start, end, r.start, r.end)
		}
	}
	d.devices = append(d.devices, deviceRange{start, end, dev})
	sort.Slice(d.devices, func(i, j int) bool { return d.devices[i].start < d.devices[j].start })
	return nil
}

func (d *DeviceBank) find(addr uint16) *deviceRange {
	for i := range d.devices {
		if addr >= d.devices[i].start && addr <= d.devices[i].end {
			return &d.devices[i]
		}
	}
	return nil
}

// LastErr returns and clears the most recent error surfaced by a mapped
// device, if any.
func (d *DeviceBank) LastErr() error {
	e := d.lastErr
	d.lastErr = nil
	return e
}

// Read implements Bank, dispatching to a mapped device when addr falls
// in its range and otherwise falling through to the backing store.
func (d *DeviceBank) Read(addr uint16) uint8 {
	if r := d.find(addr); r != nil {
		v, err := r.dev.Read(addr)
		if err != nil {
			d.lastErr = err
		}
		d.databusVal = v
		return v
	}
	v := d.backing.Read(addr)
	d.databusVal = v
	return v
}

// Write implements Bank, dispatching to a mapped device when addr falls
// in its range and otherwise falling through to the backing store.
func (d *DeviceBank) Write(addr uint16, val uint8) {
	d.databusVal = val
	if r := d.find(addr); r != nil {
		if err := r.dev.Write(addr, val); err != nil {
			d.lastErr = err
		}
		return
	}
	d.backing.Write(addr, val)
}

// PowerOn implements Bank.
func (d *DeviceBank) PowerOn() {
	d.backing.PowerOn()
}

// Parent implements Bank.
func (d *DeviceBank) Parent() Bank {
	return d.backing.Parent()
}

// DatabusVal implements Bank.
func (d *DeviceBank) DatabusVal() uint8 {
	return d.databusVal
}
