// Package io defines the basic interfaces for working with a 6502
// family based I/O port (generally bi-directional) and a ready made
// adapter wiring one into a memory.DeviceBank as a single-address
// memory mapped register.
package io

import (
	"fmt"

	"github.com/jchacon/nmos6502/memory"
)

// Port8 defines an 8 bit I/O port.
type Port8 interface {
	// Input returns the current value present on the port's input side.
	Input() uint8
	// Output latches val onto the port's output side.
	Output(val uint8)
}

// Register maps a single Port8 into one address of a memory.DeviceBank:
// reads return Input(), writes call Output(). This is the common case
// for simple peripherals (a PIA/VIA data register, a joystick strobe,
// etc.) that don't need a multi-byte address range.
type Register struct {
	Port Port8
}

// Read implements memory.Device.
func (r *Register) Read(addr uint16) (uint8, error) {
	if r.Port == nil {
		return 0, fmt.Errorf("io: no port attached at 0x%.4X", addr)
	}
	return r.Port.Input(), nil
}

// Write implements memory.Device.
func (r *Register) Write(addr uint16, val uint8) error {
	if r.Port == nil {
		return fmt.Errorf("io: no port attached at 0x%.4X", addr)
	}
	r.Port.Output(val)
	return nil
}

var _ memory.Device = (*Register)(nil)
