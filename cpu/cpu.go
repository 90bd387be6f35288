// Package cpu defines the 6502 architecture and provides
// the methods needed to run the CPU and interface with it
// for emulation.
package cpu

import (
	"fmt"

	"github.com/jchacon/nmos6502/irq"
	"github.com/jchacon/nmos6502/memory"
)

// CPUType is an enumeration of the valid CPU types.
type CPUType int

const (
	CPU_UNIMPLEMENTED CPUType = iota // Start of valid cpu enumerations.
	CPU_NMOS                         // Basic NMOS 6502, documented opcodes only.
	CPU_NMOS_RICOH                   // Ricoh variant used in the NES; identical to NMOS except BCD mode is unimplemented.
	CPU_MAX                          // End of CPU enumerations.
)

// Source is an enumeration of the three hardware interrupt latches.
type Source int

const (
	RST Source = iota // Reset. Highest priority.
	NMI               // Non-maskable interrupt.
	IRQ               // Maskable interrupt.
)

const (
	NMI_VECTOR   = uint16(0xFFFA)
	RESET_VECTOR = uint16(0xFFFC)
	IRQ_VECTOR   = uint16(0xFFFE)

	P_NEGATIVE  = uint8(0x80)
	P_OVERFLOW  = uint8(0x40)
	P_S1        = uint8(0x20) // Always 1 when read back.
	P_B         = uint8(0x10) // Only set in the P byte pushed by BRK/PHP. Cleared on NMI/IRQ pushes.
	P_DECIMAL   = uint8(0x8)
	P_INTERRUPT = uint8(0x4)
	P_ZERO      = uint8(0x2)
	P_CARRY     = uint8(0x1)
)

// InvalidCPUState represents an invalid CPU state in the emulator (a
// precondition violated internally, not a property of the program being run).
type InvalidCPUState struct {
	Reason string
}

// Error implements the error interface.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// UnknownOpcode is returned by Step when the fetched opcode isn't one of
// the 151 documented 6502 instructions.
type UnknownOpcode struct {
	Opcode uint8
	PC     uint16
}

// Error implements the error interface.
func (e UnknownOpcode) Error() string {
	return fmt.Sprintf("unknown opcode 0x%.2X at PC 0x%.4X", e.Opcode, e.PC)
}

// BRKEncountered is returned by Step/Run when a BRK instruction completes.
// It is not a failure; it's the distinguished terminal condition a test
// harness uses to know a ROM ran to its trap byte.
type BRKEncountered struct {
	PC uint16 // PC of the BRK opcode itself.
}

// Error implements the error interface so BRKEncountered can be returned
// and type-switched on the same way any other Step/Run condition is.
func (e BRKEncountered) Error() string {
	return fmt.Sprintf("BRK encountered at PC 0x%.4X", e.PC)
}

// MemoryFault wraps an error surfaced by the memory.Bank implementation
// (e.g. a memory.DeviceBank device Read/Write failure) so it propagates
// through Step unchanged per the error taxonomy.
type MemoryFault struct {
	Err error
}

// Error implements the error interface.
func (e MemoryFault) Error() string {
	return fmt.Sprintf("memory access failure: %v", e.Err)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e MemoryFault) Unwrap() error {
	return e.Err
}

// faulter is implemented by memory.Bank implementations (such as
// memory.DeviceBank) that can surface a device failure after a Read/Write.
type faulter interface {
	LastErr() error
}

// Chip is a single MOS 6502 processor instance. All state lives here;
// nothing is global, so multiple Chips may coexist, each with its own
// memory.Bank.
type Chip struct {
	A  uint8  // Accumulator
	X  uint8  // X index register
	Y  uint8  // Y index register
	S  uint8  // Stack pointer (addresses page 1: 0x0100 | S)
	P  uint8  // Status register
	PC uint16 // Program counter

	Cycles uint64 // Monotonically increasing count of elapsed cycles.

	cpuType CPUType
	ram     memory.Bank

	// Latches settable externally via Raise/Clear, polled at each
	// instruction boundary by Step/PerformInterrupts.
	rst, nmi, irqLine irq.Line
	// Optional external collaborators (e.g. a peripheral chip) that can
	// also assert NMI/IRQ without the embedder routing through Raise.
	extNMI, extIRQ irq.Sender

	halted     bool
	haltOpcode uint8
	haltPC     uint16
}

// ChipDef defines the construction parameters for a 6502.
type ChipDef struct {
	// Cpu is the distinct cpu type for this implementation.
	Cpu CPUType
	// Ram is the memory interface for this implementation. Required.
	Ram memory.Bank
	// Nmi is an optional external IRQ source wired to the NMI line, in
	// addition to the CPU's own latch (see Chip.Raise).
	Nmi irq.Sender
	// Irq is an optional external IRQ source wired to the IRQ line, in
	// addition to the CPU's own latch (see Chip.Raise).
	Irq irq.Sender
	// PC, if non-nil, overrides the reset-vector-derived PC. Intended for
	// test harnesses that want to start execution at a fixed address
	// without writing a reset vector.
	PC *uint16
	// P, if non-nil, overrides the post-reset status register.
	P *uint8
	// S, if non-nil, overrides the post-reset stack pointer.
	S *uint8
}

// Init creates a new 6502 of the requested type in powered-on state. The
// memory passed in is used as found (it is not powered on here), so PC
// loads from the reset vector already present in it.
func Init(def *ChipDef) (*Chip, error) {
	if def.Cpu <= CPU_UNIMPLEMENTED || def.Cpu >= CPU_MAX {
		return nil, InvalidCPUState{fmt.Sprintf("CPU type %d is invalid", def.Cpu)}
	}
	if def.Ram == nil {
		return nil, InvalidCPUState{"Ram is required"}
	}
	c := &Chip{
		cpuType: def.Cpu,
		ram:     def.Ram,
		extNMI:  def.Nmi,
		extIRQ:  def.Irq,
	}
	c.PowerOn()
	if def.PC != nil {
		c.PC = *def.PC
	}
	if def.P != nil {
		c.P = *def.P
	}
	if def.S != nil {
		c.S = *def.S
	}
	return c, nil
}

// PowerOn resets the chip to its documented power-on state: A/X/Y/S
// start at zero, then a Reset is run so the resulting state matches
// real hardware (S ends at 0xFD, P ends at 0x24, PC loads from the
// reset vector).
func (c *Chip) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.S = 0
	c.P = P_S1
	c.halted = false
	c.Reset()
}

// Reset runs the reset sequence: the stack pointer is decremented by
// three (hardware models this as three suppressed pushes), interrupts
// are disabled, and PC is loaded from the reset vector. Returns the
// cycle cost (7, matching real hardware).
func (c *Chip) Reset() uint32 {
	c.S -= 3
	c.P |= P_INTERRUPT
	c.halted = false
	c.haltOpcode = 0
	c.PC = c.readWord(RESET_VECTOR)
	c.Clear(RST)
	return 7
}

// Raise latches the named interrupt source high.
func (c *Chip) Raise(src Source) {
	switch src {
	case RST:
		c.rst.Raise()
	case NMI:
		c.nmi.Raise()
	case IRQ:
		c.irqLine.Raise()
	}
}

// Clear drops the named interrupt latch.
func (c *Chip) Clear(src Source) {
	switch src {
	case RST:
		c.rst.Clear()
	case NMI:
		c.nmi.Clear()
	case IRQ:
		c.irqLine.Clear()
	}
}

// Pending reports whether the named interrupt source is currently latched,
// including any externally wired Sender for NMI/IRQ.
func (c *Chip) Pending(src Source) bool {
	switch src {
	case RST:
		return c.rst.Raised()
	case NMI:
		return c.nmi.Raised() || (c.extNMI != nil && c.extNMI.Raised())
	case IRQ:
		return c.irqLine.Raised() || (c.extIRQ != nil && c.extIRQ.Raised())
	}
	return false
}

// Halted reports whether the CPU has stopped due to an unknown opcode.
func (c *Chip) Halted() bool {
	return c.halted
}

// Peek reads a byte from the CPU's memory without affecting execution
// state. Intended for debuggers and disassemblers, not instruction
// implementations (which go through the resolve/execute path instead).
func (c *Chip) Peek(addr uint16) uint8 {
	return c.ram.Read(addr)
}

// PerformInterrupts services at most one pending interrupt right now,
// honoring RST > NMI > IRQ priority and the I flag's mask on IRQ. It
// returns the cycles consumed and whether anything was serviced. This is
// normally folded into Step automatically; it's exposed directly for
// test harnesses per the external interface contract.
func (c *Chip) PerformInterrupts() (uint32, bool) {
	switch {
	case c.Pending(RST):
		return c.Reset(), true
	case c.Pending(NMI):
		cycles := c.serviceInterrupt(NMI_VECTOR, false)
		c.Clear(NMI)
		return cycles, true
	case c.P&P_INTERRUPT == 0 && c.Pending(IRQ):
		cycles := c.serviceInterrupt(IRQ_VECTOR, false)
		c.Clear(IRQ)
		return cycles, true
	}
	return 0, false
}

// serviceInterrupt implements the push sequence shared by NMI/IRQ and BRK:
// PC high, PC low, then P (bit 5 forced set; B set when brk is true and
// cleared otherwise), then I is set and PC loads from the given vector.
func (c *Chip) serviceInterrupt(vector uint16, brk bool) uint32 {
	c.pushStack(uint8(c.PC >> 8))
	c.pushStack(uint8(c.PC & 0xFF))
	push := c.P | P_S1
	if brk {
		push |= P_B
	} else {
		push &^= P_B
	}
	c.pushStack(push)
	c.P |= P_INTERRUPT
	c.PC = c.readWord(vector)
	return 7
}

// Step executes one unit of CPU work: either servicing a pending
// interrupt, or fetching and fully executing one instruction. It returns
// the number of cycles consumed and the opcode involved (0x00 when an
// interrupt was serviced instead of an instruction). A non-nil error is
// either a BRKEncountered terminal condition or a genuine failure
// (UnknownOpcode, MemoryFault); cycles/opcode are still meaningful for a
// BRKEncountered return.
func (c *Chip) Step() (uint32, uint8, error) {
	if cycles, serviced := c.PerformInterrupts(); serviced {
		c.Cycles += uint64(cycles)
		return cycles, 0x00, nil
	}
	if c.halted {
		return 0, c.haltOpcode, UnknownOpcode{c.haltOpcode, c.haltPC}
	}

	pc := c.PC
	op := c.ram.Read(pc)
	entry, ok := opcodeTable[op]
	if !ok {
		c.halted = true
		c.haltOpcode = op
		c.haltPC = pc
		return 0, op, UnknownOpcode{op, pc}
	}
	c.PC++
	cycles, err := c.execute(op, entry)
	c.Cycles += uint64(cycles)

	if f, ok := c.ram.(faulter); ok {
		if mErr := f.LastErr(); mErr != nil {
			return cycles, op, MemoryFault{mErr}
		}
	}
	return cycles, op, err
}

// Run steps the CPU until a BRK is encountered or a failure occurs,
// returning the cumulative cycle count and the terminal condition. A
// BRKEncountered return is the normal, successful way for Run to end.
func (c *Chip) Run() (uint64, error) {
	var total uint64
	for {
		cycles, _, err := c.Step()
		total += uint64(cycles)
		if err != nil {
			return total, err
		}
	}
}

// readWord reads a little-endian 16 bit value from addr/addr+1.
func (c *Chip) readWord(addr uint16) uint16 {
	lo := c.ram.Read(addr)
	hi := c.ram.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// pushStack pushes val onto the stack page and decrements S (wrapping mod 256).
func (c *Chip) pushStack(val uint8) {
	c.ram.Write(0x0100+uint16(c.S), val)
	c.S--
}

// popStack increments S (wrapping mod 256) and returns the byte now on top.
func (c *Chip) popStack() uint8 {
	c.S++
	return c.ram.Read(0x0100 + uint16(c.S))
}

// zeroCheck sets the Z flag based on the given result.
func (c *Chip) zeroCheck(v uint8) {
	c.P &^= P_ZERO
	if v == 0 {
		c.P |= P_ZERO
	}
}

// negativeCheck sets the N flag based on the given result.
func (c *Chip) negativeCheck(v uint8) {
	c.P &^= P_NEGATIVE
	if v&P_NEGATIVE != 0 {
		c.P |= P_NEGATIVE
	}
}

// carryCheck sets the C flag if the 16 bit ALU result carried out of bit 7.
func (c *Chip) carryCheck(res uint16) {
	c.P &^= P_CARRY
	if res >= 0x100 {
		c.P |= P_CARRY
	}
}

// overflowCheck sets the V flag per the standard two's complement overflow
// test: http://www.righto.com/2012/12/the-6502-overflow-flag-explained.html
func (c *Chip) overflowCheck(reg, arg, res uint8) {
	c.P &^= P_OVERFLOW
	if (reg^res)&(arg^res)&0x80 != 0 {
		c.P |= P_OVERFLOW
	}
}

// addrMode enumerates the 13 addressing modes from the instruction spec.
type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZP
	modeZPX
	modeZPY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
	modeRelative
)

// resolve computes the effective address for mode, consuming 0-2 operand
// bytes and advancing PC accordingly. It reports whether the address
// computation crossed a page boundary (relevant only to the indexed
// reading modes). modeImplied/modeAccumulator/modeRelative are not
// handled here; modeRelative is resolved directly by branch().
func (c *Chip) resolve(mode addrMode) (addr uint16, crossed bool) {
	switch mode {
	case modeImmediate:
		addr = c.PC
		c.PC++
	case modeZP:
		addr = uint16(c.ram.Read(c.PC))
		c.PC++
	case modeZPX:
		zp := c.ram.Read(c.PC)
		c.PC++
		addr = uint16(zp + c.X)
	case modeZPY:
		zp := c.ram.Read(c.PC)
		c.PC++
		addr = uint16(zp + c.Y)
	case modeAbsolute:
		lo := c.ram.Read(c.PC)
		c.PC++
		hi := c.ram.Read(c.PC)
		c.PC++
		addr = uint16(hi)<<8 | uint16(lo)
	case modeAbsoluteX:
		addr, crossed = c.resolveAbsoluteIndexed(c.X)
	case modeAbsoluteY:
		addr, crossed = c.resolveAbsoluteIndexed(c.Y)
	case modeIndirectX:
		zp := c.ram.Read(c.PC)
		c.PC++
		ptr := zp + c.X
		lo := c.ram.Read(uint16(ptr))
		hi := c.ram.Read(uint16(ptr + 1))
		addr = uint16(hi)<<8 | uint16(lo)
	case modeIndirectY:
		zp := c.ram.Read(c.PC)
		c.PC++
		lo := c.ram.Read(uint16(zp))
		hi := c.ram.Read(uint16(zp + 1))
		base := uint16(hi)<<8 | uint16(lo)
		addr = base + uint16(c.Y)
		crossed = (addr & 0xFF00) != (base & 0xFF00)
	}
	return addr, crossed
}

// resolveAbsoluteIndexed implements Absolute,X and Absolute,Y (they only
// differ in which index register is added).
func (c *Chip) resolveAbsoluteIndexed(reg uint8) (uint16, bool) {
	lo := c.ram.Read(c.PC)
	c.PC++
	hi := c.ram.Read(c.PC)
	c.PC++
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(reg)
	return addr, (addr & 0xFF00) != (base & 0xFF00)
}

// resolveIndirectPointer reads the 2 byte operand exactly like modeAbsolute
// but returns it undereferenced, so JMP (a) can apply the page-wrap bug
// when fetching the target's high byte.
func (c *Chip) resolveIndirectPointer() uint16 {
	ptr, _ := c.resolve(modeAbsolute)
	return ptr
}
