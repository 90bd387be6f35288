package cpu

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchacon/nmos6502/memory"
)

const (
	testReset = uint16(0x0400)
	testIRQ   = uint16(0x0500)
	testNMI   = uint16(0x0600)
)

// newTestChip builds a Chip over a flat 64KiB RAM bank with the reset,
// IRQ and NMI vectors all wired to fixed, distinguishable addresses, so
// tests can preload a short program at one of them and step it.
func newTestChip(t *testing.T) (*Chip, memory.Bank) {
	t.Helper()
	bank, err := memory.New8BitRAMBank(1<<16, nil)
	require.NoError(t, err)
	bank.PowerOn()
	bank.Write(RESET_VECTOR, uint8(testReset&0xFF))
	bank.Write(RESET_VECTOR+1, uint8(testReset>>8))
	bank.Write(IRQ_VECTOR, uint8(testIRQ&0xFF))
	bank.Write(IRQ_VECTOR+1, uint8(testIRQ>>8))
	bank.Write(NMI_VECTOR, uint8(testNMI&0xFF))
	bank.Write(NMI_VECTOR+1, uint8(testNMI>>8))

	c, err := Init(&ChipDef{Cpu: CPU_NMOS, Ram: bank})
	require.NoError(t, err)
	return c, bank
}

func loadProg(bank memory.Bank, addr uint16, data ...uint8) {
	for i, b := range data {
		bank.Write(addr+uint16(i), b)
	}
}

func TestPowerOnState(t *testing.T) {
	c, _ := newTestChip(t)
	assert.Equal(t, uint8(0), c.A)
	assert.Equal(t, uint8(0), c.X)
	assert.Equal(t, uint8(0), c.Y)
	assert.Equal(t, uint8(0xFD), c.S, "power-on stack pointer must be 0xFD")
	assert.Equal(t, uint8(0x24), c.P, "power-on status register must be 0x24")
	assert.Equal(t, testReset, c.PC)
}

func TestNOP(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0xEA)
	cycles, op, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xEA), op)
	assert.Equal(t, uint32(2), cycles)
	assert.Equal(t, testReset+1, c.PC)
}

func TestUnknownOpcode(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0x02) // not a documented opcode
	_, _, err := c.Step()
	require.Error(t, err)
	var unk UnknownOpcode
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, uint8(0x02), unk.Opcode)
	assert.True(t, c.Halted())

	// Once halted, further Steps keep returning the same error rather
	// than silently reinterpreting memory.
	_, _, err = c.Step()
	require.Error(t, err)
	require.ErrorAs(t, err, &unk)
}

func TestLoadStore(t *testing.T) {
	tests := []struct {
		name   string
		prog   []uint8
		wantA  uint8
		wantX  uint8
		wantY  uint8
		wantZ  bool
		wantN  bool
		cycles uint32
	}{
		{"LDA immediate zero sets Z", []uint8{0xA9, 0x00}, 0x00, 0, 0, true, false, 2},
		{"LDA immediate negative sets N", []uint8{0xA9, 0x80}, 0x80, 0, 0, false, true, 2},
		{"LDX zero page", []uint8{0xA6, 0x10}, 0x00, 0x42, 0, false, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bank := newTestChip(t)
			bank.Write(0x10, 0x42)
			loadProg(bank, testReset, tt.prog...)
			cycles, _, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, tt.cycles, cycles)
			if tt.wantX != 0 {
				assert.Equal(t, tt.wantX, c.X)
			} else if tt.name == "LDA immediate zero sets Z" || tt.name == "LDA immediate negative sets N" {
				assert.Equal(t, tt.wantA, c.A)
			}
			assert.Equal(t, tt.wantZ, c.P&P_ZERO != 0)
			assert.Equal(t, tt.wantN, c.P&P_NEGATIVE != 0)
		})
	}
}

// TestAbsoluteIndexedPageCross verifies the extra cycle charged when a
// read-mode indexed addressing mode crosses a page boundary, and that
// no such penalty applies when it doesn't.
func TestAbsoluteIndexedPageCross(t *testing.T) {
	tests := []struct {
		name    string
		base    uint16
		x       uint8
		crossed bool
	}{
		{"no cross", 0x1000, 0x01, false},
		{"crosses page", 0x10FF, 0x01, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bank := newTestChip(t)
			loadProg(bank, testReset, 0xBD, uint8(tt.base&0xFF), uint8(tt.base>>8)) // LDA abs,X
			c.X = tt.x
			bank.Write(tt.base+uint16(tt.x), 0x55)
			cycles, _, err := c.Step()
			require.NoError(t, err)
			want := uint32(4)
			if tt.crossed {
				want = 5
			}
			assert.Equal(t, want, cycles)
			assert.Equal(t, uint8(0x55), c.A)
		})
	}
}

// TestIndirectXWraparound verifies the (zp,X) pointer fetch wraps within
// the zero page rather than reading into page 1.
func TestIndirectXWraparound(t *testing.T) {
	c, bank := newTestChip(t)
	c.X = 0x05
	loadProg(bank, testReset, 0xA1, 0xFE) // LDA (0xFE,X) -> zp pointer at 0x03
	bank.Write(0x03, 0x00)
	bank.Write(0x04, 0x20)
	bank.Write(0x2000, 0x99)
	_, _, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x99), c.A)
}

// TestJMPIndirectPageWrapBug verifies the well known 6502 hardware bug:
// JMP ($xxFF) fetches its high byte from $xx00, not from the following
// page.
func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0x6C, 0xFF, 0x20) // JMP ($20FF)
	bank.Write(0x20FF, 0x34)
	bank.Write(0x2100, 0x12) // correct (non-buggy) high byte; must be ignored
	bank.Write(0x2000, 0x56) // buggy wraparound high byte
	_, _, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x5634), c.PC)
}

// TestBranchOffsetMinusTwo covers the degenerate infinite-loop branch
// (offset -2 branches back to itself).
func TestBranchOffsetMinusTwo(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0xF0, 0xFE) // BEQ -2
	c.P |= P_ZERO
	cycles, _, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, testReset, c.PC)
	assert.GreaterOrEqual(t, cycles, uint32(3))
}

func TestADCBinary(t *testing.T) {
	tests := []struct {
		name      string
		a, v, cIn uint8
		wantA     uint8
		wantC     bool
		wantV     bool
	}{
		{"no carry", 0x10, 0x20, 0, 0x30, false, false},
		{"carry out", 0xFF, 0x01, 0, 0x00, true, false},
		{"signed overflow", 0x7F, 0x01, 0, 0x80, false, true},
		{"carry in propagates", 0x01, 0x01, 1, 0x03, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bank := newTestChip(t)
			loadProg(bank, testReset, 0x69, tt.v) // ADC #v
			c.A = tt.a
			if tt.cIn != 0 {
				c.P |= P_CARRY
			}
			_, _, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, c.A)
			assert.Equal(t, tt.wantC, c.P&P_CARRY != 0)
			assert.Equal(t, tt.wantV, c.P&P_OVERFLOW != 0)
		})
	}
}

// TestADCDecimal covers BCD addition edge cases (MOS NMOS semantics).
func TestADCDecimal(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0x69, 0x01) // ADC #1
	c.P |= P_DECIMAL
	c.A = 0x09
	_, _, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), c.A, "BCD 09+01 must carry into the tens digit")
	assert.False(t, c.P&P_CARRY != 0)

	c, bank = newTestChip(t)
	loadProg(bank, testReset, 0x69, 0x01)
	c.P |= P_DECIMAL
	c.A = 0x99
	_, _, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), c.A, "BCD 99+01 must wrap to 00 with carry set")
	assert.True(t, c.P&P_CARRY != 0)
}

func TestSBCBinary(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0xE9, 0x01) // SBC #1
	c.A = 0x05
	c.P |= P_CARRY // carry set means "no borrow"
	_, _, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x04), c.A)
	assert.True(t, c.P&P_CARRY != 0)
}

// TestCompare exercises the documented CMP/CPX/CPY invariant: C ↔ (R ≥
// M), Z ↔ (R == M), N ↔ bit 7 of (R−M) mod 256. It also confirms the
// immediate operand is consumed (PC advances by 2) regardless of which
// way the comparison comes out.
func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint8
		reg      func(c *Chip) *uint8
		r, m     uint8
		wantC    bool
		wantZ    bool
		wantN    bool
	}{
		{"CMP equal", 0xC9, func(c *Chip) *uint8 { return &c.A }, 0x40, 0x40, true, true, false},
		{"CMP R greater", 0xC9, func(c *Chip) *uint8 { return &c.A }, 0x40, 0x10, true, false, false},
		{"CMP R less", 0xC9, func(c *Chip) *uint8 { return &c.A }, 0x10, 0x40, false, false, true},
		{"CMP R less, result negative bit7", 0xC9, func(c *Chip) *uint8 { return &c.A }, 0x00, 0x01, false, false, true},
		{"CPX equal", 0xE0, func(c *Chip) *uint8 { return &c.X }, 0x7F, 0x7F, true, true, false},
		{"CPX R greater sets N via high result bit", 0xE0, func(c *Chip) *uint8 { return &c.X }, 0xFF, 0x01, true, false, true},
		{"CPY R less", 0xC0, func(c *Chip) *uint8 { return &c.Y }, 0x01, 0x02, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bank := newTestChip(t)
			loadProg(bank, testReset, tt.opcode, tt.m)
			*tt.reg(c) = tt.r
			_, op, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, tt.opcode, op)
			assert.Equal(t, testReset+2, c.PC, "immediate operand must always be consumed")
			assert.Equal(t, tt.wantC, c.P&P_CARRY != 0, "carry")
			assert.Equal(t, tt.wantZ, c.P&P_ZERO != 0, "zero")
			assert.Equal(t, tt.wantN, c.P&P_NEGATIVE != 0, "negative")
		})
	}
}

// TestStackWrap exercises stack pointer wraparound on consecutive
// pushes past 0x00 (S wraps to 0xFF) and the matching pulls back to the
// original values.
func TestStackWrap(t *testing.T) {
	c, _ := newTestChip(t)
	c.S = 0x01

	c.pushStack(0xAA) // S: 0x01 -> 0x00
	assert.Equal(t, uint8(0x00), c.S)
	c.pushStack(0xBB) // S: 0x00 -> 0xFF, wraps
	assert.Equal(t, uint8(0xFF), c.S)
	c.pushStack(0xCC) // S: 0xFF -> 0xFE
	assert.Equal(t, uint8(0xFE), c.S)

	assert.Equal(t, uint8(0xCC), c.popStack())
	assert.Equal(t, uint8(0xFF), c.S)
	assert.Equal(t, uint8(0xBB), c.popStack())
	assert.Equal(t, uint8(0x00), c.S)
	assert.Equal(t, uint8(0xAA), c.popStack())
	assert.Equal(t, uint8(0x01), c.S)
}

// regSnapshot captures the architectural register state, independent of
// PC and the underlying memory image, so two different instruction
// sequences can be compared for equivalence.
type regSnapshot struct {
	A, X, Y, S, P uint8
}

func snapshot(c *Chip) regSnapshot {
	return regSnapshot{c.A, c.X, c.Y, c.S, c.P}
}

// TestEquivalentSequencesConverge runs two different instruction
// sequences that should leave the CPU in an identical register/flag
// state and diffs them field by field, the same way deep is used
// elsewhere in the pack to compare expected-vs-actual structs.
func TestEquivalentSequencesConverge(t *testing.T) {
	c1, bank1 := newTestChip(t)
	loadProg(bank1, testReset, 0xE8, 0xE8, 0xE8) // INX x3
	for i := 0; i < 3; i++ {
		_, _, err := c1.Step()
		require.NoError(t, err)
	}

	c2, bank2 := newTestChip(t)
	loadProg(bank2, testReset, 0xA2, 0x03) // LDX #3
	_, _, err := c2.Step()
	require.NoError(t, err)

	if diff := deep.Equal(snapshot(c1), snapshot(c2)); diff != nil {
		t.Errorf("register states diverged: %v", diff)
	}
}

func TestStackAndSubroutine(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0x20, 0x00, 0x20) // JSR $2000
	bank.Write(0x2000, 0x60)                    // RTS

	_, op, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x20), op)
	assert.Equal(t, uint16(0x2000), c.PC)

	retAddr := testReset + 2
	assert.Equal(t, uint8(retAddr>>8), bank.Read(0x0100+uint16(c.S+2)))
	assert.Equal(t, uint8(retAddr&0xFF), bank.Read(0x0100+uint16(c.S+1)))

	_, op, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x60), op)
	assert.Equal(t, retAddr+1, c.PC)
}

func TestBRKEncountered(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0x00, 0xEA) // BRK, signature byte
	_, op, err := c.Step()
	assert.Equal(t, uint8(0x00), op)
	var brkErr BRKEncountered
	require.ErrorAs(t, err, &brkErr)
	assert.Equal(t, testReset, brkErr.PC)
	assert.Equal(t, testIRQ, c.PC, "BRK must vector through the IRQ vector")
	assert.True(t, c.P&P_INTERRUPT != 0)
}

// TestPerformInterruptsPriority exercises the RST > NMI > IRQ priority
// ordering from the external interface directly, per spec.
func TestPerformInterruptsPriority(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0xEA)
	c.Raise(IRQ)
	c.Raise(NMI)
	c.Raise(RST)

	cycles, serviced := c.PerformInterrupts()
	require.True(t, serviced)
	assert.Equal(t, uint32(7), cycles)
	assert.Equal(t, testReset, c.PC, "RST must win over NMI and IRQ")

	// RST is now clear; NMI should win over the still-pending IRQ.
	cycles, serviced = c.PerformInterrupts()
	require.True(t, serviced)
	assert.Equal(t, uint32(7), cycles)
	assert.Equal(t, testNMI, c.PC)

	// NMI is now clear; NMI service set I, so the pending IRQ stays
	// masked until I is cleared.
	_, serviced = c.PerformInterrupts()
	assert.False(t, serviced, "IRQ must be masked by I after NMI service sets it")

	c.P &^= P_INTERRUPT
	cycles, serviced = c.PerformInterrupts()
	require.True(t, serviced)
	assert.Equal(t, uint32(7), cycles)
	assert.Equal(t, testIRQ, c.PC)
}

// TestIRQMaskedByI verifies a raised IRQ does nothing while I is set,
// and fires as soon as it's cleared.
func TestIRQMaskedByI(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0xEA)
	c.P |= P_INTERRUPT
	c.Raise(IRQ)
	_, _, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, testReset+1, c.PC, "masked IRQ must not divert execution")

	c.P &^= P_INTERRUPT
	cycles, op, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), op, "a serviced interrupt reports opcode 0")
	assert.Equal(t, uint32(7), cycles)
	assert.Equal(t, testIRQ, c.PC)
}

// TestRunStopsOnBRK exercises the end-to-end Run loop contract: it runs
// until BRK, returning the terminal condition.
func TestRunStopsOnBRK(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0xA9, 0x01, 0x18, 0x69, 0x01, 0x00, 0xEA) // LDA #1; CLC; ADC #1; BRK
	total, err := c.Run()
	var brkErr BRKEncountered
	require.ErrorAs(t, err, &brkErr)
	assert.Equal(t, uint8(0x02), c.A)
	assert.Greater(t, total, uint64(0))
}

// TestMemoryFaultPropagation verifies a DeviceBank device failure
// surfaces from Step as a MemoryFault.
func TestMemoryFaultPropagation(t *testing.T) {
	backing, err := memory.New8BitRAMBank(1<<16, nil)
	require.NoError(t, err)
	backing.PowerOn()
	backing.Write(RESET_VECTOR, uint8(testReset&0xFF))
	backing.Write(RESET_VECTOR+1, uint8(testReset>>8))

	db := memory.NewDeviceBank(backing)
	require.NoError(t, db.Map(0x3000, 0x3000, &faultyDevice{}))

	c, err := Init(&ChipDef{Cpu: CPU_NMOS, Ram: db})
	require.NoError(t, err)
	loadProg(db, testReset, 0xAD, 0x00, 0x30) // LDA $3000

	_, _, err = c.Step()
	var fault MemoryFault
	require.ErrorAs(t, err, &fault)
}

type faultyDevice struct{}

var errDeviceFault = errors.New("simulated bus fault")

func (faultyDevice) Read(addr uint16) (uint8, error)    { return 0, errDeviceFault }
func (faultyDevice) Write(addr uint16, val uint8) error { return errDeviceFault }

// TestUnknownOpcodeDump confirms the halted chip's full state can be
// dumped via spew, the same way a failing test in this package would
// report a mismatch.
func TestUnknownOpcodeDump(t *testing.T) {
	c, bank := newTestChip(t)
	loadProg(bank, testReset, 0x02)
	_, _, err := c.Step()
	require.Error(t, err)
	dump := spew.Sdump(c)
	assert.Contains(t, dump, "halted")
}
