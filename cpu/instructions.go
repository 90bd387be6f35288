package cpu

// opcodeEntry describes one of the 256 possible opcode bytes: its
// mnemonic (for disassembly/debugging use), addressing mode, base cycle
// cost, and whether crossing a page boundary during address resolution
// adds one extra cycle (only matters for the indexed read-only modes;
// indexed stores and RMWs always pay the extra cycle per the store-form
// decision recorded in DESIGN.md).
type opcodeEntry struct {
	mnemonic    string
	mode        addrMode
	cycles      uint32
	extraOnPage bool
	fn          func(c *Chip, op *opcodeEntry) (uint32, error)
}

// execute dispatches a single already-fetched opcode to its
// implementation, which is responsible for resolving its own operand via
// c.resolve and returning the cycles consumed (including any
// page-crossing or taken-branch penalty).
func (c *Chip) execute(op uint8, entry *opcodeEntry) (uint32, error) {
	return entry.fn(c, entry)
}

// rmw implements the generic read-modify-write pattern shared by
// ASL/LSR/ROL/ROR/INC/DEC, dispatching to alu for the accumulator form
// when op.mode is modeAccumulator.
func rmw(alu func(c *Chip, v uint8) uint8) func(c *Chip, op *opcodeEntry) (uint32, error) {
	return func(c *Chip, op *opcodeEntry) (uint32, error) {
		if op.mode == modeAccumulator {
			c.A = alu(c, c.A)
			return op.cycles, nil
		}
		addr, _ := c.resolve(op.mode)
		v := c.ram.Read(addr)
		v = alu(c, v)
		c.ram.Write(addr, v)
		return op.cycles, nil
	}
}

// load implements the generic "fetch from addr into *reg, set N/Z"
// pattern shared by LDA/LDX/LDY.
func load(reg func(c *Chip) *uint8) func(c *Chip, op *opcodeEntry) (uint32, error) {
	return func(c *Chip, op *opcodeEntry) (uint32, error) {
		addr, crossed := c.resolve(op.mode)
		r := reg(c)
		*r = c.ram.Read(addr)
		c.zeroCheck(*r)
		c.negativeCheck(*r)
		cycles := op.cycles
		if op.extraOnPage && crossed {
			cycles++
		}
		return cycles, nil
	}
}

// store implements the generic "write *reg to addr" pattern shared by
// STA/STX/STY. Per the store-form cycle decision, indexed addressing
// modes always cost their page-crossing cycle count (encoded directly
// in the table entry, not computed here).
func store(reg func(c *Chip) uint8) func(c *Chip, op *opcodeEntry) (uint32, error) {
	return func(c *Chip, op *opcodeEntry) (uint32, error) {
		addr, _ := c.resolve(op.mode)
		c.ram.Write(addr, reg(c))
		return op.cycles, nil
	}
}

// transfer implements the register-to-register moves (TAX/TAY/TXA/TYA/
// TSX); TXS is handled separately since it does not touch N/Z.
func transfer(from func(c *Chip) uint8, to func(c *Chip, v uint8)) func(c *Chip, op *opcodeEntry) (uint32, error) {
	return func(c *Chip, op *opcodeEntry) (uint32, error) {
		v := from(c)
		to(c, v)
		c.zeroCheck(v)
		c.negativeCheck(v)
		return op.cycles, nil
	}
}

// branch implements the eight conditional branches. Offset is a signed
// 8 bit relative displacement from the address of the following
// instruction. An extra cycle is charged for a taken branch, and a
// second extra cycle if the branch target crosses a page boundary.
func branch(cond func(c *Chip) bool) func(c *Chip, op *opcodeEntry) (uint32, error) {
	return func(c *Chip, op *opcodeEntry) (uint32, error) {
		offset := int8(c.ram.Read(c.PC))
		c.PC++
		cycles := op.cycles
		if cond(c) {
			cycles++
			newPC := uint16(int32(c.PC) + int32(offset))
			if (newPC & 0xFF00) != (c.PC & 0xFF00) {
				cycles++
			}
			c.PC = newPC
		}
		return cycles, nil
	}
}

func adc(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, crossed := c.resolve(op.mode)
	v := c.ram.Read(addr)
	iADC(c, v)
	cycles := op.cycles
	if op.extraOnPage && crossed {
		cycles++
	}
	return cycles, nil
}

func sbc(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, crossed := c.resolve(op.mode)
	v := c.ram.Read(addr)
	a, borrow, d := int(c.A), 1-int(c.P&P_CARRY), c.P&P_DECIMAL
	c.P &^= P_DECIMAL
	iADC(c, ^v) // N/V/Z/C always come from the binary difference
	c.P |= d
	if d != 0 && c.cpuType != CPU_NMOS_RICOH {
		lo := a&0x0F - int(v&0x0F) - borrow
		hi := a>>4 - int(v>>4)
		if lo < 0 {
			lo, hi = lo-6, hi-1
		}
		if hi < 0 {
			hi -= 6
		}
		c.A = uint8(hi<<4) | uint8(lo&0x0F)
	}
	cycles := op.cycles
	if op.extraOnPage && crossed {
		cycles++
	}
	return cycles, nil
}

// iADC performs binary or BCD addition of v into A per the carry flag,
// matching documented NMOS 6502 decimal-mode quirks (Z/V reflect the
// binary sum even in decimal mode; A, carry and N come from the final
// nibble-corrected sum). SBC reuses the binary path by passing ^v (one's
// complement of the operand), the standard 6502 trick since carry is
// the borrow-complement; sbc computes its own decimal result.
func iADC(c *Chip, v uint8) {
	carryIn := uint16(0)
	if c.P&P_CARRY != 0 {
		carryIn = 1
	}
	if c.cpuType != CPU_NMOS_RICOH && c.P&P_DECIMAL != 0 {
		lo := uint16(c.A&0x0F) + uint16(v&0x0F) + carryIn
		hi := uint16(c.A>>4) + uint16(v>>4)
		if lo > 9 {
			lo += 6
			hi++
		}
		bin := uint16(c.A) + uint16(v) + carryIn
		c.zeroCheck(uint8(bin))
		c.overflowCheck(c.A, v, uint8(bin))
		if hi > 9 {
			hi += 6
		}
		res := (hi << 4) | (lo & 0x0F)
		c.P &^= P_CARRY
		if hi > 15 {
			c.P |= P_CARRY
		}
		c.A = uint8(res)
		c.negativeCheck(c.A)
		return
	}
	sum := uint16(c.A) + uint16(v) + carryIn
	res := uint8(sum)
	c.overflowCheck(c.A, v, res)
	c.carryCheck(sum)
	c.A = res
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
}

func and(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, crossed := c.resolve(op.mode)
	c.A &= c.ram.Read(addr)
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	cycles := op.cycles
	if op.extraOnPage && crossed {
		cycles++
	}
	return cycles, nil
}

func ora(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, crossed := c.resolve(op.mode)
	c.A |= c.ram.Read(addr)
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	cycles := op.cycles
	if op.extraOnPage && crossed {
		cycles++
	}
	return cycles, nil
}

func eor(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, crossed := c.resolve(op.mode)
	c.A ^= c.ram.Read(addr)
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	cycles := op.cycles
	if op.extraOnPage && crossed {
		cycles++
	}
	return cycles, nil
}

func bit(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, _ := c.resolve(op.mode)
	v := c.ram.Read(addr)
	c.zeroCheck(c.A & v)
	c.P &^= P_NEGATIVE | P_OVERFLOW
	c.P |= v & (P_NEGATIVE | P_OVERFLOW)
	return op.cycles, nil
}

func compare(reg func(c *Chip) uint8) func(c *Chip, op *opcodeEntry) (uint32, error) {
	return func(c *Chip, op *opcodeEntry) (uint32, error) {
		addr, crossed := c.resolve(op.mode)
		v := c.ram.Read(addr)
		r := reg(c)
		res := uint16(r) - uint16(v)
		c.P &^= P_CARRY
		if r >= v {
			c.P |= P_CARRY
		}
		c.zeroCheck(uint8(res))
		c.negativeCheck(uint8(res))
		cycles := op.cycles
		if op.extraOnPage && crossed {
			cycles++
		}
		return cycles, nil
	}
}

func asl(c *Chip, v uint8) uint8 {
	c.P &^= P_CARRY
	if v&0x80 != 0 {
		c.P |= P_CARRY
	}
	res := v << 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func lsr(c *Chip, v uint8) uint8 {
	c.P &^= P_CARRY
	if v&0x01 != 0 {
		c.P |= P_CARRY
	}
	res := v >> 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func rol(c *Chip, v uint8) uint8 {
	carryIn := uint8(0)
	if c.P&P_CARRY != 0 {
		carryIn = 1
	}
	c.P &^= P_CARRY
	if v&0x80 != 0 {
		c.P |= P_CARRY
	}
	res := (v << 1) | carryIn
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func ror(c *Chip, v uint8) uint8 {
	carryIn := uint8(0)
	if c.P&P_CARRY != 0 {
		carryIn = 0x80
	}
	c.P &^= P_CARRY
	if v&0x01 != 0 {
		c.P |= P_CARRY
	}
	res := (v >> 1) | carryIn
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func inc(c *Chip, v uint8) uint8 {
	res := v + 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func dec(c *Chip, v uint8) uint8 {
	res := v - 1
	c.zeroCheck(res)
	c.negativeCheck(res)
	return res
}

func inx(c *Chip, op *opcodeEntry) (uint32, error) {
	c.X++
	c.zeroCheck(c.X)
	c.negativeCheck(c.X)
	return op.cycles, nil
}

func iny(c *Chip, op *opcodeEntry) (uint32, error) {
	c.Y++
	c.zeroCheck(c.Y)
	c.negativeCheck(c.Y)
	return op.cycles, nil
}

func dex(c *Chip, op *opcodeEntry) (uint32, error) {
	c.X--
	c.zeroCheck(c.X)
	c.negativeCheck(c.X)
	return op.cycles, nil
}

func dey(c *Chip, op *opcodeEntry) (uint32, error) {
	c.Y--
	c.zeroCheck(c.Y)
	c.negativeCheck(c.Y)
	return op.cycles, nil
}

func clc(c *Chip, op *opcodeEntry) (uint32, error) { c.P &^= P_CARRY; return op.cycles, nil }
func sec(c *Chip, op *opcodeEntry) (uint32, error) { c.P |= P_CARRY; return op.cycles, nil }
func cld(c *Chip, op *opcodeEntry) (uint32, error) { c.P &^= P_DECIMAL; return op.cycles, nil }
func sed(c *Chip, op *opcodeEntry) (uint32, error) { c.P |= P_DECIMAL; return op.cycles, nil }
func cli(c *Chip, op *opcodeEntry) (uint32, error) { c.P &^= P_INTERRUPT; return op.cycles, nil }
func sei(c *Chip, op *opcodeEntry) (uint32, error) { c.P |= P_INTERRUPT; return op.cycles, nil }
func clv(c *Chip, op *opcodeEntry) (uint32, error) { c.P &^= P_OVERFLOW; return op.cycles, nil }
func nop(c *Chip, op *opcodeEntry) (uint32, error) { return op.cycles, nil }

func txs(c *Chip, op *opcodeEntry) (uint32, error) {
	c.S = c.X
	return op.cycles, nil
}

func pha(c *Chip, op *opcodeEntry) (uint32, error) {
	c.pushStack(c.A)
	return op.cycles, nil
}

func pla(c *Chip, op *opcodeEntry) (uint32, error) {
	c.A = c.popStack()
	c.zeroCheck(c.A)
	c.negativeCheck(c.A)
	return op.cycles, nil
}

func php(c *Chip, op *opcodeEntry) (uint32, error) {
	c.pushStack(c.P | P_S1 | P_B)
	return op.cycles, nil
}

func plp(c *Chip, op *opcodeEntry) (uint32, error) {
	c.P = (c.popStack() | P_S1) &^ P_B
	return op.cycles, nil
}

func jmp(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, _ := c.resolve(modeAbsolute)
	c.PC = addr
	return op.cycles, nil
}

// jmpIndirect implements JMP (a), including the famous hardware bug
// where the high byte of the target is fetched from (ptr & 0xFF00) |
// ((ptr+1) & 0xFF) rather than ptr+1, so an indirect vector stored at a
// page boundary (e.g. 0x10FF) wraps within the same page.
func jmpIndirect(c *Chip, op *opcodeEntry) (uint32, error) {
	ptr := c.resolveIndirectPointer()
	lo := c.ram.Read(ptr)
	hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
	hi := c.ram.Read(hiAddr)
	c.PC = uint16(hi)<<8 | uint16(lo)
	return op.cycles, nil
}

func jsr(c *Chip, op *opcodeEntry) (uint32, error) {
	addr, _ := c.resolve(modeAbsolute)
	ret := c.PC - 1
	c.pushStack(uint8(ret >> 8))
	c.pushStack(uint8(ret & 0xFF))
	c.PC = addr
	return op.cycles, nil
}

func rts(c *Chip, op *opcodeEntry) (uint32, error) {
	lo := c.popStack()
	hi := c.popStack()
	c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
	return op.cycles, nil
}

func rti(c *Chip, op *opcodeEntry) (uint32, error) {
	c.P = (c.popStack() | P_S1) &^ P_B
	lo := c.popStack()
	hi := c.popStack()
	c.PC = uint16(hi)<<8 | uint16(lo)
	return op.cycles, nil
}

// brk implements the BRK software interrupt/signature byte. Per
// spec.md's documented edge case and DESIGN.md's Open Question
// decision, the PC pushed on the stack is the address after BRK's
// signature byte (opcode address + 2): Step has already advanced past
// the opcode, and brk skips the signature byte. BRK always returns
// BRKEncountered as its terminal condition; cycles are still
// meaningful.
func brk(c *Chip, op *opcodeEntry) (uint32, error) {
	pc := c.PC - 1
	c.PC++
	c.serviceInterrupt(IRQ_VECTOR, true)
	return op.cycles, BRKEncountered{pc}
}

func regA(c *Chip) *uint8 { return &c.A }
func regX(c *Chip) *uint8 { return &c.X }
func regY(c *Chip) *uint8 { return &c.Y }

func getA(c *Chip) uint8 { return c.A }
func getX(c *Chip) uint8 { return c.X }
func getY(c *Chip) uint8 { return c.Y }
func getS(c *Chip) uint8 { return c.S }

func setA(c *Chip, v uint8) { c.A = v }
func setX(c *Chip, v uint8) { c.X = v }
func setY(c *Chip, v uint8) { c.Y = v }

var opcodeTable = map[uint8]*opcodeEntry{
	// ADC
	0x69: {"ADC", modeImmediate, 2, false, adc},
	0x65: {"ADC", modeZP, 3, false, adc},
	0x75: {"ADC", modeZPX, 4, false, adc},
	0x6D: {"ADC", modeAbsolute, 4, false, adc},
	0x7D: {"ADC", modeAbsoluteX, 4, true, adc},
	0x79: {"ADC", modeAbsoluteY, 4, true, adc},
	0x61: {"ADC", modeIndirectX, 6, false, adc},
	0x71: {"ADC", modeIndirectY, 5, true, adc},
	// SBC
	0xE9: {"SBC", modeImmediate, 2, false, sbc},
	0xE5: {"SBC", modeZP, 3, false, sbc},
	0xF5: {"SBC", modeZPX, 4, false, sbc},
	0xED: {"SBC", modeAbsolute, 4, false, sbc},
	0xFD: {"SBC", modeAbsoluteX, 4, true, sbc},
	0xF9: {"SBC", modeAbsoluteY, 4, true, sbc},
	0xE1: {"SBC", modeIndirectX, 6, false, sbc},
	0xF1: {"SBC", modeIndirectY, 5, true, sbc},
	// AND
	0x29: {"AND", modeImmediate, 2, false, and},
	0x25: {"AND", modeZP, 3, false, and},
	0x35: {"AND", modeZPX, 4, false, and},
	0x2D: {"AND", modeAbsolute, 4, false, and},
	0x3D: {"AND", modeAbsoluteX, 4, true, and},
	0x39: {"AND", modeAbsoluteY, 4, true, and},
	0x21: {"AND", modeIndirectX, 6, false, and},
	0x31: {"AND", modeIndirectY, 5, true, and},
	// ORA
	0x09: {"ORA", modeImmediate, 2, false, ora},
	0x05: {"ORA", modeZP, 3, false, ora},
	0x15: {"ORA", modeZPX, 4, false, ora},
	0x0D: {"ORA", modeAbsolute, 4, false, ora},
	0x1D: {"ORA", modeAbsoluteX, 4, true, ora},
	0x19: {"ORA", modeAbsoluteY, 4, true, ora},
	0x01: {"ORA", modeIndirectX, 6, false, ora},
	0x11: {"ORA", modeIndirectY, 5, true, ora},
	// EOR
	0x49: {"EOR", modeImmediate, 2, false, eor},
	0x45: {"EOR", modeZP, 3, false, eor},
	0x55: {"EOR", modeZPX, 4, false, eor},
	0x4D: {"EOR", modeAbsolute, 4, false, eor},
	0x5D: {"EOR", modeAbsoluteX, 4, true, eor},
	0x59: {"EOR", modeAbsoluteY, 4, true, eor},
	0x41: {"EOR", modeIndirectX, 6, false, eor},
	0x51: {"EOR", modeIndirectY, 5, true, eor},
	// BIT
	0x24: {"BIT", modeZP, 3, false, bit},
	0x2C: {"BIT", modeAbsolute, 4, false, bit},
	// CMP/CPX/CPY
	0xC9: {"CMP", modeImmediate, 2, false, compare(getA)},
	0xC5: {"CMP", modeZP, 3, false, compare(getA)},
	0xD5: {"CMP", modeZPX, 4, false, compare(getA)},
	0xCD: {"CMP", modeAbsolute, 4, false, compare(getA)},
	0xDD: {"CMP", modeAbsoluteX, 4, true, compare(getA)},
	0xD9: {"CMP", modeAbsoluteY, 4, true, compare(getA)},
	0xC1: {"CMP", modeIndirectX, 6, false, compare(getA)},
	0xD1: {"CMP", modeIndirectY, 5, true, compare(getA)},
	0xE0: {"CPX", modeImmediate, 2, false, compare(getX)},
	0xE4: {"CPX", modeZP, 3, false, compare(getX)},
	0xEC: {"CPX", modeAbsolute, 4, false, compare(getX)},
	0xC0: {"CPY", modeImmediate, 2, false, compare(getY)},
	0xC4: {"CPY", modeZP, 3, false, compare(getY)},
	0xCC: {"CPY", modeAbsolute, 4, false, compare(getY)},
	// INC/DEC
	0xE6: {"INC", modeZP, 5, false, rmw(inc)},
	0xF6: {"INC", modeZPX, 6, false, rmw(inc)},
	0xEE: {"INC", modeAbsolute, 6, false, rmw(inc)},
	0xFE: {"INC", modeAbsoluteX, 7, false, rmw(inc)},
	0xC6: {"DEC", modeZP, 5, false, rmw(dec)},
	0xD6: {"DEC", modeZPX, 6, false, rmw(dec)},
	0xCE: {"DEC", modeAbsolute, 6, false, rmw(dec)},
	0xDE: {"DEC", modeAbsoluteX, 7, false, rmw(dec)},
	0xE8: {"INX", modeImplied, 2, false, inx},
	0xC8: {"INY", modeImplied, 2, false, iny},
	0xCA: {"DEX", modeImplied, 2, false, dex},
	0x88: {"DEY", modeImplied, 2, false, dey},
	// Shifts/rotates
	0x0A: {"ASL", modeAccumulator, 2, false, rmw(asl)},
	0x06: {"ASL", modeZP, 5, false, rmw(asl)},
	0x16: {"ASL", modeZPX, 6, false, rmw(asl)},
	0x0E: {"ASL", modeAbsolute, 6, false, rmw(asl)},
	0x1E: {"ASL", modeAbsoluteX, 7, false, rmw(asl)},
	0x4A: {"LSR", modeAccumulator, 2, false, rmw(lsr)},
	0x46: {"LSR", modeZP, 5, false, rmw(lsr)},
	0x56: {"LSR", modeZPX, 6, false, rmw(lsr)},
	0x4E: {"LSR", modeAbsolute, 6, false, rmw(lsr)},
	0x5E: {"LSR", modeAbsoluteX, 7, false, rmw(lsr)},
	0x2A: {"ROL", modeAccumulator, 2, false, rmw(rol)},
	0x26: {"ROL", modeZP, 5, false, rmw(rol)},
	0x36: {"ROL", modeZPX, 6, false, rmw(rol)},
	0x2E: {"ROL", modeAbsolute, 6, false, rmw(rol)},
	0x3E: {"ROL", modeAbsoluteX, 7, false, rmw(rol)},
	0x6A: {"ROR", modeAccumulator, 2, false, rmw(ror)},
	0x66: {"ROR", modeZP, 5, false, rmw(ror)},
	0x76: {"ROR", modeZPX, 6, false, rmw(ror)},
	0x6E: {"ROR", modeAbsolute, 6, false, rmw(ror)},
	0x7E: {"ROR", modeAbsoluteX, 7, false, rmw(ror)},
	// Loads
	0xA9: {"LDA", modeImmediate, 2, false, load(regA)},
	0xA5: {"LDA", modeZP, 3, false, load(regA)},
	0xB5: {"LDA", modeZPX, 4, false, load(regA)},
	0xAD: {"LDA", modeAbsolute, 4, false, load(regA)},
	0xBD: {"LDA", modeAbsoluteX, 4, true, load(regA)},
	0xB9: {"LDA", modeAbsoluteY, 4, true, load(regA)},
	0xA1: {"LDA", modeIndirectX, 6, false, load(regA)},
	0xB1: {"LDA", modeIndirectY, 5, true, load(regA)},
	0xA2: {"LDX", modeImmediate, 2, false, load(regX)},
	0xA6: {"LDX", modeZP, 3, false, load(regX)},
	0xB6: {"LDX", modeZPY, 4, false, load(regX)},
	0xAE: {"LDX", modeAbsolute, 4, false, load(regX)},
	0xBE: {"LDX", modeAbsoluteY, 4, true, load(regX)},
	0xA0: {"LDY", modeImmediate, 2, false, load(regY)},
	0xA4: {"LDY", modeZP, 3, false, load(regY)},
	0xB4: {"LDY", modeZPX, 4, false, load(regY)},
	0xAC: {"LDY", modeAbsolute, 4, false, load(regY)},
	0xBC: {"LDY", modeAbsoluteX, 4, true, load(regY)},
	// Stores
	0x85: {"STA", modeZP, 3, false, store(getA)},
	0x95: {"STA", modeZPX, 4, false, store(getA)},
	0x8D: {"STA", modeAbsolute, 4, false, store(getA)},
	0x9D: {"STA", modeAbsoluteX, 5, false, store(getA)},
	0x99: {"STA", modeAbsoluteY, 5, false, store(getA)},
	0x81: {"STA", modeIndirectX, 6, false, store(getA)},
	0x91: {"STA", modeIndirectY, 6, false, store(getA)},
	0x86: {"STX", modeZP, 3, false, store(getX)},
	0x96: {"STX", modeZPY, 4, false, store(getX)},
	0x8E: {"STX", modeAbsolute, 4, false, store(getX)},
	0x84: {"STY", modeZP, 3, false, store(getY)},
	0x94: {"STY", modeZPX, 4, false, store(getY)},
	0x8C: {"STY", modeAbsolute, 4, false, store(getY)},
	// Transfers
	0xAA: {"TAX", modeImplied, 2, false, transfer(getA, setX)},
	0xA8: {"TAY", modeImplied, 2, false, transfer(getA, setY)},
	0x8A: {"TXA", modeImplied, 2, false, transfer(getX, setA)},
	0x98: {"TYA", modeImplied, 2, false, transfer(getY, setA)},
	0xBA: {"TSX", modeImplied, 2, false, transfer(getS, setX)},
	0x9A: {"TXS", modeImplied, 2, false, txs},
	// Branches
	0x90: {"BCC", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_CARRY == 0 })},
	0xB0: {"BCS", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_CARRY != 0 })},
	0xF0: {"BEQ", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_ZERO != 0 })},
	0xD0: {"BNE", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_ZERO == 0 })},
	0x30: {"BMI", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_NEGATIVE != 0 })},
	0x10: {"BPL", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_NEGATIVE == 0 })},
	0x50: {"BVC", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_OVERFLOW == 0 })},
	0x70: {"BVS", modeRelative, 2, false, branch(func(c *Chip) bool { return c.P&P_OVERFLOW != 0 })},
	// Jumps/subroutines
	0x4C: {"JMP", modeAbsolute, 3, false, jmp},
	0x6C: {"JMP", modeIndirect, 5, false, jmpIndirect},
	0x20: {"JSR", modeAbsolute, 6, false, jsr},
	0x60: {"RTS", modeImplied, 6, false, rts},
	0x40: {"RTI", modeImplied, 6, false, rti},
	0x00: {"BRK", modeImplied, 7, false, brk},
	// Stack
	0x48: {"PHA", modeImplied, 3, false, pha},
	0x68: {"PLA", modeImplied, 4, false, pla},
	0x08: {"PHP", modeImplied, 3, false, php},
	0x28: {"PLP", modeImplied, 4, false, plp},
	// Flags
	0x18: {"CLC", modeImplied, 2, false, clc},
	0x38: {"SEC", modeImplied, 2, false, sec},
	0xD8: {"CLD", modeImplied, 2, false, cld},
	0xF8: {"SED", modeImplied, 2, false, sed},
	0x58: {"CLI", modeImplied, 2, false, cli},
	0x78: {"SEI", modeImplied, 2, false, sei},
	0xB8: {"CLV", modeImplied, 2, false, clv},
	0xEA: {"NOP", modeImplied, 2, false, nop},
}
