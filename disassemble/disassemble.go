// Package disassemble implements a disassembler for the 151 documented
// 6502 opcodes.
package disassemble

import (
	"fmt"

	"github.com/jchacon/nmos6502/memory"
)

type mode int

const (
	modeImplied mode = iota
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

type entry struct {
	mnemonic string
	mode     mode
}

// Step disassembles the instruction found at pc and returns its textual
// form along with the number of bytes (1-3) it occupies, so a caller can
// advance pc to the next instruction. An opcode outside the 151
// documented values disassembles as ".byte $xx". This always reads up to
// two bytes past pc, so the caller must ensure that range is valid
// memory.
func Step(pc uint16, r memory.Bank) (string, int) {
	op := r.Read(pc)
	e, ok := table[op]
	if !ok {
		return fmt.Sprintf(".byte $%.2X", op), 1
	}

	switch e.mode {
	case modeImplied, modeAccumulator:
		m := e.mnemonic
		if e.mode == modeAccumulator {
			m += " A"
		}
		return m, 1
	case modeImmediate:
		v := r.Read(pc + 1)
		return fmt.Sprintf("%s #$%.2X", e.mnemonic, v), 2
	case modeZP:
		v := r.Read(pc + 1)
		return fmt.Sprintf("%s $%.2X", e.mnemonic, v), 2
	case modeZPX:
		v := r.Read(pc + 1)
		return fmt.Sprintf("%s $%.2X,X", e.mnemonic, v), 2
	case modeZPY:
		v := r.Read(pc + 1)
		return fmt.Sprintf("%s $%.2X,Y", e.mnemonic, v), 2
	case modeIndirectX:
		v := r.Read(pc + 1)
		return fmt.Sprintf("%s ($%.2X,X)", e.mnemonic, v), 2
	case modeIndirectY:
		v := r.Read(pc + 1)
		return fmt.Sprintf("%s ($%.2X),Y", e.mnemonic, v), 2
	case modeRelative:
		v := r.Read(pc + 1)
		target := uint16(int32(pc) + 2 + int32(int8(v)))
		return fmt.Sprintf("%s $%.4X", e.mnemonic, target), 2
	case modeAbsolute:
		lo, hi := r.Read(pc+1), r.Read(pc+2)
		return fmt.Sprintf("%s $%.4X", e.mnemonic, uint16(hi)<<8|uint16(lo)), 3
	case modeAbsoluteX:
		lo, hi := r.Read(pc+1), r.Read(pc+2)
		return fmt.Sprintf("%s $%.4X,X", e.mnemonic, uint16(hi)<<8|uint16(lo)), 3
	case modeAbsoluteY:
		lo, hi := r.Read(pc+1), r.Read(pc+2)
		return fmt.Sprintf("%s $%.4X,Y", e.mnemonic, uint16(hi)<<8|uint16(lo)), 3
	case modeIndirect:
		lo, hi := r.Read(pc+1), r.Read(pc+2)
		return fmt.Sprintf("%s ($%.4X)", e.mnemonic, uint16(hi)<<8|uint16(lo)), 3
	}
	return fmt.Sprintf(".byte $%.2X", op), 1
}

var table = map[uint8]entry{
	0x69: {"ADC", modeImmediate}, 0x65: {"ADC", modeZP}, 0x75: {"ADC", modeZPX},
	0x6D: {"ADC", modeAbsolute}, 0x7D: {"ADC", modeAbsoluteX}, 0x79: {"ADC", modeAbsoluteY},
	0x61: {"ADC", modeIndirectX}, 0x71: {"ADC", modeIndirectY},
	0xE9: {"SBC", modeImmediate}, 0xE5: {"SBC", modeZP}, 0xF5: {"SBC", modeZPX},
	0xED: {"SBC", modeAbsolute}, 0xFD: {"SBC", modeAbsoluteX}, 0xF9: {"SBC", modeAbsoluteY},
	0xE1: {"SBC", modeIndirectX}, 0xF1: {"SBC", modeIndirectY},
	0x29: {"AND", modeImmediate}, 0x25: {"AND", modeZP}, 0x35: {"AND", modeZPX},
	0x2D: {"AND", modeAbsolute}, 0x3D: {"AND", modeAbsoluteX}, 0x39: {"AND", modeAbsoluteY},
	0x21: {"AND", modeIndirectX}, 0x31: {"AND", modeIndirectY},
	0x09: {"ORA", modeImmediate}, 0x05: {"ORA", modeZP}, 0x15: {"ORA", modeZPX},
	0x0D: {"ORA", modeAbsolute}, 0x1D: {"ORA", modeAbsoluteX}, 0x19: {"ORA", modeAbsoluteY},
	0x01: {"ORA", modeIndirectX}, 0x11: {"ORA", modeIndirectY},
	0x49: {"EOR", modeImmediate}, 0x45: {"EOR", modeZP}, 0x55: {"EOR", modeZPX},
	0x4D: {"EOR", modeAbsolute}, 0x5D: {"EOR", modeAbsoluteX}, 0x59: {"EOR", modeAbsoluteY},
	0x41: {"EOR", modeIndirectX}, 0x51: {"EOR", modeIndirectY},
	0x24: {"BIT", modeZP}, 0x2C: {"BIT", modeAbsolute},
	0xC9: {"CMP", modeImmediate}, 0xC5: {"CMP", modeZP}, 0xD5: {"CMP", modeZPX},
	0xCD: {"CMP", modeAbsolute}, 0xDD: {"CMP", modeAbsoluteX}, 0xD9: {"CMP", modeAbsoluteY},
	0xC1: {"CMP", modeIndirectX}, 0xD1: {"CMP", modeIndirectY},
	0xE0: {"CPX", modeImmediate}, 0xE4: {"CPX", modeZP}, 0xEC: {"CPX", modeAbsolute},
	0xC0: {"CPY", modeImmediate}, 0xC4: {"CPY", modeZP}, 0xCC: {"CPY", modeAbsolute},
	0xE6: {"INC", modeZP}, 0xF6: {"INC", modeZPX}, 0xEE: {"INC", modeAbsolute}, 0xFE: {"INC", modeAbsoluteX},
	0xC6: {"DEC", modeZP}, 0xD6: {"DEC", modeZPX}, 0xCE: {"DEC", modeAbsolute}, 0xDE: {"DEC", modeAbsoluteX},
	0xE8: {"INX", modeImplied}, 0xC8: {"INY", modeImplied}, 0xCA: {"DEX", modeImplied}, 0x88: {"DEY", modeImplied},
	0x0A: {"ASL", modeAccumulator}, 0x06: {"ASL", modeZP}, 0x16: {"ASL", modeZPX},
	0x0E: {"ASL", modeAbsolute}, 0x1E: {"ASL", modeAbsoluteX},
	0x4A: {"LSR", modeAccumulator}, 0x46: {"LSR", modeZP}, 0x56: {"LSR", modeZPX},
	0x4E: {"LSR", modeAbsolute}, 0x5E: {"LSR", modeAbsoluteX},
	0x2A: {"ROL", modeAccumulator}, 0x26: {"ROL", modeZP}, 0x36: {"ROL", modeZPX},
	0x2E: {"ROL", modeAbsolute}, 0x3E: {"ROL", modeAbsoluteX},
	0x6A: {"ROR", modeAccumulator}, 0x66: {"ROR", modeZP}, 0x76: {"ROR", modeZPX},
	0x6E: {"ROR", modeAbsolute}, 0x7E: {"ROR", modeAbsoluteX},
	0xA9: {"LDA", modeImmediate}, 0xA5: {"LDA", modeZP}, 0xB5: {"LDA", modeZPX},
	0xAD: {"LDA", modeAbsolute}, 0xBD: {"LDA", modeAbsoluteX}, 0xB9: {"LDA", modeAbsoluteY},
	0xA1: {"LDA", modeIndirectX}, 0xB1: {"LDA", modeIndirectY},
	0xA2: {"LDX", modeImmediate}, 0xA6: {"LDX", modeZP}, 0xB6: {"LDX", modeZPY},
	0xAE: {"LDX", modeAbsolute}, 0xBE: {"LDX", modeAbsoluteY},
	0xA0: {"LDY", modeImmediate}, 0xA4: {"LDY", modeZP}, 0xB4: {"LDY", modeZPX},
	0xAC: {"LDY", modeAbsolute}, 0xBC: {"LDY", modeAbsoluteX},
	0x85: {"STA", modeZP}, 0x95: {"STA", modeZPX}, 0x8D: {"STA", modeAbsolute},
	0x9D: {"STA", modeAbsoluteX}, 0x99: {"STA", modeAbsoluteY},
	0x81: {"STA", modeIndirectX}, 0x91: {"STA", modeIndirectY},
	0x86: {"STX", modeZP}, 0x96: {"STX", modeZPY}, 0x8E: {"STX", modeAbsolute},
	0x84: {"STY", modeZP}, 0x94: {"STY", modeZPX}, 0x8C: {"STY", modeAbsolute},
	0xAA: {"TAX", modeImplied}, 0xA8: {"TAY", modeImplied}, 0x8A: {"TXA", modeImplied},
	0x98: {"TYA", modeImplied}, 0xBA: {"TSX", modeImplied}, 0x9A: {"TXS", modeImplied},
	0x90: {"BCC", modeRelative}, 0xB0: {"BCS", modeRelative}, 0xF0: {"BEQ", modeRelative},
	0xD0: {"BNE", modeRelative}, 0x30: {"BMI", modeRelative}, 0x10: {"BPL", modeRelative},
	0x50: {"BVC", modeRelative}, 0x70: {"BVS", modeRelative},
	0x4C: {"JMP", modeAbsolute}, 0x6C: {"JMP", modeIndirect},
	0x20: {"JSR", modeAbsolute}, 0x60: {"RTS", modeImplied}, 0x40: {"RTI", modeImplied}, 0x00: {"BRK", modeImplied},
	0x48: {"PHA", modeImplied}, 0x68: {"PLA", modeImplied}, 0x08: {"PHP", modeImplied}, 0x28: {"PLP", modeImplied},
	0x18: {"CLC", modeImplied}, 0x38: {"SEC", modeImplied}, 0xD8: {"CLD", modeImplied}, 0xF8: {"SED", modeImplied},
	0x58: {"CLI", modeImplied}, 0x78: {"SEI", modeImplied}, 0xB8: {"CLV", modeImplied}, 0xEA: {"NOP", modeImplied},
}
