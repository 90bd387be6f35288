package disassemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchacon/nmos6502/memory"
)

func newBank(t *testing.T, data ...uint8) memory.Bank {
	t.Helper()
	b, err := memory.New8BitRAMBank(1<<16, nil)
	require.NoError(t, err)
	b.PowerOn()
	for i, d := range data {
		b.Write(uint16(i), d)
	}
	return b
}

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		data []uint8
		want string
		n    int
	}{
		{"implied", []uint8{0xEA}, "NOP", 1},
		{"immediate", []uint8{0xA9, 0x42}, "LDA #$42", 2},
		{"zero page", []uint8{0xA5, 0x10}, "LDA $10", 2},
		{"zero page,X", []uint8{0xB5, 0x10}, "LDA $10,X", 2},
		{"absolute", []uint8{0xAD, 0x00, 0x20}, "LDA $2000", 3},
		{"absolute,X", []uint8{0xBD, 0x00, 0x20}, "LDA $2000,X", 3},
		{"indirect,X", []uint8{0xA1, 0x10}, "LDA ($10,X)", 2},
		{"indirect,Y", []uint8{0xB1, 0x10}, "LDA ($10),Y", 2},
		{"indirect", []uint8{0x6C, 0xFF, 0x20}, "JMP ($20FF)", 3},
		{"accumulator", []uint8{0x0A}, "ASL A", 1},
		{"undocumented", []uint8{0x02}, ".byte $02", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBank(t, tt.data...)
			text, n := Step(0, b)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestStepRelativeComputesTarget(t *testing.T) {
	b := newBank(t, 0xF0, 0x05) // BEQ +5, from PC 0
	text, n := Step(0, b)
	assert.Equal(t, "BEQ $0007", text)
	assert.Equal(t, 2, n)
}

func TestStepRelativeNegativeOffset(t *testing.T) {
	b := newBank(t, 0xF0, 0xFE) // BEQ -2
	text, n := Step(0, b)
	assert.Equal(t, "BEQ $0000", text)
	assert.Equal(t, 2, n)
}
