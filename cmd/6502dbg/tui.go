package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/jchacon/nmos6502/cpu"
	"github.com/jchacon/nmos6502/disassemble"
	"github.com/jchacon/nmos6502/memory"
)

var (
	regStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	pcStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	boxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	c       *cpu.Chip
	prevPC  uint16
	lastErr error
	history []string
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "s", "n":
			if m.lastErr != nil {
				return m, nil
			}
			m.prevPC = m.c.PC
			_, op, err := m.c.Step()
			text, _ := disassemble.Step(m.prevPC, rawBank{m.c})
			_ = op
			m.history = append(m.history, fmt.Sprintf("%.4X: %s", m.prevPC, text))
			if len(m.history) > 10 {
				m.history = m.history[len(m.history)-10:]
			}
			if err != nil {
				m.lastErr = err
			}
		}
	}
	return m, nil
}

// rawBank adapts a Chip's memory for disassembly use without exposing
// the Chip's internal Bank field; debug builds its own tiny Read-only
// view since disassemble.Step only ever calls Read. The remaining
// memory.Bank methods are no-ops.
type rawBank struct{ c *cpu.Chip }

func (r rawBank) Read(addr uint16) uint8 { return r.c.Peek(addr) }
func (r rawBank) Write(uint16, uint8)    {}
func (r rawBank) PowerOn()               {}
func (r rawBank) Parent() memory.Bank    { return nil }
func (r rawBank) DatabusVal() uint8      { return 0 }

func (m model) status() string {
	flags := ""
	for _, f := range []struct {
		name string
		bit  uint8
	}{
		{"N", cpu.P_NEGATIVE}, {"V", cpu.P_OVERFLOW}, {"-", cpu.P_S1}, {"B", cpu.P_B},
		{"D", cpu.P_DECIMAL}, {"I", cpu.P_INTERRUPT}, {"Z", cpu.P_ZERO}, {"C", cpu.P_CARRY},
	} {
		if m.c.P&f.bit != 0 {
			flags += f.name + " "
		} else {
			flags += "_ "
		}
	}
	return regStyle.Render(fmt.Sprintf(
		"A=%.2X X=%.2X Y=%.2X S=%.2X\nP=%.2X [%s]\nCycles=%d",
		m.c.A, m.c.X, m.c.Y, m.c.S, m.c.P, strings.TrimSpace(flags), m.c.Cycles,
	))
}

func (m model) View() string {
	pc := pcStyle.Render(fmt.Sprintf("PC: %.4X (prev %.4X)", m.c.PC, m.prevPC))
	hist := strings.Join(m.history, "\n")
	body := lipgloss.JoinVertical(lipgloss.Left, pc, m.status(), boxStyle.Render(hist))
	if m.lastErr != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, errStyle.Render(m.lastErr.Error()))
	}
	body = lipgloss.JoinVertical(lipgloss.Left, body, helpStyle.Render("space/n: step   q: quit"))
	return body
}

// dump renders the raw Chip state via spew, used on exit so a crash or
// unexpected halt leaves a full state snapshot on the terminal.
func dump(c *cpu.Chip) string {
	return spew.Sdump(c)
}

func runDebugger(c *cpu.Chip) error {
	p := tea.NewProgram(model{c: c})
	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(model)
	if m.lastErr != nil {
		fmt.Println(dump(m.c))
	}
	return nil
}
