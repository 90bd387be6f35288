// Command 6502dbg loads a flat binary image into a simulated 64KiB
// address space and either runs it, disassembles it, or steps it
// interactively.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jchacon/nmos6502/cpu"
	"github.com/jchacon/nmos6502/disassemble"
	"github.com/jchacon/nmos6502/io"
	"github.com/jchacon/nmos6502/memory"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "6502dbg",
		Short: "Load and inspect 6502 binary images",
	}

	var loadAddr uint16
	var pcFlag uint16
	var consolePortAddr uint16

	runCmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Run an image to completion (BRK or an error)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadImage(args[0], loadAddr, pcFlag, consolePortAddr)
			if err != nil {
				return err
			}
			cycles, err := c.Run()
			fmt.Printf("stopped after %d cycles: %v\n", cycles, err)
			fmt.Printf("A=%.2X X=%.2X Y=%.2X S=%.2X P=%.2X PC=%.4X\n", c.A, c.X, c.Y, c.S, c.P, c.PC)
			return nil
		},
	}
	runCmd.Flags().Uint16Var(&loadAddr, "load", 0x0000, "address to load the image at")
	runCmd.Flags().Uint16Var(&pcFlag, "pc", 0, "override starting PC (default: reset vector)")
	runCmd.Flags().Uint16Var(&consolePortAddr, "console-port", 0, "memory address that echoes writes to stdout (0 disables)")

	var disasmLen int
	disasmCmd := &cobra.Command{
		Use:   "disasm <image>",
		Short: "Disassemble an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			bank, err := memory.New8BitRAMBank(1<<16, nil)
			if err != nil {
				return err
			}
			for i, b := range data {
				bank.Write(loadAddr+uint16(i), b)
			}
			pc := loadAddr
			end := loadAddr + uint16(len(data))
			if disasmLen > 0 && uint16(disasmLen) < uint16(len(data)) {
				end = loadAddr + uint16(disasmLen)
			}
			for pc < end {
				text, n := disassemble.Step(pc, bank)
				fmt.Printf("%.4X: %s\n", pc, text)
				pc += uint16(n)
			}
			return nil
		},
	}
	disasmCmd.Flags().Uint16Var(&loadAddr, "load", 0x0000, "address to load the image at")
	disasmCmd.Flags().IntVar(&disasmLen, "len", 0, "bytes to disassemble (default: whole image)")

	debugCmd := &cobra.Command{
		Use:   "debug <image>",
		Short: "Step an image interactively in a TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadImage(args[0], loadAddr, pcFlag, consolePortAddr)
			if err != nil {
				return err
			}
			return runDebugger(c)
		},
	}
	debugCmd.Flags().Uint16Var(&loadAddr, "load", 0x0000, "address to load the image at")
	debugCmd.Flags().Uint16Var(&pcFlag, "pc", 0, "override starting PC (default: reset vector)")
	debugCmd.Flags().Uint16Var(&consolePortAddr, "console-port", 0, "memory address that echoes writes to stdout (0 disables)")

	rootCmd.AddCommand(runCmd, disasmCmd, debugCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadImage builds a flat 64KiB RAM bank, loads data at loadAddr, and
// constructs a CPU_NMOS Chip over it. If pc is non-zero it overrides the
// reset-vector-derived starting PC, letting a raw (headerless) image be
// stepped without needing a reset vector baked in. If consolePortAddr is
// non-zero, that single address is mapped through a memory.DeviceBank to
// an io.Register backed by a console port, so a program can emit output
// by writing ASCII bytes to it.
func loadImage(path string, loadAddr, pc, consolePortAddr uint16) (*cpu.Chip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ram, err := memory.New8BitRAMBank(1<<16, nil)
	if err != nil {
		return nil, err
	}
	for i, b := range data {
		ram.Write(loadAddr+uint16(i), b)
	}

	var bank memory.Bank = ram
	if consolePortAddr != 0 {
		db := memory.NewDeviceBank(ram)
		reg := &io.Register{Port: newConsolePort()}
		if err := db.Map(consolePortAddr, consolePortAddr, reg); err != nil {
			return nil, fmt.Errorf("mapping console port: %w", err)
		}
		bank = db
	}

	def := &cpu.ChipDef{Cpu: cpu.CPU_NMOS, Ram: bank}
	if pc != 0 {
		def.PC = &pc
	}
	c, err := cpu.Init(def)
	if err != nil {
		return nil, err
	}
	if pc != 0 {
		c.PC = pc
	}
	return c, nil
}
