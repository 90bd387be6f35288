package main

import (
	"bufio"
	"os"

	"github.com/jchacon/nmos6502/io"
)

// consolePort is a minimal io.Port8 that echoes writes to stdout as
// ASCII and always reads back as zero (a write-only status/data port,
// the common shape for a bit-banged terminal on these machines).
type consolePort struct {
	w *bufio.Writer
}

func newConsolePort() *consolePort {
	return &consolePort{w: bufio.NewWriter(os.Stdout)}
}

// Input implements io.Port8.
func (c *consolePort) Input() uint8 { return 0 }

// Output implements io.Port8.
func (c *consolePort) Output(val uint8) {
	c.w.WriteByte(val)
	c.w.Flush()
}

var _ io.Port8 = (*consolePort)(nil)
