// Package trace writes one register-state line per executed CPU step, in
// the fixed-width format external tooling (and test-ROM comparison
// scripts) expect.
package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lucasmora/sm83core/gbcore/cpu"
)

// Writer buffers trace lines to an underlying io.Writer, one per Step.
type Writer struct {
	w *bufio.Writer
}

// New wraps w in a buffered trace Writer.
func New(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteState emits one fixed-width trace line for state, in the order
// BC DE HL AF SP PC. Called before the instruction at PC executes.
func (t *Writer) WriteState(state cpu.State) error {
	_, err := fmt.Fprintf(t.w, "BC=%04X DE=%04X HL=%04X AF=%04X SP=%04X PC=%04X\n",
		state.BC, state.DE, state.HL, state.AF, state.SP, state.PC)
	return err
}

// Flush flushes any buffered trace lines to the underlying writer.
func (t *Writer) Flush() error {
	return t.w.Flush()
}
