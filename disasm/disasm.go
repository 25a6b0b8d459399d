// Package disasm implements a disassembler for the machine's instruction
// set, used by the host shell to print the instruction at a given
// address.
package disasm

import (
	"fmt"

	"github.com/dextercai/mc8/isa"
	"github.com/dextercai/mc8/machine"
)

var hex = "0123456789ABCDEF"

func hexByte(b byte) string {
	return string([]byte{hex[b>>4], hex[b&0xf]})
}

// Disassemble formats the instruction at addr in mem and returns the
// address of the instruction that follows it.
func Disassemble(mem machine.Memory, addr byte) (line string, next byte) {
	opcode := isa.Opcode(mem.Load(addr))
	length := opcode.Length()

	operand := make([]byte, length-1)
	for i := range operand {
		operand[i] = mem.Load(byte(int(addr) + 1 + i))
	}

	switch len(operand) {
	case 0:
		line = opcode.String()
	case 1:
		line = fmt.Sprintf("%-20s %s", opcode.String(), hexByte(operand[0]))
	case 2:
		line = fmt.Sprintf("%-20s %s, %s", opcode.String(), hexByte(operand[0]), hexByte(operand[1]))
	}

	next = byte((int(addr) + length) % isa.ImageSize)
	return line, next
}
