package machine

import "github.com/dextercai/mc8/isa"

func isJump(op isa.Opcode) bool {
	switch op {
	case isa.OpJmp, isa.OpJz, isa.OpJnz, isa.OpJs, isa.OpJns, isa.OpJo, isa.OpJno:
		return true
	}
	return false
}

func jumpTaken(reg Registers, opcode isa.Opcode) bool {
	switch opcode {
	case isa.OpJmp:
		return true
	case isa.OpJz:
		return reg.Flag(isa.Zero)
	case isa.OpJnz:
		return !reg.Flag(isa.Zero)
	case isa.OpJs:
		return reg.Flag(isa.Sign)
	case isa.OpJns:
		return !reg.Flag(isa.Sign)
	case isa.OpJo:
		return reg.Flag(isa.Overflow)
	case isa.OpJno:
		return !reg.Flag(isa.Overflow)
	}
	return false
}

// stepJump computes the instruction pointer for a relative jump. The
// displacement is always relative to the address of the instruction
// following the jump, matching how the displacement was computed when
// the label was resolved.
func stepJump(reg Registers, opcode isa.Opcode, operands []byte, length int) Registers {
	nextIP := int(reg.IP) + length

	if jumpTaken(reg, opcode) {
		displacement := int(int8(operands[0]))
		target := ((nextIP+displacement)%isa.ImageSize + isa.ImageSize) % isa.ImageSize
		reg.IP = byte(target)
	} else {
		reg.IP = byte(nextIP % isa.ImageSize)
	}

	return reg
}
