package machine

import "github.com/dextercai/mc8/isa"

func isUnaryRegister(op isa.Opcode) bool {
	switch op {
	case isa.OpIncReg, isa.OpDecReg, isa.OpNotReg, isa.OpRolReg, isa.OpRorReg,
		isa.OpShlReg, isa.OpShrReg, isa.OpPushFromReg, isa.OpPopToReg:
		return true
	}
	return false
}

func rol(b byte) byte { return b<<1 | b>>7 }
func ror(b byte) byte { return b>>1 | b<<7 }

// stepUnaryRegister applies the single-register instruction family.
// PUSH and POP touch the stack and so return updated memory alongside
// the updated registers; the other members only update registers and
// flags.
func stepUnaryRegister(mem Memory, reg Registers, opcode isa.Opcode, operands []byte) (Memory, Registers, error) {
	target := isa.Register(operands[0])

	if opcode == isa.OpPushFromReg {
		v, err := reg.Get(target)
		if err != nil {
			return mem, reg, err
		}
		return pushByte(mem, reg, v)
	}
	if opcode == isa.OpPopToReg {
		newMem, newReg, v, err := popByte(mem, reg)
		if err != nil {
			return mem, reg, err
		}
		if err := newReg.Set(target, v); err != nil {
			return mem, reg, err
		}
		return newMem, newReg, nil
	}

	prev, err := reg.Get(target)
	if err != nil {
		return mem, reg, err
	}

	var result byte
	switch opcode {
	case isa.OpIncReg:
		result = prev + 1
	case isa.OpDecReg:
		result = prev - 1
	case isa.OpNotReg:
		result = ^prev
	case isa.OpRolReg:
		result = rol(prev)
	case isa.OpRorReg:
		result = ror(prev)
	case isa.OpShlReg:
		result = prev << 1
	case isa.OpShrReg:
		result = prev >> 1
	}

	reg.setArithmeticFlags(prev, result)
	if err := reg.Set(target, result); err != nil {
		return mem, reg, err
	}
	return mem, reg, nil
}
