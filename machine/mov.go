package machine

import "github.com/dextercai/mc8/isa"

func isMov(op isa.Opcode) bool {
	switch op {
	case isa.OpMovNumToReg, isa.OpMovAddrToReg, isa.OpMovRegAddrToReg,
		isa.OpMovRegToAddr, isa.OpMovRegToRegAddr:
		return true
	}
	return false
}

// stepMov applies one of the five MOV operand-type combinations. The
// byte layout of operands mirrors the order the operands appeared in
// source, as encoded by the assembler.
func stepMov(mem *Memory, reg *Registers, opcode isa.Opcode, operands []byte) error {
	switch opcode {
	case isa.OpMovNumToReg:
		return reg.Set(isa.Register(operands[0]), operands[1])

	case isa.OpMovAddrToReg:
		return reg.Set(isa.Register(operands[0]), mem.Load(operands[1]))

	case isa.OpMovRegAddrToReg:
		addrReg := isa.Register(operands[1])
		addr, err := reg.Get(addrReg)
		if err != nil {
			return err
		}
		return reg.Set(isa.Register(operands[0]), mem.Load(addr))

	case isa.OpMovRegToAddr:
		src, err := reg.Get(isa.Register(operands[1]))
		if err != nil {
			return err
		}
		mem.Store(operands[0], src)
		return nil

	case isa.OpMovRegToRegAddr:
		addrReg := isa.Register(operands[0])
		addr, err := reg.Get(addrReg)
		if err != nil {
			return err
		}
		src, err := reg.Get(isa.Register(operands[1]))
		if err != nil {
			return err
		}
		mem.Store(addr, src)
		return nil
	}
	return nil
}
