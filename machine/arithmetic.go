package machine

import "github.com/dextercai/mc8/isa"

func isArithmeticRegReg(op isa.Opcode) bool {
	switch op {
	case isa.OpAddRegToReg, isa.OpSubRegToReg, isa.OpMulRegToReg, isa.OpDivRegToReg,
		isa.OpModRegToReg, isa.OpAndRegToReg, isa.OpOrRegToReg, isa.OpXorRegToReg,
		isa.OpCmpRegWithReg:
		return true
	}
	return false
}

func isArithmeticRegNum(op isa.Opcode) bool {
	switch op {
	case isa.OpAddNumToReg, isa.OpSubNumToReg, isa.OpMulNumToReg, isa.OpDivNumToReg,
		isa.OpModNumToReg, isa.OpAndNumToReg, isa.OpOrNumToReg, isa.OpXorNumToReg,
		isa.OpCmpRegWithNum:
		return true
	}
	return false
}

// arithOp applies a binary operator, returning the result and whether
// the destination register should be written back (false only for the
// CMP family, which updates flags without storing).
type arithOp func(dest, src byte) (result byte, store bool, err error)

var regRegOps = map[isa.Opcode]arithOp{
	isa.OpAddRegToReg: addOp,
	isa.OpSubRegToReg: subOp,
	isa.OpMulRegToReg: mulOp,
	isa.OpDivRegToReg: divOp,
	isa.OpModRegToReg: modOp,
	isa.OpAndRegToReg: andOp,
	isa.OpOrRegToReg:  orOp,
	isa.OpXorRegToReg: xorOp,
	isa.OpCmpRegWithReg: cmpOp,
}

var regNumOps = map[isa.Opcode]arithOp{
	isa.OpAddNumToReg: addOp,
	isa.OpSubNumToReg: subOp,
	isa.OpMulNumToReg: mulOp,
	isa.OpDivNumToReg: divOp,
	isa.OpModNumToReg: modOp,
	isa.OpAndNumToReg: andOp,
	isa.OpOrNumToReg:  orOp,
	isa.OpXorNumToReg: xorOp,
	isa.OpCmpRegWithNum: cmpOp,
}

func addOp(dest, src byte) (byte, bool, error) { return dest + src, true, nil }
func subOp(dest, src byte) (byte, bool, error) { return dest - src, true, nil }
func mulOp(dest, src byte) (byte, bool, error) { return dest * src, true, nil }
func andOp(dest, src byte) (byte, bool, error) { return dest & src, true, nil }
func orOp(dest, src byte) (byte, bool, error)  { return dest | src, true, nil }
func xorOp(dest, src byte) (byte, bool, error) { return dest ^ src, true, nil }
func cmpOp(dest, src byte) (byte, bool, error) { return dest - src, false, nil }

func divOp(dest, src byte) (byte, bool, error) {
	if src == 0 {
		return 0, false, isa.NewRuntimeError(isa.DivideByZero, 0, 0, "division by zero")
	}
	return dest / src, true, nil
}

func modOp(dest, src byte) (byte, bool, error) {
	if src == 0 {
		return 0, false, isa.NewRuntimeError(isa.DivideByZero, 0, 0, "modulo by zero")
	}
	return dest % src, true, nil
}

func stepArithmeticRegReg(mem *Memory, reg *Registers, opcode isa.Opcode, operands []byte) error {
	destReg := isa.Register(operands[0])
	srcReg := isa.Register(operands[1])

	dest, err := reg.Get(destReg)
	if err != nil {
		return err
	}
	src, err := reg.Get(srcReg)
	if err != nil {
		return err
	}

	result, store, err := regRegOps[opcode](dest, src)
	if err != nil {
		if rerr, ok := err.(*isa.RuntimeError); ok {
			rerr.IP = reg.IP
		}
		return err
	}

	reg.setArithmeticFlags(dest, result)
	if store {
		return reg.Set(destReg, result)
	}
	return nil
}

func stepArithmeticRegNum(mem *Memory, reg *Registers, opcode isa.Opcode, operands []byte) error {
	destReg := isa.Register(operands[0])
	imm := operands[1]

	dest, err := reg.Get(destReg)
	if err != nil {
		return err
	}

	result, store, err := regNumOps[opcode](dest, imm)
	if err != nil {
		if rerr, ok := err.(*isa.RuntimeError); ok {
			rerr.IP = reg.IP
		}
		return err
	}

	reg.setArithmeticFlags(dest, result)
	if store {
		return reg.Set(destReg, result)
	}
	return nil
}
