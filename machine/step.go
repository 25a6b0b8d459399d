package machine

import "github.com/dextercai/mc8/isa"

// Step advances the machine by exactly one instruction. It is a pure
// function: memory and registers are passed by value and the updated
// copies are returned alongside the outgoing signals, leaving the
// caller's inputs untouched. The sole exception to "one instruction per
// call" is a pending hardware interrupt trap, which preempts the fetch
// of whatever instruction the instruction pointer currently addresses.
func Step(mem Memory, reg Registers, sig Signals) (Memory, Registers, Signals, error) {
	var out Signals
	var err error

	if sig.Input.Interrupt && reg.Flag(isa.Interrupt) {
		if mem, reg, err = pushByte(mem, reg, reg.IP); err != nil {
			return mem, reg, out, err
		}
		if mem, reg, err = pushByte(mem, reg, reg.packStatus()); err != nil {
			return mem, reg, out, err
		}
		reg.SetFlag(isa.Interrupt, false)
		reg.IP = mem.Load(isa.HardwareInterruptVector)
		return mem, reg, out, nil
	}

	ipInt := int(reg.IP)
	opcode := isa.Opcode(mem.Load(reg.IP))
	length := opcode.Length()

	if ipInt+length > isa.ImageSize {
		return mem, reg, out, isa.NewRuntimeError(isa.RunBeyondEndOfMemory, reg.IP, ipInt+length,
			"instruction at %#02x runs past end of memory", reg.IP)
	}

	operands := make([]byte, length-1)
	for i := range operands {
		operands[i] = mem.Load(byte(ipInt + 1 + i))
	}

	switch {
	case opcode == isa.OpNOP:
		reg.IP += byte(length)
	case opcode == isa.OpHALT:
		out.Halted = true
	case opcode == isa.OpEND:
		out.Halted = true
	case opcode == isa.OpSTI:
		reg.SetFlag(isa.Interrupt, true)
		reg.IP += byte(length)
	case opcode == isa.OpCLI:
		reg.SetFlag(isa.Interrupt, false)
		reg.IP += byte(length)
	case opcode == isa.OpCLO:
		out.CloseWindows = true
		reg.IP += byte(length)

	case isArithmeticRegReg(opcode):
		if err = stepArithmeticRegReg(&mem, &reg, opcode, operands); err != nil {
			return mem, reg, out, err
		}
		reg.IP += byte(length)

	case isArithmeticRegNum(opcode):
		if err = stepArithmeticRegNum(&mem, &reg, opcode, operands); err != nil {
			return mem, reg, out, err
		}
		reg.IP += byte(length)

	case isUnaryRegister(opcode):
		if mem, reg, err = stepUnaryRegister(mem, reg, opcode, operands); err != nil {
			return mem, reg, out, err
		}
		reg.IP += byte(length)

	case isMov(opcode):
		if err = stepMov(&mem, &reg, opcode, operands); err != nil {
			return mem, reg, out, err
		}
		reg.IP += byte(length)

	case isJump(opcode):
		reg = stepJump(reg, opcode, operands, length)

	case opcode == isa.OpCallAddr:
		target := operands[0]
		if mem, reg, err = pushByte(mem, reg, reg.IP+byte(length)); err != nil {
			return mem, reg, out, err
		}
		reg.IP = target

	case opcode == isa.OpRET:
		var b byte
		if mem, reg, b, err = popByte(mem, reg); err != nil {
			return mem, reg, out, err
		}
		reg.IP = b

	case opcode == isa.OpIntAddr:
		vector := operands[0]
		if mem, reg, err = pushByte(mem, reg, reg.IP+byte(length)); err != nil {
			return mem, reg, out, err
		}
		if mem, reg, err = pushByte(mem, reg, reg.packStatus()); err != nil {
			return mem, reg, out, err
		}
		reg.IP = mem.Load(vector)

	case opcode == isa.OpIRET:
		var flags, ret byte
		if mem, reg, flags, err = popByte(mem, reg); err != nil {
			return mem, reg, out, err
		}
		reg.unpackStatus(flags)
		if mem, reg, ret, err = popByte(mem, reg); err != nil {
			return mem, reg, out, err
		}
		reg.IP = ret

	case opcode == isa.OpPUSHF:
		if mem, reg, err = pushByte(mem, reg, reg.packStatus()); err != nil {
			return mem, reg, out, err
		}
		reg.IP += byte(length)

	case opcode == isa.OpPOPF:
		var b byte
		if mem, reg, b, err = popByte(mem, reg); err != nil {
			return mem, reg, out, err
		}
		reg.unpackStatus(b)
		reg.IP += byte(length)

	case opcode == isa.OpInFromPortToAL:
		port := operands[0]
		if port > isa.MaxPort {
			return mem, reg, out, isa.NewRuntimeError(isa.InvalidPort, reg.IP, int(port), "port %d out of range", port)
		}
		if sig.Input.HasData && sig.Input.Data.Port == port {
			reg.GPR[isa.AL] = sig.Input.Data.Content
			reg.IP += byte(length)
		} else {
			out.HasRequiredInput = true
			out.RequiredInputPort = port
		}

	case opcode == isa.OpOutFromALToPort:
		port := operands[0]
		if port > isa.MaxPort {
			return mem, reg, out, isa.NewRuntimeError(isa.InvalidPort, reg.IP, int(port), "port %d out of range", port)
		}
		out.HasOutputData = true
		out.Data = InputData{Content: reg.GPR[isa.AL], Port: port}
		reg.IP += byte(length)

	default:
		return mem, reg, out, isa.NewRuntimeError(isa.InvalidOpcode, reg.IP, int(opcode), "unknown opcode %#02x", byte(opcode))
	}

	return mem, reg, out, nil
}

// pushByte stores v at the current stack pointer and decrements it. The
// stack occupies addresses [0, isa.MaxSP] and grows downward.
func pushByte(mem Memory, reg Registers, v byte) (Memory, Registers, error) {
	if reg.SP == 0x00 {
		return mem, reg, isa.NewRuntimeError(isa.StackOverflow, reg.IP, 0, "stack overflow")
	}
	mem.Store(reg.SP, v)
	reg.SP--
	return mem, reg, nil
}

// popByte increments the stack pointer and loads the byte it now points
// to.
func popByte(mem Memory, reg Registers) (Memory, Registers, byte, error) {
	if reg.SP == isa.MaxSP {
		return mem, reg, 0, isa.NewRuntimeError(isa.StackUnderflow, reg.IP, 0, "stack underflow")
	}
	reg.SP++
	v := mem.Load(reg.SP)
	return mem, reg, v, nil
}
