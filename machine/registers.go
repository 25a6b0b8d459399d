// Package machine implements the CPU core: the register file, the
// signal handshake with the outside world, and the pure Step function
// that advances the machine by one instruction.
package machine

import "github.com/dextercai/mc8/isa"

// Registers is the complete register file: four general-purpose
// 8-bit registers, the instruction pointer, the stack pointer, and the
// four status flags.
type Registers struct {
	GPR [4]byte
	IP  byte
	SP  byte
	SR  [4]bool
}

// NewRegisters returns the machine's power-on register state: every
// register zeroed except SP, which starts at the top of the stack.
func NewRegisters() Registers {
	return Registers{SP: isa.MaxSP}
}

// Get returns the value of general-purpose register r.
func (r Registers) Get(reg isa.Register) (byte, error) {
	if !reg.Valid() {
		return 0, isa.NewRuntimeError(isa.InvalidRegister, r.IP, int(reg), "invalid register %d", reg)
	}
	return r.GPR[reg], nil
}

// Set assigns the value of general-purpose register r.
func (r *Registers) Set(reg isa.Register, v byte) error {
	if !reg.Valid() {
		return isa.NewRuntimeError(isa.InvalidRegister, r.IP, int(reg), "invalid register %d", reg)
	}
	r.GPR[reg] = v
	return nil
}

// Flag returns the value of status flag f.
func (r Registers) Flag(f isa.StatusFlag) bool {
	return r.SR[f]
}

// SetFlag assigns the value of status flag f.
func (r *Registers) SetFlag(f isa.StatusFlag, v bool) {
	r.SR[f] = v
}

// packStatus marshals the four status flags into a single byte for
// PUSHF, with flag i stored at bit i+1: byte = zero*2 + overflow*4 +
// sign*8 + interrupt*16. Bit 0 and bits 5-7 are always zero.
func (r Registers) packStatus() byte {
	var b byte
	for i, set := range r.SR {
		if set {
			b |= 1 << uint(i+1)
		}
	}
	return b
}

// unpackStatus restores the four status flags from a byte produced by
// packStatus, as POPF does. Bits 0 and 5-7 are ignored.
func (r *Registers) unpackStatus(b byte) {
	for i := range r.SR {
		r.SR[i] = b&(1<<uint(i+1)) != 0
	}
}

// setArithmeticFlags applies the flag-setting rule shared by every
// flag-setting instruction: Zero and Sign are derived from the 8-bit
// result, Overflow is set when the most significant bit changed between
// the previous and new value. Interrupt is left untouched.
func (r *Registers) setArithmeticFlags(prev, result byte) {
	r.SetFlag(isa.Zero, result == 0)
	r.SetFlag(isa.Sign, result&0x80 != 0)
	r.SetFlag(isa.Overflow, (prev&0x80) != (result&0x80))
}
