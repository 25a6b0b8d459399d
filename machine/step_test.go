package machine

import (
	"testing"

	"github.com/dextercai/mc8/asm"
	"github.com/dextercai/mc8/isa"
)

// run executes an assembled program to completion (Halted) or
// fails the test after a generous step budget, to guard against an
// infinite loop in a broken implementation.
func run(t *testing.T, src string) (Memory, Registers) {
	t.Helper()
	res, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	mem := NewMemoryFromImage(res.Image)
	reg := NewRegisters()

	for i := 0; i < 10000; i++ {
		var sig Signals
		var out Signals
		var err error
		mem, reg, out, err = Step(mem, reg, sig)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if out.Halted {
			return mem, reg
		}
	}
	t.Fatalf("program did not halt")
	return mem, reg
}

func TestStepHelloWorldSkeleton(t *testing.T) {
	mem, reg := run(t, `
		jmp start
		db "AB"
		db 00
		start: mov al, c0
		mov bl, 02
		mov cl, [bl]
		end
	`)
	if reg.GPR[isa.AL] != 0xC0 {
		t.Fatalf("AL = %#02x, want 0xC0", reg.GPR[isa.AL])
	}
	if reg.GPR[isa.BL] != 0x02 {
		t.Fatalf("BL = %#02x, want 0x02", reg.GPR[isa.BL])
	}
	if reg.GPR[isa.CL] != mem.Load(2) {
		t.Fatalf("CL = %#02x, want memory[2] = %#02x", reg.GPR[isa.CL], mem.Load(2))
	}
}

func TestStepArithmeticFlags(t *testing.T) {
	_, reg := run(t, `
		mov al, 80
		add al, 80
		end
	`)
	if reg.GPR[isa.AL] != 0 {
		t.Fatalf("AL = %#02x, want 0", reg.GPR[isa.AL])
	}
	if !reg.Flag(isa.Zero) {
		t.Fatalf("zero flag not set")
	}
	if !reg.Flag(isa.Overflow) {
		t.Fatalf("overflow flag not set")
	}
}

func TestStepSignedBackwardJumpLoop(t *testing.T) {
	_, reg := run(t, `
		mov al, 03
		loop: dec al
		jnz loop
		end
	`)
	if reg.GPR[isa.AL] != 0 {
		t.Fatalf("AL = %#02x, want 0", reg.GPR[isa.AL])
	}
	if !reg.Flag(isa.Zero) {
		t.Fatalf("zero flag not set after loop")
	}
}

func TestStepStackDiscipline(t *testing.T) {
	_, reg := run(t, `
		mov al, 2a
		push al
		pop bl
		end
	`)
	if reg.GPR[isa.BL] != 0x2A {
		t.Fatalf("BL = %#02x, want 0x2A", reg.GPR[isa.BL])
	}
	if reg.SP != isa.MaxSP {
		t.Fatalf("SP = %#02x, want balanced back to %#02x", reg.SP, isa.MaxSP)
	}
}

func TestStepPortInputHandshake(t *testing.T) {
	res, err := asm.Assemble(`
		in 05
		halt
		end
	`)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	mem := NewMemoryFromImage(res.Image)
	reg := NewRegisters()

	var sig Signals
	var out Signals
	mem, reg, out, err = Step(mem, reg, sig)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.HasRequiredInput || out.RequiredInputPort != 5 {
		t.Fatalf("out = %+v, want required input on port 5", out)
	}

	sig.Input.Data = InputData{Content: 0x77, Port: 5}
	sig.Input.HasData = true
	mem, reg, out, err = Step(mem, reg, sig)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if reg.GPR[isa.AL] != 0x77 {
		t.Fatalf("AL = %#02x, want 0x77", reg.GPR[isa.AL])
	}
	_ = mem
}

func TestStepPortInputZeroValueSignalsDoNotMatchPortZero(t *testing.T) {
	res, err := asm.Assemble(`
		in 00
		halt
		end
	`)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	mem := NewMemoryFromImage(res.Image)
	reg := NewRegisters()

	var sig Signals
	mem, reg, out, err := Step(mem, reg, sig)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !out.HasRequiredInput || out.RequiredInputPort != 0 {
		t.Fatalf("out = %+v, want required input on port 0, not a spurious match", out)
	}
	if reg.GPR[isa.AL] != 0 {
		t.Fatalf("AL = %#02x, want untouched", reg.GPR[isa.AL])
	}
	_ = mem
}

func TestStepHardwareInterruptTrap(t *testing.T) {
	res, err := asm.Assemble(`
		sti
		handler: end
		loop: jmp loop
		end
	`)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	mem := NewMemoryFromImage(res.Image)
	mem.Store(isa.HardwareInterruptVector, 1) // vector -> address of "handler", right after the 1-byte STI
	reg := NewRegisters()

	var sig Signals
	mem, reg, _, err = Step(mem, reg, sig) // STI
	if err != nil {
		t.Fatalf("step: %v", err)
	}

	sig.Input.Interrupt = true
	var out Signals
	mem, reg, out, err = Step(mem, reg, sig)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if reg.IP != mem.Load(isa.HardwareInterruptVector) {
		t.Fatalf("IP = %#02x, want vectored to %#02x", reg.IP, mem.Load(isa.HardwareInterruptVector))
	}
	if reg.Flag(isa.Interrupt) {
		t.Fatalf("Interrupt flag should be disabled after trap")
	}
	_ = out

	mem.Store(reg.IP, byte(isa.OpIRET))
	sig = Signals{}
	mem, reg, _, err = Step(mem, reg, sig) // IRET
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !reg.Flag(isa.Interrupt) {
		t.Fatalf("IRET should restore the pre-trap Interrupt flag")
	}
}

func TestStepDivideByZero(t *testing.T) {
	res, err := asm.Assemble(`
		mov al, 05
		mov bl, 00
		div al, bl
		end
	`)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	mem := NewMemoryFromImage(res.Image)
	reg := NewRegisters()
	var sig Signals

	for i := 0; i < 3; i++ {
		var out Signals
		mem, reg, out, err = Step(mem, reg, sig)
		if err != nil {
			break
		}
		if out.Halted {
			t.Fatalf("program halted before dividing by zero")
		}
	}
	rerr, ok := err.(*isa.RuntimeError)
	if !ok || rerr.Kind != isa.DivideByZero {
		t.Fatalf("err = %v, want DivideByZero", err)
	}
}
