package asm

import (
	"testing"

	"github.com/dextercai/mc8/isa"
)

func assembleOrFatal(t *testing.T, src string) *AssembleResult {
	t.Helper()
	res, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	return res
}

func TestAssembleHelloWorldSkeleton(t *testing.T) {
	res := assembleOrFatal(t, `
		jmp start
		db "AB"
		db 00
		start: mov al, c0
		mov bl, 02
		mov cl, [bl]
		end
	`)

	if res.Image[0] != byte(isa.OpJmp) {
		t.Fatalf("image[0] = %#02x, want JMP opcode", res.Image[0])
	}
	if res.Image[2] != 'A' || res.Image[3] != 'B' || res.Image[4] != 0x00 {
		t.Fatalf("data bytes wrong: % x", res.Image[2:5])
	}
	if res.Image[5] != byte(isa.OpMovNumToReg) {
		t.Fatalf("image[5] = %#02x, want MOV_NUM_TO_REG", res.Image[5])
	}
	if _, ok := res.StatementMap[5]; !ok {
		t.Fatalf("statement map missing entry for address 5")
	}
}

func TestAssembleSignedBackwardJump(t *testing.T) {
	res := assembleOrFatal(t, `
		mov al, 03
		loop: dec al
		jnz loop
		end
	`)

	// loop: dec al at address 3 (after the 3-byte mov); jnz at address 5.
	// Distance is relative to the address after the 2-byte jnz instruction.
	jnzDisp := int8(res.Image[6])
	if jnzDisp != -4 {
		t.Fatalf("jnz displacement = %d, want -4", jnzDisp)
	}
}

func TestAssembleInvalidNumberOverflow(t *testing.T) {
	_, err := Assemble("mov al, 1FF\nend")
	aerr, ok := err.(*isa.AssemblerError)
	if !ok || aerr.Kind != isa.InvalidNumber {
		t.Fatalf("err = %v, want InvalidNumber", err)
	}
}

func TestAssembleInvalidLabel(t *testing.T) {
	_, err := Assemble("1BAD: nop\nend")
	aerr, ok := err.(*isa.AssemblerError)
	if !ok || aerr.Kind != isa.InvalidLabel {
		t.Fatalf("err = %v, want InvalidLabel", err)
	}
}

func TestAssembleMissingEnd(t *testing.T) {
	_, err := Assemble("nop")
	aerr, ok := err.(*isa.AssemblerError)
	if !ok || aerr.Kind != isa.MissingEnd {
		t.Fatalf("err = %v, want MissingEnd", err)
	}
}

func TestAssembleJumpDistanceTooFar(t *testing.T) {
	src := "jmp far\n"
	for i := 0; i < 130; i++ {
		src += "nop\n"
	}
	src += "far: end\n"

	_, err := Assemble(src)
	aerr, ok := err.(*isa.AssemblerError)
	if !ok || aerr.Kind != isa.JumpDistance {
		t.Fatalf("err = %v, want JumpDistance", err)
	}
}

func TestAssembleDuplicateLabel(t *testing.T) {
	_, err := Assemble("a: nop\na: nop\nend")
	aerr, ok := err.(*isa.AssemblerError)
	if !ok || aerr.Kind != isa.DuplicateLabel {
		t.Fatalf("err = %v, want DuplicateLabel", err)
	}
}

func TestAssembleLabelNotExist(t *testing.T) {
	_, err := Assemble("jmp nowhere\nend")
	aerr, ok := err.(*isa.AssemblerError)
	if !ok || aerr.Kind != isa.LabelNotExist {
		t.Fatalf("err = %v, want LabelNotExist", err)
	}
}

func TestAssembleMissingComma(t *testing.T) {
	_, err := Assemble("mov al bl\nend")
	aerr, ok := err.(*isa.AssemblerError)
	if !ok || aerr.Kind != isa.MissingComma {
		t.Fatalf("err = %v, want MissingComma", err)
	}
}

func TestAssembleStackAndArithmeticEncoding(t *testing.T) {
	res := assembleOrFatal(t, `
		mov al, 80
		add al, 80
		push al
		pop bl
		end
	`)
	if res.Image[0] != byte(isa.OpMovNumToReg) || res.Image[3] != byte(isa.OpAddNumToReg) ||
		res.Image[6] != byte(isa.OpPushFromReg) || res.Image[8] != byte(isa.OpPopToReg) {
		t.Fatalf("unexpected encoding: % x", res.Image[:10])
	}
}
