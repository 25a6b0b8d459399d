package isa

import "testing"

func TestLookupRegister(t *testing.T) {
	r, ok := LookupRegister("BL")
	if !ok || r != BL {
		t.Fatalf("LookupRegister(BL) = %v, %v", r, ok)
	}
	if _, ok := LookupRegister("EL"); ok {
		t.Fatalf("LookupRegister(EL) should fail")
	}
}

func TestResolveMovVariants(t *testing.T) {
	cases := []struct {
		a, b OperandType
		want Opcode
	}{
		{RegisterOperand, Number, OpMovNumToReg},
		{RegisterOperand, AddressOperand, OpMovAddrToReg},
		{RegisterOperand, RegisterAddress, OpMovRegAddrToReg},
		{AddressOperand, RegisterOperand, OpMovRegToAddr},
		{RegisterAddress, RegisterOperand, OpMovRegToRegAddr},
	}
	for _, c := range cases {
		op, ok, _ := Resolve("MOV", c.a, c.b)
		if !ok || op != c.want {
			t.Errorf("Resolve(MOV, %v, %v) = %v, %v; want %v", c.a, c.b, op, ok, c.want)
		}
	}

	if _, ok, expected := Resolve("MOV", Number, RegisterOperand); ok {
		t.Errorf("Resolve(MOV, Number, Register) should fail, expected %v", expected)
	}
}

func TestResolveBinaryArith(t *testing.T) {
	op, ok, _ := Resolve("ADD", RegisterOperand, RegisterOperand)
	if !ok || op != OpAddRegToReg {
		t.Fatalf("Resolve(ADD, reg, reg) = %v, %v", op, ok)
	}
	op, ok, _ = Resolve("ADD", RegisterOperand, Number)
	if !ok || op != OpAddNumToReg {
		t.Fatalf("Resolve(ADD, reg, num) = %v, %v", op, ok)
	}
	if _, ok, _ := Resolve("ADD", Number, Number); ok {
		t.Fatalf("Resolve(ADD, num, num) should fail")
	}
}

func TestOpcodeLength(t *testing.T) {
	cases := map[Opcode]int{
		OpNOP:         1,
		OpHALT:        1,
		OpJmp:         2,
		OpIncReg:      2,
		OpAddRegToReg: 3,
		OpMovNumToReg: 3,
	}
	for op, want := range cases {
		if got := op.Length(); got != want {
			t.Errorf("%v.Length() = %d, want %d", op, got, want)
		}
	}
}

func TestIsPseudoOp(t *testing.T) {
	if !IsPseudoOp("org") || !IsPseudoOp("DB") {
		t.Fatalf("ORG/DB should be pseudo-ops")
	}
	if IsPseudoOp("MOV") {
		t.Fatalf("MOV should not be a pseudo-op")
	}
}
