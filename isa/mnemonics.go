package isa

import "strings"

// OperandCount returns the number of operands mnemonic m expects (0, 1,
// or 2), and whether m is a recognised mnemonic at all.
func OperandCount(m string) (int, bool) {
	d, ok := mnemonics[strings.ToUpper(m)]
	if !ok {
		return 0, false
	}
	return d.count, true
}

// IsMnemonic reports whether s names a recognised instruction mnemonic.
func IsMnemonic(s string) bool {
	_, ok := mnemonics[strings.ToUpper(s)]
	return ok
}

// IsPseudoOp reports whether s names ORG or DB, the two directives that
// emit no opcode byte of their own.
func IsPseudoOp(s string) bool {
	switch strings.ToUpper(s) {
	case "ORG", "DB":
		return true
	}
	return false
}

// Resolve looks up the opcode for mnemonic m given the type of its first
// operand (opTypes[0]) and, for binary mnemonics, its second
// (opTypes[1]). It returns the matched opcode, or ok=false along with the
// set of operand-type combinations that would have been accepted given
// the operands already seen.
func Resolve(m string, opTypes ...OperandType) (op Opcode, ok bool, expected []OperandType) {
	d, found := mnemonics[strings.ToUpper(m)]
	if !found {
		return 0, false, nil
	}
	return d.resolve(opTypes)
}

type mnemonicDef struct {
	count   int
	resolve func(opTypes []OperandType) (Opcode, bool, []OperandType)
}

// nullary builds a mnemonicDef for a zero-operand instruction.
func nullary(op Opcode) mnemonicDef {
	return mnemonicDef{
		count: 0,
		resolve: func(opTypes []OperandType) (Opcode, bool, []OperandType) {
			return op, true, nil
		},
	}
}

// unaryReg builds a mnemonicDef for an instruction whose sole operand
// must be a register.
func unaryReg(op Opcode) mnemonicDef {
	return mnemonicDef{
		count: 1,
		resolve: func(opTypes []OperandType) (Opcode, bool, []OperandType) {
			if len(opTypes) == 1 && opTypes[0] == RegisterOperand {
				return op, true, nil
			}
			return 0, false, []OperandType{RegisterOperand}
		},
	}
}

// unaryAddr builds a mnemonicDef for an instruction whose sole operand
// must be an address (CALL, INT).
func unaryAddr(op Opcode) mnemonicDef {
	return mnemonicDef{
		count: 1,
		resolve: func(opTypes []OperandType) (Opcode, bool, []OperandType) {
			if len(opTypes) == 1 && opTypes[0] == AddressOperand {
				return op, true, nil
			}
			return 0, false, []OperandType{AddressOperand}
		},
	}
}

// unaryPort builds a mnemonicDef for IN/OUT, whose sole operand is a
// port number expressed as a plain number or an address literal.
func unaryPort(op Opcode) mnemonicDef {
	return mnemonicDef{
		count: 1,
		resolve: func(opTypes []OperandType) (Opcode, bool, []OperandType) {
			if len(opTypes) == 1 && (opTypes[0] == Number || opTypes[0] == AddressOperand) {
				return op, true, nil
			}
			return 0, false, []OperandType{Number, AddressOperand}
		},
	}
}

// jump builds a mnemonicDef for a relative jump, whose sole operand is
// either a label (resolved to a signed displacement by the assembler
// driver) or a number taken as the displacement byte itself.
func jump(op Opcode) mnemonicDef {
	return mnemonicDef{
		count: 1,
		resolve: func(opTypes []OperandType) (Opcode, bool, []OperandType) {
			if len(opTypes) == 1 && (opTypes[0] == LabelOperand || opTypes[0] == Number) {
				return op, true, nil
			}
			return 0, false, []OperandType{LabelOperand}
		},
	}
}

// binaryArith builds a mnemonicDef for a two-operand arithmetic or
// logical mnemonic accepting either (reg,reg) or (reg,num).
func binaryArith(regToReg, numToReg Opcode) mnemonicDef {
	return mnemonicDef{
		count: 2,
		resolve: func(opTypes []OperandType) (Opcode, bool, []OperandType) {
			if len(opTypes) != 2 || opTypes[0] != RegisterOperand {
				return 0, false, []OperandType{RegisterOperand}
			}
			switch opTypes[1] {
			case RegisterOperand:
				return regToReg, true, nil
			case Number:
				return numToReg, true, nil
			default:
				return 0, false, []OperandType{RegisterOperand, Number}
			}
		},
	}
}

// mov builds the mnemonicDef for MOV, whose five valid operand-type
// combinations are enumerated explicitly in the specification.
func mov() mnemonicDef {
	return mnemonicDef{
		count: 2,
		resolve: func(opTypes []OperandType) (Opcode, bool, []OperandType) {
			if len(opTypes) != 2 {
				return 0, false, nil
			}
			switch opTypes[0] {
			case RegisterOperand:
				switch opTypes[1] {
				case Number:
					return OpMovNumToReg, true, nil
				case AddressOperand:
					return OpMovAddrToReg, true, nil
				case RegisterAddress:
					return OpMovRegAddrToReg, true, nil
				default:
					return 0, false, []OperandType{Number, AddressOperand, RegisterAddress}
				}
			case AddressOperand:
				if opTypes[1] == RegisterOperand {
					return OpMovRegToAddr, true, nil
				}
				return 0, false, []OperandType{RegisterOperand}
			case RegisterAddress:
				if opTypes[1] == RegisterOperand {
					return OpMovRegToRegAddr, true, nil
				}
				return 0, false, []OperandType{RegisterOperand}
			default:
				return 0, false, []OperandType{RegisterOperand, AddressOperand, RegisterAddress}
			}
		},
	}
}

var mnemonics = map[string]mnemonicDef{
	"NOP":  nullary(OpNOP),
	"HALT": nullary(OpHALT),
	"END":  nullary(OpEND),
	"STI":  nullary(OpSTI),
	"CLI":  nullary(OpCLI),
	"CLO":  nullary(OpCLO),
	"PUSHF": nullary(OpPUSHF),
	"POPF":  nullary(OpPOPF),
	"RET":   nullary(OpRET),
	"IRET":  nullary(OpIRET),

	"ADD": binaryArith(OpAddRegToReg, OpAddNumToReg),
	"SUB": binaryArith(OpSubRegToReg, OpSubNumToReg),
	"MUL": binaryArith(OpMulRegToReg, OpMulNumToReg),
	"DIV": binaryArith(OpDivRegToReg, OpDivNumToReg),
	"MOD": binaryArith(OpModRegToReg, OpModNumToReg),
	"AND": binaryArith(OpAndRegToReg, OpAndNumToReg),
	"OR":  binaryArith(OpOrRegToReg, OpOrNumToReg),
	"XOR": binaryArith(OpXorRegToReg, OpXorNumToReg),
	"CMP": binaryArith(OpCmpRegWithReg, OpCmpRegWithNum),

	"INC": unaryReg(OpIncReg),
	"DEC": unaryReg(OpDecReg),
	"NOT": unaryReg(OpNotReg),
	"ROL": unaryReg(OpRolReg),
	"ROR": unaryReg(OpRorReg),
	"SHL": unaryReg(OpShlReg),
	"SHR": unaryReg(OpShrReg),

	"PUSH": unaryReg(OpPushFromReg),
	"POP":  unaryReg(OpPopToReg),

	"MOV": mov(),

	"JMP": jump(OpJmp),
	"JZ":  jump(OpJz),
	"JNZ": jump(OpJnz),
	"JS":  jump(OpJs),
	"JNS": jump(OpJns),
	"JO":  jump(OpJo),
	"JNO": jump(OpJno),

	"CALL": unaryAddr(OpCallAddr),
	"INT":  unaryAddr(OpIntAddr),

	"IN":  unaryPort(OpInFromPortToAL),
	"OUT": unaryPort(OpOutFromALToPort),
}
