package asm

import "github.com/dextercai/mc8/isa"

// Label names a program location. Identifiers must start with a letter
// or underscore and are unique within a program.
type Label struct {
	Identifier string
	Token      Token
}

// Operand is a single parsed instruction parameter. Which fields are
// meaningful depends on Type.
type Operand struct {
	Type     isa.OperandType
	Token    Token
	Number   int          // Number, AddressOperand: 0..255
	Register isa.Register // RegisterOperand, RegisterAddress
	Bytes    []byte       // StringOperand: ASCII codepoints
	Label    string       // LabelOperand: unresolved identifier
	Distance int8         // LabelOperand: resolved signed relative distance
	Resolved bool         // LabelOperand: true once Distance is valid
}

// byte returns the single encoded byte for operand types that always
// occupy one byte of machine code.
func (o *Operand) byte() byte {
	switch o.Type {
	case isa.Number, isa.AddressOperand:
		return byte(o.Number)
	case isa.RegisterOperand, isa.RegisterAddress:
		return byte(o.Register)
	case isa.LabelOperand:
		return byte(o.Distance)
	default:
		return 0
	}
}

// Statement is one parsed line of assembly: an optional label, a
// mnemonic (or the ORG/DB pseudo-op), and its operands.
type Statement struct {
	Label     *Label
	Mnemonic  string
	Opcode    isa.Opcode
	HasOpcode bool // false for ORG and DB, which emit no opcode byte

	Operands []Operand

	MachineCodes []byte // [opcode?] ++ operand bytes
	Address      int    // assigned by driver pass 1

	Position int // instruction token's source offset
	Length   int // span from Position to the end of the last operand token
}

// encode (re)builds MachineCodes from the statement's opcode and
// operands. It is called once during parsing (with label operands
// encoded as a zero placeholder) and again by the driver after label
// resolution.
func (s *Statement) encode() {
	switch {
	case s.Mnemonic == "ORG":
		s.MachineCodes = nil

	case s.Mnemonic == "DB":
		var b []byte
		for _, o := range s.Operands {
			if o.Type == isa.StringOperand {
				b = append(b, o.Bytes...)
			} else {
				b = append(b, o.byte())
			}
		}
		s.MachineCodes = b

	default:
		b := []byte{byte(s.Opcode)}
		switch len(s.Operands) {
		case 0:
			// nullary
		case 1:
			b = append(b, s.Operands[0].byte())
		case 2:
			b = append(b, s.Operands[0].byte(), s.Operands[1].byte())
		}
		s.MachineCodes = b
	}
}

// DataLength returns the number of bytes this statement contributes to
// the image once encoded.
func (s *Statement) DataLength() int {
	return len(s.MachineCodes)
}

// AssembleResult is the output of a successful Assemble call.
type AssembleResult struct {
	Image        [isa.ImageSize]byte
	StatementMap map[int]*Statement // address -> originating statement
}
