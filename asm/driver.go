package asm

import (
	"github.com/dextercai/mc8/isa"
)

// Assemble compiles source into a 256-byte image plus a map from each
// statement's start address back to that statement; the other bytes a
// statement occupies have no entry of their own. It runs two passes
// over the parsed statement list: the first assigns addresses and
// collects labels, the second resolves label operands into relative
// jump displacements and rebuilds the affected machine code.
func Assemble(source string) (*AssembleResult, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	statements, err := Parse(tokens)
	if err != nil {
		return nil, err
	}

	labels, err := assignAddresses(statements)
	if err != nil {
		return nil, err
	}

	if err := resolveLabels(statements, labels); err != nil {
		return nil, err
	}

	return buildImage(statements)
}

// assignAddresses runs pass 1: it walks the statements in order,
// maintaining a cursor that ORG can relocate, and records the address of
// every label.
func assignAddresses(statements []*Statement) (map[string]int, error) {
	labels := make(map[string]int)
	cursor := 0

	for _, stmt := range statements {
		if stmt.Mnemonic == "ORG" {
			cursor = stmt.Operands[0].Number
		}

		if stmt.Label != nil {
			if _, exists := labels[stmt.Label.Identifier]; exists {
				return nil, isa.NewAssemblerError(isa.DuplicateLabel,
					isa.SourcePos{Offset: stmt.Label.Token.Position, Length: stmt.Label.Token.Length},
					"label %q already defined", stmt.Label.Identifier)
			}
			labels[stmt.Label.Identifier] = cursor
		}

		stmt.Address = cursor

		if stmt.Mnemonic == "ORG" {
			continue
		}

		cursor += stmt.DataLength()
		if cursor > isa.ImageSize {
			return nil, isa.NewAssemblerError(isa.AssembleOverflow,
				isa.SourcePos{Offset: stmt.Position, Length: stmt.Length},
				"program exceeds %d-byte image", isa.ImageSize)
		}
	}

	return labels, nil
}

// resolveLabels runs pass 2: every label operand is resolved to a
// relative displacement and the owning statement's machine code is
// rebuilt. The displacement is computed relative to the address of the
// instruction immediately following the jump, matching the convention
// used when the CPU executes a taken jump.
func resolveLabels(statements []*Statement, labels map[string]int) error {
	for _, stmt := range statements {
		changed := false
		for i := range stmt.Operands {
			op := &stmt.Operands[i]
			if op.Type != isa.LabelOperand {
				continue
			}

			target, ok := labels[op.Label]
			if !ok {
				return isa.NewAssemblerError(isa.LabelNotExist,
					isa.SourcePos{Offset: op.Token.Position, Length: op.Token.Length},
					"label %q is not defined", op.Label)
			}

			distance := target - (stmt.Address + stmt.Opcode.Length())
			if distance < -128 || distance > 127 {
				return isa.NewAssemblerError(isa.JumpDistance,
					isa.SourcePos{Offset: op.Token.Position, Length: op.Token.Length},
					"jump to %q is %d bytes away, outside [-128, 127]", op.Label, distance)
			}

			op.Distance = int8(distance)
			op.Resolved = true
			changed = true
		}
		if changed {
			stmt.encode()
		}
	}
	return nil
}

// buildImage runs the final flattening pass: it copies every statement's
// machine code into the image at its assigned address and records the
// statement map.
func buildImage(statements []*Statement) (*AssembleResult, error) {
	result := &AssembleResult{StatementMap: make(map[int]*Statement)}

	for _, stmt := range statements {
		if stmt.Mnemonic == "ORG" {
			continue
		}
		result.StatementMap[stmt.Address] = stmt
		for i, b := range stmt.MachineCodes {
			addr := stmt.Address + i
			if addr >= isa.ImageSize {
				return nil, isa.NewAssemblerError(isa.AssembleOverflow,
					isa.SourcePos{Offset: stmt.Position, Length: stmt.Length},
					"program exceeds %d-byte image", isa.ImageSize)
			}
			result.Image[addr] = b
		}
	}

	return result, nil
}
