package asm

import (
	"strconv"
	"strings"

	"github.com/dextercai/mc8/isa"
)

// Parse turns a token stream into a statement list. The final statement
// must be END, or a MissingEnd error is returned.
func Parse(tokens []Token) ([]*Statement, error) {
	p := &parser{tokens: tokens}
	var statements []*Statement

	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if len(statements) == 0 || statements[len(statements)-1].Mnemonic != "END" {
		pos := len(tokens)
		off := 0
		if pos > 0 {
			off = tokens[pos-1].Position + tokens[pos-1].Length
		}
		return nil, isa.NewAssemblerError(isa.MissingEnd, isa.SourcePos{Offset: off},
			"program must end with END")
	}

	return statements, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) eofPos() isa.SourcePos {
	if len(p.tokens) == 0 {
		return isa.SourcePos{}
	}
	last := p.tokens[len(p.tokens)-1]
	return isa.SourcePos{Offset: last.Position + last.Length}
}

func (p *parser) parseStatement() (*Statement, error) {
	var label *Label

	if strings.HasSuffix(p.peek().Value, ":") && !strings.HasPrefix(p.peek().Value, "[") {
		tok := p.advance()
		l, err := parseLabelToken(tok)
		if err != nil {
			return nil, err
		}
		label = l
	}

	if p.atEnd() {
		return nil, isa.NewAssemblerError(isa.StatementErrorKind, p.eofPos(),
			"expected mnemonic after label")
	}

	mnemonicTok := p.advance()
	mnemonic := mnemonicTok.Value

	switch {
	case isa.IsPseudoOp(mnemonic):
		return p.parsePseudoOp(label, mnemonicTok)
	case isa.IsMnemonic(mnemonic):
		return p.parseInstruction(label, mnemonicTok)
	default:
		return nil, isa.NewAssemblerError(isa.StatementErrorKind,
			isa.SourcePos{Offset: mnemonicTok.Position, Length: mnemonicTok.Length},
			"%q is not a recognised mnemonic", mnemonicTok.Value)
	}
}

func parseLabelToken(tok Token) (*Label, error) {
	name := tok.Value[:len(tok.Value)-1]
	if !isValidLabelName(name) {
		return nil, isa.NewAssemblerError(isa.InvalidLabel,
			isa.SourcePos{Offset: tok.Position, Length: tok.Length},
			"invalid label %q", name)
	}
	return &Label{Identifier: name, Token: tok}, nil
}

func isValidLabelName(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if !((first >= 'A' && first <= 'Z') || first == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

func (p *parser) parsePseudoOp(label *Label, mnemonicTok Token) (*Statement, error) {
	stmt := &Statement{Label: label, Mnemonic: mnemonicTok.Value, Position: mnemonicTok.Position}

	switch mnemonicTok.Value {
	case "ORG":
		op, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if op.Type != isa.Number {
			return nil, isa.NewAssemblerError(isa.OperandTypeErrorKind,
				isa.SourcePos{Offset: op.Token.Position, Length: op.Token.Length},
				"ORG requires a number")
		}
		stmt.Operands = []Operand{op}
		stmt.Length = op.Token.Position + op.Token.Length - stmt.Position

	case "DB":
		for {
			op, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			if op.Type != isa.Number && op.Type != isa.StringOperand {
				return nil, isa.NewAssemblerError(isa.OperandTypeErrorKind,
					isa.SourcePos{Offset: op.Token.Position, Length: op.Token.Length},
					"DB accepts only numbers and strings")
			}
			stmt.Operands = append(stmt.Operands, op)
			stmt.Length = op.Token.Position + op.Token.Length - stmt.Position
			if p.atEnd() || p.peek().Type != Comma {
				break
			}
			p.advance() // comma
		}
	}

	stmt.encode()
	return stmt, nil
}

func (p *parser) parseInstruction(label *Label, mnemonicTok Token) (*Statement, error) {
	count, _ := isa.OperandCount(mnemonicTok.Value)
	stmt := &Statement{Label: label, Mnemonic: mnemonicTok.Value, HasOpcode: true, Position: mnemonicTok.Position}
	stmt.Length = mnemonicTok.Position + mnemonicTok.Length - stmt.Position

	var operands []Operand
	for i := 0; i < count; i++ {
		op, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		operands = append(operands, op)
		stmt.Length = op.Token.Position + op.Token.Length - stmt.Position

		if i < count-1 {
			if p.atEnd() || p.peek().Type != Comma {
				pos := p.eofPos()
				if !p.atEnd() {
					pos = isa.SourcePos{Offset: p.peek().Position, Length: p.peek().Length}
				}
				return nil, isa.NewAssemblerError(isa.MissingComma, pos,
					"expected comma between operands")
			}
			p.advance()
		}
	}

	opTypes := make([]isa.OperandType, len(operands))
	for i, o := range operands {
		opTypes[i] = o.Type
	}

	opcode, ok, expected := isa.Resolve(mnemonicTok.Value, opTypes...)
	if !ok {
		blame := mnemonicTok
		if len(operands) > 0 {
			blame = operands[len(operands)-1].Token
		}
		return nil, &isa.AssemblerError{
			Kind:     isa.OperandTypeErrorKind,
			Message:  "unexpected operand type for " + mnemonicTok.Value,
			Pos:      isa.SourcePos{Offset: blame.Position, Length: blame.Length},
			Expected: expected,
		}
	}

	stmt.Opcode = opcode
	stmt.Operands = operands
	stmt.encode()
	return stmt, nil
}

// parseOperand consumes and classifies the next operand token.
func (p *parser) parseOperand() (Operand, error) {
	if p.atEnd() {
		return Operand{}, isa.NewAssemblerError(isa.StatementErrorKind, p.eofPos(),
			"expected operand")
	}
	tok := p.advance()

	switch tok.Type {
	case Digits:
		n, err := parseHexByte(tok.Value)
		if err != nil {
			return Operand{}, isa.NewAssemblerError(isa.InvalidNumber,
				isa.SourcePos{Offset: tok.Position, Length: tok.Length},
				"invalid number %q", tok.Value)
		}
		return Operand{Type: isa.Number, Token: tok, Number: n}, nil

	case RegisterTok:
		reg, _ := isa.LookupRegister(tok.Value)
		return Operand{Type: isa.RegisterOperand, Token: tok, Register: reg}, nil

	case AddressTok:
		inner := tok.Value[1 : len(tok.Value)-1]
		if reg, ok := isa.LookupRegister(inner); ok {
			return Operand{Type: isa.RegisterAddress, Token: tok, Register: reg}, nil
		}
		if isHexDigits(inner) {
			n, err := parseHexByte(inner)
			if err != nil {
				return Operand{}, isa.NewAssemblerError(isa.AddressErrorKind,
					isa.SourcePos{Offset: tok.Position, Length: tok.Length},
					"invalid address %q", tok.Value)
			}
			return Operand{Type: isa.AddressOperand, Token: tok, Number: n}, nil
		}
		return Operand{}, isa.NewAssemblerError(isa.AddressErrorKind,
			isa.SourcePos{Offset: tok.Position, Length: tok.Length},
			"invalid address %q", tok.Value)

	case StringTok:
		inner := tok.Value[1 : len(tok.Value)-1]
		return Operand{Type: isa.StringOperand, Token: tok, Bytes: []byte(inner)}, nil

	case Unknown:
		if isHexDigits(tok.Value) {
			n, err := parseHexByte(tok.Value)
			if err != nil {
				return Operand{}, isa.NewAssemblerError(isa.InvalidNumber,
					isa.SourcePos{Offset: tok.Position, Length: tok.Length},
					"invalid number %q", tok.Value)
			}
			return Operand{Type: isa.Number, Token: tok, Number: n}, nil
		}
		if isValidLabelName(tok.Value) {
			return Operand{Type: isa.LabelOperand, Token: tok, Label: tok.Value}, nil
		}
		return Operand{}, isa.NewAssemblerError(isa.OperandTypeErrorKind,
			isa.SourcePos{Offset: tok.Position, Length: tok.Length},
			"%q is not a valid operand", tok.Value)

	default:
		return Operand{}, isa.NewAssemblerError(isa.OperandTypeErrorKind,
			isa.SourcePos{Offset: tok.Position, Length: tok.Length},
			"%q is not a valid operand", tok.Value)
	}
}

func parseHexByte(s string) (int, error) {
	n, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, err
	}
	if n > 0xFF || n < 0 {
		return 0, strconv.ErrRange
	}
	return int(n), nil
}
