// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements the single-pass assembler for the machine's
// CISC-style dialect: a tokenizer, a parser that builds statements from
// the token stream, and a driver that assigns addresses, resolves
// labels, and flattens the result into a 256-byte image.
package asm

import (
	"strings"

	"github.com/dextercai/mc8/isa"
)

// TokenType classifies a lexical token.
type TokenType int

// Token types, in tokenizer pattern priority order.
const (
	Whitespace TokenType = iota
	Comma
	Digits
	RegisterTok
	AddressTok
	StringTok
	Unknown
)

func (t TokenType) String() string {
	switch t {
	case Whitespace:
		return "whitespace"
	case Comma:
		return "comma"
	case Digits:
		return "digits"
	case RegisterTok:
		return "register"
	case AddressTok:
		return "address"
	case StringTok:
		return "string"
	case Unknown:
		return "unknown"
	default:
		return "?"
	}
}

// Token is a single lexical unit with its absolute position in source.
type Token struct {
	Type     TokenType
	Value    string // original source substring (uppercased where case-insensitive)
	Position int    // absolute byte offset in the source
	Length   int    // length of Value in bytes, as originally written
}

// Tokenize lexes source into a stream of non-whitespace tokens, each
// carrying its absolute source position.
func Tokenize(source string) ([]Token, error) {
	var tokens []Token
	pos := 0
	n := len(source)

	for pos < n {
		c := source[pos]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			start := pos
			for pos < n && isSpace(source[pos]) {
				pos++
			}
			_ = start // whitespace tokens are never emitted

		case c == ';':
			for pos < n && source[pos] != '\n' {
				pos++
			}

		case c == ',':
			tokens = append(tokens, Token{Type: Comma, Value: ",", Position: pos, Length: 1})
			pos++

		case c == '"':
			start := pos
			pos++
			for pos < n && source[pos] != '"' {
				if source[pos] == '\n' {
					return nil, isa.NewAssemblerError(isa.UnterminatedString,
						isa.SourcePos{Offset: start, Length: pos - start},
						"unterminated string literal")
				}
				pos++
			}
			if pos >= n {
				return nil, isa.NewAssemblerError(isa.UnterminatedString,
					isa.SourcePos{Offset: start, Length: pos - start},
					"unterminated string literal")
			}
			pos++ // consume closing quote
			tokens = append(tokens, Token{
				Type:     StringTok,
				Value:    source[start:pos],
				Position: start,
				Length:   pos - start,
			})

		case c == '[':
			start := pos
			pos++
			for pos < n && source[pos] != ']' && source[pos] != '\n' {
				pos++
			}
			if pos >= n || source[pos] != ']' {
				return nil, isa.NewAssemblerError(isa.UnterminatedAddress,
					isa.SourcePos{Offset: start, Length: pos - start},
					"unterminated address bracket")
			}
			pos++ // consume closing bracket
			tokens = append(tokens, Token{
				Type:     AddressTok,
				Value:    strings.ToUpper(source[start:pos]),
				Position: start,
				Length:   pos - start,
			})

		default:
			start := pos
			for pos < n && !isDelimiter(source[pos]) {
				pos++
			}
			value := strings.ToUpper(source[start:pos])
			tokens = append(tokens, Token{
				Type:     classifyWord(value),
				Value:    value,
				Position: start,
				Length:   pos - start,
			})
		}
	}

	return tokens, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == ',' || c == ';' || c == '[' || c == ']' || c == '"'
}

func classifyWord(value string) TokenType {
	if _, ok := isa.LookupRegister(value); ok {
		return RegisterTok
	}
	if isHexDigits(value) {
		return Digits
	}
	return Unknown
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
