package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedChar   Code = 1003
	LexBadNumber          Code = 1004

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSeparator  Code = 2002
	SynExpectRParen     Code = 2003
	SynExpectLBrace     Code = 2004
	SynExpectRBrace     Code = 2005
	SynExpectRBracket   Code = 2006
	SynExpectIdentifier Code = 2007
	SynExpectType       Code = 2008
	SynExpectExpression Code = 2009
	SynExpectComma      Code = 2010
	SynArrayNeedsLength Code = 2011
	SynNotCallable      Code = 2012

	// Семантика: имена, типы, ограничения бэкендов
	SemaInfo               Code = 3000
	SemaUndefinedIdent     Code = 3001
	SemaUndefinedMember    Code = 3002
	SemaNotAModule         Code = 3003
	SemaUnknownType        Code = 3004
	SemaInvalidPtrArith    Code = 3005
	SemaDerefNonPointer    Code = 3006
	SemaUnknownOperandType Code = 3007
	SemaTypeUnknown        Code = 3008
	SemaTooManyArgs        Code = 3009
	SemaIndexNonArray      Code = 3010
	SemaUnsupported        Code = 3011
	SemaNotAddressable     Code = 3012
	SemaImportCycle        Code = 3013
	SemaArgCountMismatch   Code = 3014

	IOLoadFileError Code = 4001

	ProjManifestInvalid Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexInfo:                "Lexical information",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string literal",
	LexUnterminatedChar:    "Unterminated character literal",
	LexBadNumber:           "Integer literal out of range",
	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynExpectSeparator:     "Expected ';', newline or end of input",
	SynExpectRParen:        "Expected ')'",
	SynExpectLBrace:        "Expected '{'",
	SynExpectRBrace:        "Expected '}'",
	SynExpectRBracket:      "Expected ']'",
	SynExpectIdentifier:    "Expected identifier",
	SynExpectType:          "Expected a type",
	SynExpectExpression:    "Expected an expression",
	SynExpectComma:         "Expected ','",
	SynArrayNeedsLength:    "Static array type needs a literal length",
	SynNotCallable:         "Expression is not callable",
	SemaInfo:               "Semantic information",
	SemaUndefinedIdent:     "Undefined identifier",
	SemaUndefinedMember:    "Undefined module member",
	SemaNotAModule:         "Member access on a non-module value",
	SemaUnknownType:        "Unknown type name",
	SemaInvalidPtrArith:    "Invalid pointer arithmetic",
	SemaDerefNonPointer:    "Dereference of a non-pointer",
	SemaUnknownOperandType: "Operand type could not be determined",
	SemaTypeUnknown:        "Type of expression is unknown",
	SemaTooManyArgs:        "Too many arguments",
	SemaIndexNonArray:      "Indexing a value that is neither array nor pointer",
	SemaUnsupported:        "Construct is not supported by this backend",
	SemaNotAddressable:     "Expression is not addressable",
	SemaImportCycle:        "Import cycle detected",
	SemaArgCountMismatch:   "Argument count does not match parameters",
	IOLoadFileError:        "I/O load file error",
	ProjManifestInvalid:    "Invalid project manifest",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
