package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates a byte the lexer does not recognise.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// NewLine is a significant line break.
	NewLine
	// Semicolon is ';'.
	Semicolon

	// Ident represents an identifier token.
	Ident
	// IntLit is a run of decimal digits.
	IntLit
	// CharLit is a '...' literal.
	CharLit
	// StringLit is a "..." literal.
	StringLit

	KwIf   // if
	KwElse // else
	KwFor  // for
	KwLet  // let
	KwFn   // fn
	KwUse  // use
	KwType // type

	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Assign   // =
	EqEq     // ==
	Bang     // !
	BangEq   // !=
	Lt       // <
	LtEq     // <=
	Gt       // >
	GtEq     // >=
	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Pipe     // |
	Amp      // &
	Hash     // #
	Dot      // .
	Comma    // ,
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	NewLine:   "NewLine",
	Semicolon: "Semicolon",
	Ident:     "Ident",
	IntLit:    "IntLit",
	CharLit:   "CharLit",
	StringLit: "StringLit",
	KwIf:      "KwIf",
	KwElse:    "KwElse",
	KwFor:     "KwFor",
	KwLet:     "KwLet",
	KwFn:      "KwFn",
	KwUse:     "KwUse",
	KwType:    "KwType",
	Plus:      "Plus",
	Minus:     "Minus",
	Star:      "Star",
	Slash:     "Slash",
	Assign:    "Assign",
	EqEq:      "EqEq",
	Bang:      "Bang",
	BangEq:    "BangEq",
	Lt:        "Lt",
	LtEq:      "LtEq",
	Gt:        "Gt",
	GtEq:      "GtEq",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	Pipe:      "Pipe",
	Amp:       "Amp",
	Hash:      "Hash",
	Dot:       "Dot",
	Comma:     "Comma",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
