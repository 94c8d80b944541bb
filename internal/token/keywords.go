package token

var keywords = map[string]Kind{
	"if":   KwIf,
	"else": KwElse,
	"for":  KwFor,
	"let":  KwLet,
	"fn":   KwFn,
	"use":  KwUse,
	"type": KwType,
}

// LookupKeyword reports whether ident is a reserved word.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
