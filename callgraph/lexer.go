package callgraph

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// BodyLexer tokenizes raw function body text. The builder only needs
// identifiers, punctuation and keyword occurrences, so the rules stay
// deliberately coarse; anything the front end's real parser would reject
// still tokenizes here.
var BodyLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "BlockComment", Pattern: `/\*[\s\S]*?\*/`, Action: nil},
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},

		// String literals (never identifier candidates)
		{Name: "String", Pattern: `"[^"\n]*"|'[^'\n]*'`, Action: nil},

		// Keywords and Identifiers (order matters)
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`, Action: nil},

		// Integer literals
		{Name: "Integer", Pattern: `0x[0-9a-fA-F]+|[0-9]+`, Action: nil},

		// Operators
		{Name: "Operator", Pattern: `(\|\||&&|==|!=|<=|>=|\+=|-=|\*=|/=|%=|=>|->|[-+*/%&|^~<>=!?])`, Action: nil},

		// Punctuation
		{Name: "Punctuation", Pattern: `[{}[\]#:,;()\.]`, Action: nil},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})

// bodyToken is one scanned token with its resolved rule name.
type bodyToken struct {
	kind  string
	value string
}

// scanBody runs the lexer over a body and returns the token stream with
// comments, strings and whitespace dropped. Lexing never fails on the
// heuristic rules above; on an unexpected symbol the remainder of the body
// is skipped rather than aborting the analysis.
func scanBody(body string) []bodyToken {
	lex, err := BodyLexer.LexString("", body)
	if err != nil {
		return nil
	}

	symbols := make(map[lexer.TokenType]string, len(BodyLexer.Symbols()))
	for name, typ := range BodyLexer.Symbols() {
		symbols[typ] = name
	}

	tokens := make([]bodyToken, 0, 64)
	for {
		tok, err := lex.Next()
		if err != nil {
			break
		}
		if tok.EOF() {
			break
		}
		kind := symbols[tok.Type]
		switch kind {
		case "Whitespace", "Comment", "BlockComment", "String":
			continue
		}
		tokens = append(tokens, bodyToken{kind: kind, value: tok.Value})
	}
	return tokens
}
