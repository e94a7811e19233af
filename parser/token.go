package parser

// Kind enumerates lexical categories recognised by the lexer.
type Kind int

const (
	EOF Kind = iota
	Invalid
	UnexpectedEOF

	Name
	Number
	Text

	// Keywords
	Const
	Let
	Debug
	If
	Else
	While
	For
	In
	Function
	Return
	Undefined
	True
	False

	// Operators and punctuation
	Assign       // =
	Equal        // ==
	NotEqual     // !=
	Less         // <
	Greater      // >
	LessEqual    // <=
	GreaterEqual // >=
	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	Bang         // !
	PlusPlus     // ++
	MinusMinus   // --
	AndAnd       // &&
	OrOr         // ||
	Question     // ?
	Colon        // :
	Dot          // .
	Comma        // ,
	Semicolon    // ;
	LParen       // (
	RParen       // )
	LBracket     // [
	RBracket     // ]
	LBrace       // {
	RBrace       // }
)

var kindNames = [...]string{
	EOF:           "EOF",
	Invalid:       "invalid",
	UnexpectedEOF: "unexpected EOF",
	Name:          "name",
	Number:        "number",
	Text:          "text",
	Const:         "const",
	Let:           "let",
	Debug:         "debug",
	If:            "if",
	Else:          "else",
	While:         "while",
	For:           "for",
	In:            "in",
	Function:      "function",
	Return:        "return",
	Undefined:     "undefined",
	True:          "true",
	False:         "false",
	Assign:        "=",
	Equal:         "==",
	NotEqual:      "!=",
	Less:          "<",
	Greater:       ">",
	LessEqual:     "<=",
	GreaterEqual:  ">=",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Bang:          "!",
	PlusPlus:      "++",
	MinusMinus:    "--",
	AndAnd:        "&&",
	OrOr:          "||",
	Question:      "?",
	Colon:         ":",
	Dot:           ".",
	Comma:         ",",
	Semicolon:     ";",
	LParen:        "(",
	RParen:        ")",
	LBracket:      "[",
	RBracket:      "]",
	LBrace:        "{",
	RBrace:        "}",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var keywords = map[string]Kind{
	"const":     Const,
	"let":       Let,
	"debug":     Debug,
	"if":        If,
	"else":      Else,
	"while":     While,
	"for":       For,
	"in":        In,
	"function":  Function,
	"return":    Return,
	"undefined": Undefined,
	"true":      True,
	"false":     False,
}

// Position tracks a source location.
type Position struct {
	Offset int // zero-based byte offset
	Line   int // one-based line number
	Column int // one-based column number (rune count)
}

// Token is a single lexical unit produced by a TokenSource.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal interface{} // float64 for numbers, string for text
	Pos     Position
}

// Line returns the one-based source line of the token.
func (t Token) Line() int { return t.Pos.Line }

// TokenSource yields tokens on demand. After the end of input it keeps
// returning EOF.
type TokenSource interface {
	NextToken() Token
}
