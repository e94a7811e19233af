package parser

import (
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer turns source text into tokens. It never fails: malformed input is
// reported as an Invalid or UnexpectedEOF token.
type Lexer struct {
	src    string
	pos    int
	line   int
	column int
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:    src,
		line:   1,
		column: 1,
	}
}

type runeState struct {
	pos    int
	line   int
	column int
}

func (lx *Lexer) mark() runeState {
	return runeState{
		pos:    lx.pos,
		line:   lx.line,
		column: lx.column,
	}
}

func (lx *Lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
	lx.column = state.column
}

func (lx *Lexer) readRune() (rune, error) {
	if lx.pos >= len(lx.src) {
		return 0, io.EOF
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r, nil
}

func (lx *Lexer) match(expected rune) bool {
	state := lx.mark()
	r, err := lx.readRune()
	if err != nil {
		return false
	}
	if r != expected {
		lx.restore(state)
		return false
	}
	return true
}

// skipWhitespace consumes blanks and comments. It reports false when a block
// comment runs off the end of the input.
func (lx *Lexer) skipWhitespace() bool {
	for {
		state := lx.mark()
		r, err := lx.readRune()
		if err != nil {
			return true
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '/':
			if lx.match('/') {
				lx.skipLine()
				continue
			}
			if lx.match('*') {
				if !lx.skipBlockComment() {
					return false
				}
				continue
			}
			lx.restore(state)
			return true
		default:
			lx.restore(state)
			return true
		}
	}
}

func (lx *Lexer) skipLine() {
	for {
		r, err := lx.readRune()
		if err != nil || r == '\n' {
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() bool {
	for {
		r, err := lx.readRune()
		if err != nil {
			return false
		}
		if r == '*' && lx.match('/') {
			return true
		}
	}
}

// NextToken implements TokenSource.
func (lx *Lexer) NextToken() Token {
	if !lx.skipWhitespace() {
		return Token{Kind: UnexpectedEOF, Pos: lx.position(lx.mark())}
	}

	start := lx.mark()
	r, err := lx.readRune()
	if err != nil {
		return Token{Kind: EOF, Pos: lx.position(start)}
	}

	switch {
	case isNameStart(r):
		lexeme := lx.scanName(r)
		kind, ok := keywords[lexeme]
		if !ok {
			kind = Name
		}
		return lx.token(kind, start)
	case isDigit(r):
		return lx.scanNumber(start)
	case r == '"' || r == '\'':
		return lx.scanText(r, start)
	}

	var kind Kind
	switch r {
	case '+':
		kind = Plus
		if lx.match('+') {
			kind = PlusPlus
		}
	case '-':
		kind = Minus
		if lx.match('-') {
			kind = MinusMinus
		}
	case '*':
		kind = Star
	case '/':
		kind = Slash
	case '=':
		kind = Assign
		if lx.match('=') {
			kind = Equal
		}
	case '!':
		kind = Bang
		if lx.match('=') {
			kind = NotEqual
		}
	case '<':
		kind = Less
		if lx.match('=') {
			kind = LessEqual
		}
	case '>':
		kind = Greater
		if lx.match('=') {
			kind = GreaterEqual
		}
	case '&':
		if !lx.match('&') {
			return lx.token(Invalid, start)
		}
		kind = AndAnd
	case '|':
		if !lx.match('|') {
			return lx.token(Invalid, start)
		}
		kind = OrOr
	case '?':
		kind = Question
	case ':':
		kind = Colon
	case '.':
		kind = Dot
	case ',':
		kind = Comma
	case ';':
		kind = Semicolon
	case '(':
		kind = LParen
	case ')':
		kind = RParen
	case '[':
		kind = LBracket
	case ']':
		kind = RBracket
	case '{':
		kind = LBrace
	case '}':
		kind = RBrace
	default:
		kind = Invalid
	}
	return lx.token(kind, start)
}

func (lx *Lexer) token(kind Kind, start runeState) Token {
	return Token{
		Kind:   kind,
		Lexeme: lx.src[start.pos:lx.pos],
		Pos:    lx.position(start),
	}
}

func (lx *Lexer) position(state runeState) Position {
	return Position{
		Offset: state.pos,
		Line:   state.line,
		Column: state.column,
	}
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lx *Lexer) scanName(initial rune) string {
	var builder strings.Builder
	builder.WriteRune(initial)
	for {
		state := lx.mark()
		r, err := lx.readRune()
		if err != nil {
			break
		}
		if !isNamePart(r) {
			lx.restore(state)
			break
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func (lx *Lexer) scanNumber(start runeState) Token {
	lx.scanDigits()
	state := lx.mark()
	if lx.match('.') && lx.scanDigits() == 0 {
		// a dot without digits is not part of the number
		lx.restore(state)
	}
	state = lx.mark()
	if lx.match('e') || lx.match('E') {
		if !lx.match('+') {
			lx.match('-')
		}
		if lx.scanDigits() == 0 {
			lx.restore(state)
		}
	}
	tok := lx.token(Number, start)
	value, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		tok.Kind = Invalid
		return tok
	}
	tok.Literal = value
	return tok
}

func (lx *Lexer) scanDigits() int {
	n := 0
	for {
		state := lx.mark()
		r, err := lx.readRune()
		if err != nil {
			return n
		}
		if !isDigit(r) {
			lx.restore(state)
			return n
		}
		n++
	}
}

func (lx *Lexer) scanText(quote rune, start runeState) Token {
	var builder strings.Builder
	for {
		r, err := lx.readRune()
		if err != nil {
			return lx.token(UnexpectedEOF, start)
		}
		if r == quote {
			break
		}
		if r == '\n' {
			return lx.token(Invalid, start)
		}
		if r == '\\' {
			esc, err := lx.readRune()
			if err != nil {
				return lx.token(UnexpectedEOF, start)
			}
			switch esc {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			case 'r':
				builder.WriteRune('\r')
			default:
				builder.WriteRune(esc)
			}
			continue
		}
		builder.WriteRune(r)
	}
	tok := lx.token(Text, start)
	tok.Literal = builder.String()
	return tok
}
