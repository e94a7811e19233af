package parser

// Parser is a recursive-descent parser that resolves every name against the
// scope chain while it builds the tree.
type Parser struct {
	src      TokenSource
	curr     Token
	prev     Token
	resolver *Resolver
}

// New returns a parser reading tokens from src and declaring top-level names
// into global.
func New(src TokenSource, global *Scope) *Parser {
	p := &Parser{
		src:      src,
		resolver: NewResolver(global),
	}
	p.curr = src.NextToken()
	return p
}

// Process parses a complete program. The token stream must be exhausted
// after the last command.
func (p *Parser) Process() (*BlockCmd, error) {
	cmd, err := p.code()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EOF); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (p *Parser) advance() {
	p.prev = p.curr
	p.curr = p.src.NextToken()
}

func (p *Parser) expect(kind Kind) (Token, error) {
	if p.curr.Kind != kind {
		return Token{}, unexpected(p.curr)
	}
	p.advance()
	return p.prev, nil
}

func (p *Parser) check(kinds ...Kind) bool {
	for _, k := range kinds {
		if p.curr.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) match(kinds ...Kind) bool {
	if p.check(kinds...) {
		p.advance()
		return true
	}
	return false
}

var exprStart = []Kind{
	Bang, Plus, Minus, PlusPlus, MinusMinus, LParen,
	Undefined, False, True, Number, Text,
	LBracket, LBrace, Function, Name,
}

var cmdStart = append([]Kind{Const, Let, Debug, If, While, For}, exprStart...)

// code ::= { cmd }
func (p *Parser) code() (*BlockCmd, error) {
	block := &BlockCmd{line: line(p.curr.Line())}
	for p.check(cmdStart...) {
		cmd, err := p.cmd()
		if err != nil {
			return nil, err
		}
		block.Cmds = append(block.Cmds, cmd)
	}
	return block, nil
}

// cmd ::= block | decl | debug | if | while | for | assign
func (p *Parser) cmd() (Cmd, error) {
	switch p.curr.Kind {
	case LBrace:
		return p.block()
	case Const, Let:
		return p.decl()
	case Debug:
		return p.debug()
	case If:
		return p.ifCmd()
	case While:
		return p.whileCmd()
	case For:
		return p.forCmd()
	default:
		return p.assign()
	}
}

// block ::= '{' code '}'
func (p *Parser) block() (*BlockCmd, error) {
	var block *BlockCmd
	err := p.resolver.Within(func(s *Scope) error {
		if _, err := p.expect(LBrace); err != nil {
			return err
		}
		var err error
		if block, err = p.code(); err != nil {
			return err
		}
		block.Scope = s
		_, err = p.expect(RBrace)
		return err
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// body parses a loop body as a block with its own scope.
func (p *Parser) body() (*BlockCmd, error) {
	block := &BlockCmd{line: line(p.curr.Line())}
	err := p.resolver.Within(func(s *Scope) error {
		cmd, err := p.cmd()
		if err != nil {
			return err
		}
		block.Scope = s
		block.Cmds = []Cmd{cmd}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// decl ::= ( const | let ) name [ '=' expr ] { ',' name [ '=' expr ] } ';'
func (p *Parser) decl() (*BlockCmd, error) {
	p.advance()
	constant := p.prev.Kind == Const
	block := &BlockCmd{line: line(p.prev.Line())}
	for {
		name, err := p.expect(Name)
		if err != nil {
			return nil, err
		}
		v := p.resolver.Declare(name.Lexeme, constant)
		var init Expr = &ConstExpr{line: line(name.Line())}
		if p.match(Assign) {
			if init, err = p.expr(); err != nil {
				return nil, err
			}
		}
		block.Cmds = append(block.Cmds, &InitCmd{line: line(name.Line()), Var: v, Expr: init})
		if !p.match(Comma) {
			break
		}
	}
	if _, err := p.expect(Semicolon); err != nil {
		return nil, err
	}
	return block, nil
}

// debug ::= debug expr ';'
func (p *Parser) debug() (*DebugCmd, error) {
	tok, err := p.expect(Debug)
	if err != nil {
		return nil, err
	}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Semicolon); err != nil {
		return nil, err
	}
	return &DebugCmd{line: line(tok.Line()), Expr: expr}, nil
}

// parenExpr ::= '(' expr ')'
func (p *Parser) parenExpr() (Expr, error) {
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// if ::= if '(' expr ')' cmd [ else cmd ]
func (p *Parser) ifCmd() (*IfCmd, error) {
	tok, err := p.expect(If)
	if err != nil {
		return nil, err
	}
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.cmd()
	if err != nil {
		return nil, err
	}
	cmd := &IfCmd{line: line(tok.Line()), Cond: cond, Then: then}
	if p.match(Else) {
		if cmd.Else, err = p.cmd(); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}

// while ::= while '(' expr ')' cmd
func (p *Parser) whileCmd() (*WhileCmd, error) {
	tok, err := p.expect(While)
	if err != nil {
		return nil, err
	}
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.body()
	if err != nil {
		return nil, err
	}
	return &WhileCmd{line: line(tok.Line()), Cond: cond, Body: body}, nil
}

// for ::= for '(' [ let ] name in expr ')' cmd
func (p *Parser) forCmd() (*ForCmd, error) {
	tok, err := p.expect(For)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	cmd := &ForCmd{line: line(tok.Line())}
	if !p.match(Let) {
		name, err := p.expect(Name)
		if err != nil {
			return nil, err
		}
		if cmd.Target, err = p.reference(name); err != nil {
			return nil, err
		}
		if err := p.forRest(cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	}
	err = p.resolver.Within(func(s *Scope) error {
		name, err := p.expect(Name)
		if err != nil {
			return err
		}
		v := p.resolver.Declare(name.Lexeme, false)
		cmd.Scope = s
		cmd.Target = &VarExpr{line: line(name.Line()), Var: v}
		return p.forRest(cmd)
	})
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

func (p *Parser) forRest(cmd *ForCmd) error {
	if _, err := p.expect(In); err != nil {
		return err
	}
	expr, err := p.expr()
	if err != nil {
		return err
	}
	cmd.Expr = expr
	if _, err := p.expect(RParen); err != nil {
		return err
	}
	cmd.Body, err = p.body()
	return err
}

// assign ::= [ expr '=' ] expr ';'
func (p *Parser) assign() (*AssignCmd, error) {
	ln := p.curr.Line()
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	cmd := &AssignCmd{line: line(ln), Expr: rhs}
	if p.check(Assign) {
		target, ok := rhs.(Assignable)
		if !ok {
			return nil, notAssignable(p.curr)
		}
		p.advance()
		cmd.Target = target
		if cmd.Expr, err = p.expr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Semicolon); err != nil {
		return nil, err
	}
	return cmd, nil
}

// expr ::= cond [ '?' expr ':' expr ]
func (p *Parser) expr() (Expr, error) {
	expr, err := p.cond()
	if err != nil {
		return nil, err
	}
	if !p.match(Question) {
		return expr, nil
	}
	cond := &CondExpr{line: line(p.prev.Line()), Cond: expr}
	if cond.Then, err = p.expr(); err != nil {
		return nil, err
	}
	if _, err := p.expect(Colon); err != nil {
		return nil, err
	}
	if cond.Else, err = p.expr(); err != nil {
		return nil, err
	}
	return cond, nil
}

// binary parses one left-associative precedence level.
func (p *Parser) binary(ops map[Kind]BinaryOp, next func() (Expr, error)) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.curr.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		bin := &BinaryExpr{line: line(p.prev.Line()), Op: op, Left: left}
		if bin.Right, err = next(); err != nil {
			return nil, err
		}
		left = bin
	}
}

var (
	condOps = map[Kind]BinaryOp{
		AndAnd: OpAnd,
		OrOr:   OpOr,
	}
	relOps = map[Kind]BinaryOp{
		Less:         OpLess,
		Greater:      OpGreater,
		LessEqual:    OpLessEqual,
		GreaterEqual: OpGreaterEqual,
		Equal:        OpEqual,
		NotEqual:     OpNotEqual,
	}
	arithOps = map[Kind]BinaryOp{
		Plus:  OpAdd,
		Minus: OpSub,
	}
	termOps = map[Kind]BinaryOp{
		Star:  OpMul,
		Slash: OpDiv,
	}
)

// cond ::= rel { ( '&&' | '||' ) rel }
func (p *Parser) cond() (Expr, error) { return p.binary(condOps, p.rel) }

// rel ::= arith { ( '<' | '>' | '<=' | '>=' | '==' | '!=' ) arith }
func (p *Parser) rel() (Expr, error) { return p.binary(relOps, p.arith) }

// arith ::= term { ( '+' | '-' ) term }
func (p *Parser) arith() (Expr, error) { return p.binary(arithOps, p.term) }

// term ::= prefix { ( '*' | '/' ) prefix }
func (p *Parser) term() (Expr, error) { return p.binary(termOps, p.prefix) }

var prefixOps = map[Kind]UnaryOp{
	Bang:       OpNot,
	Plus:       OpPos,
	Minus:      OpNeg,
	PlusPlus:   OpPreInc,
	MinusMinus: OpPreDec,
}

// prefix ::= [ '!' | '+' | '-' | '++' | '--' ] factor
func (p *Parser) prefix() (Expr, error) {
	op, ok := prefixOps[p.curr.Kind]
	if !ok {
		return p.factor()
	}
	tok := p.curr
	p.advance()
	operand, err := p.factor()
	if err != nil {
		return nil, err
	}
	if op == OpPreInc || op == OpPreDec {
		if _, ok := operand.(Assignable); !ok {
			return nil, notAssignable(tok)
		}
	}
	return &UnaryExpr{line: line(tok.Line()), Op: op, Operand: operand}, nil
}

// factor ::= ( '(' expr ')' | rvalue ) calls [ '++' | '--' ]
func (p *Parser) factor() (Expr, error) {
	var expr Expr
	var err error
	if p.check(LParen) {
		expr, err = p.parenExpr()
	} else {
		expr, err = p.rvalue()
	}
	if err != nil {
		return nil, err
	}
	if expr, err = p.calls(expr); err != nil {
		return nil, err
	}
	if !p.match(PlusPlus, MinusMinus) {
		return expr, nil
	}
	if _, ok := expr.(Assignable); !ok {
		return nil, notAssignable(p.prev)
	}
	op := OpPostInc
	if p.prev.Kind == MinusMinus {
		op = OpPostDec
	}
	return &UnaryExpr{line: line(p.prev.Line()), Op: op, Operand: expr}, nil
}

// rvalue ::= const | list | object | function | lvalue
func (p *Parser) rvalue() (Expr, error) {
	switch p.curr.Kind {
	case Undefined, False, True, Number, Text:
		return p.constant(), nil
	case LBracket:
		return p.list()
	case LBrace:
		return p.object()
	case Function:
		return p.function()
	default:
		return p.lvalue()
	}
}

// const ::= undefined | false | true | number | text
func (p *Parser) constant() Expr {
	tok := p.curr
	p.advance()
	expr := &ConstExpr{line: line(tok.Line())}
	switch tok.Kind {
	case False:
		expr.Value = false
	case True:
		expr.Value = true
	case Number, Text:
		expr.Value = tok.Literal
	}
	return expr
}

// exprList ::= [ expr { ',' expr } ] closed by the end token.
func (p *Parser) exprList(end Kind) ([]Expr, error) {
	var items []Expr
	if p.check(exprStart...) {
		for {
			item, err := p.expr()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if !p.match(Comma) {
				break
			}
		}
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return items, nil
}

// list ::= '[' [ expr { ',' expr } ] ']'
func (p *Parser) list() (Expr, error) {
	tok, err := p.expect(LBracket)
	if err != nil {
		return nil, err
	}
	items, err := p.exprList(RBracket)
	if err != nil {
		return nil, err
	}
	return &ListExpr{line: line(tok.Line()), Items: items}, nil
}

// object ::= '{' [ name ':' expr { ',' name ':' expr } ] '}'
func (p *Parser) object() (Expr, error) {
	tok, err := p.expect(LBrace)
	if err != nil {
		return nil, err
	}
	expr := &ObjectExpr{line: line(tok.Line())}
	for p.check(Name) {
		key := p.curr
		p.advance()
		if _, err := p.expect(Colon); err != nil {
			return nil, err
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		expr.Items = append(expr.Items, ObjectItem{Key: key.Lexeme, Value: value})
		if !p.match(Comma) {
			break
		}
		if !p.check(Name) {
			return nil, unexpected(p.curr)
		}
	}
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}
	return expr, nil
}

// function ::= function '(' ')' '{' code [ return expr ';' ] '}'
func (p *Parser) function() (Expr, error) {
	tok, err := p.expect(Function)
	if err != nil {
		return nil, err
	}
	for _, k := range []Kind{LParen, RParen, LBrace} {
		if _, err := p.expect(k); err != nil {
			return nil, err
		}
	}
	fn := &FuncExpr{line: line(tok.Line())}
	err = p.resolver.Within(func(s *Scope) error {
		fn.Scope = s
		fn.Params = p.resolver.Declare(ParamsName, false)
		var err error
		if fn.Body, err = p.code(); err != nil {
			return err
		}
		if !p.match(Return) {
			return nil
		}
		if fn.Return, err = p.expr(); err != nil {
			return err
		}
		_, err = p.expect(Semicolon)
		return err
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}
	return fn, nil
}

// lvalue ::= name { '.' name | '[' expr ']' }
func (p *Parser) lvalue() (Expr, error) {
	name, err := p.expect(Name)
	if err != nil {
		return nil, err
	}
	ref, err := p.reference(name)
	if err != nil {
		return nil, err
	}
	return p.accesses(ref)
}

func (p *Parser) accesses(expr Expr) (Expr, error) {
	for {
		switch {
		case p.match(Dot):
			ln := p.prev.Line()
			key, err := p.expect(Name)
			if err != nil {
				return nil, err
			}
			index := &ConstExpr{line: line(key.Line()), Value: key.Lexeme}
			expr = &AccessExpr{line: line(ln), Base: expr, Index: index}
		case p.match(LBracket):
			ln := p.prev.Line()
			index, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBracket); err != nil {
				return nil, err
			}
			expr = &AccessExpr{line: line(ln), Base: expr, Index: index}
		default:
			return expr, nil
		}
	}
}

// calls ::= { '(' [ expr { ',' expr } ] ')' }, each call optionally followed
// by member accesses.
func (p *Parser) calls(expr Expr) (Expr, error) {
	for p.match(LParen) {
		call := &CallExpr{line: line(p.prev.Line()), Callee: expr}
		args, err := p.exprList(RParen)
		if err != nil {
			return nil, err
		}
		call.Args = args
		if expr, err = p.accesses(call); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) reference(name Token) (*VarExpr, error) {
	v, hops, ok := p.resolver.Resolve(name.Lexeme)
	if !ok {
		return nil, undeclared(name)
	}
	return &VarExpr{line: line(name.Line()), Var: v, Hops: hops}, nil
}
