package parser

// Node represents any AST node with a source line.
type Node interface {
	Line() int
}

// Expr is an expression node. The set of implementations is closed.
type Expr interface {
	Node
	exprNode()
}

// Assignable is an expression that may appear on the left of '=' or as an
// operand of '++'/'--'.
type Assignable interface {
	Expr
	assignable()
}

// Cmd is a command node executed for its side effect.
type Cmd interface {
	Node
	cmdNode()
}

type line int

func (l line) Line() int { return int(l) }

// ConstExpr yields a literal: nil (undefined), bool, float64 or string.
type ConstExpr struct {
	line
	Value interface{}
}

// VarExpr reads a resolved binding Hops scopes above the use site.
type VarExpr struct {
	line
	Var  *Variable
	Hops int
}

// UnaryOp enumerates prefix and postfix operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpPos
	OpNeg
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec
)

var unaryOpNames = [...]string{
	OpNot:     "!",
	OpPos:     "+",
	OpNeg:     "-",
	OpPreInc:  "++",
	OpPreDec:  "--",
	OpPostInc: "++",
	OpPostDec: "--",
}

func (op UnaryOp) String() string { return unaryOpNames[op] }

// UnaryExpr applies a prefix or postfix operator.
type UnaryExpr struct {
	line
	Op      UnaryOp
	Operand Expr
}

// BinaryOp enumerates infix operators.
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var binaryOpNames = [...]string{
	OpAnd:          "&&",
	OpOr:           "||",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// BinaryExpr applies an infix operator after evaluating both operands.
type BinaryExpr struct {
	line
	Op          BinaryOp
	Left, Right Expr
}

// CondExpr is the ternary operator.
type CondExpr struct {
	line
	Cond, Then, Else Expr
}

// ListExpr builds a fresh list.
type ListExpr struct {
	line
	Items []Expr
}

// ObjectItem is one key/value pair of an object literal.
type ObjectItem struct {
	Key   string
	Value Expr
}

// ObjectExpr builds a fresh object.
type ObjectExpr struct {
	line
	Items []ObjectItem
}

// AccessExpr reads or writes base.key or base[index].
type AccessExpr struct {
	line
	Base  Expr
	Index Expr
}

// CallExpr invokes a function value.
type CallExpr struct {
	line
	Callee Expr
	Args   []Expr
}

// FuncExpr is a function literal. Scope is the body scope; its slot 0 is
// the params binding.
type FuncExpr struct {
	line
	Scope  *Scope
	Params *Variable
	Body   *BlockCmd
	Return Expr // may be nil
}

// BlockCmd runs commands in order. When Scope is non-nil a fresh frame is
// created for it on every execution.
type BlockCmd struct {
	line
	Scope *Scope
	Cmds  []Cmd
}

// InitCmd initialises a freshly declared binding.
type InitCmd struct {
	line
	Var  *Variable
	Expr Expr
}

// AssignCmd evaluates Expr and stores it into Target. A nil Target makes
// this an expression statement.
type AssignCmd struct {
	line
	Target Assignable
	Expr   Expr
}

// IfCmd executes Then or Else depending on the truthiness of Cond.
type IfCmd struct {
	line
	Cond Expr
	Then Cmd
	Else Cmd // may be nil
}

// WhileCmd repeats Body while Cond is truthy.
type WhileCmd struct {
	line
	Cond Expr
	Body *BlockCmd
}

// ForCmd binds Target to every list element or object value in turn.
// Scope is non-nil when the loop declares its own variable.
type ForCmd struct {
	line
	Scope  *Scope
	Target *VarExpr
	Expr   Expr
	Body   *BlockCmd
}

// DebugCmd prints the rendering of Expr.
type DebugCmd struct {
	line
	Expr Expr
}

func (*ConstExpr) exprNode()  {}
func (*VarExpr) exprNode()    {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CondExpr) exprNode()   {}
func (*ListExpr) exprNode()   {}
func (*ObjectExpr) exprNode() {}
func (*AccessExpr) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*FuncExpr) exprNode()   {}

func (*VarExpr) assignable()    {}
func (*AccessExpr) assignable() {}

func (*BlockCmd) cmdNode()  {}
func (*InitCmd) cmdNode()   {}
func (*AssignCmd) cmdNode() {}
func (*IfCmd) cmdNode()     {}
func (*WhileCmd) cmdNode()  {}
func (*ForCmd) cmdNode()    {}
func (*DebugCmd) cmdNode()  {}
