package parser

import (
	"strconv"
	"strings"
)

// Dump renders a node as an s-expression. Variables print as name/hops, so
// the output shows how every reference was resolved.
func Dump(node Node) string {
	var b strings.Builder
	dumpNode(&b, node)
	return b.String()
}

func dumpNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *ConstExpr:
		switch v := n.Value.(type) {
		case nil:
			b.WriteString("undefined")
		case bool:
			b.WriteString(strconv.FormatBool(v))
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		case string:
			b.WriteString(strconv.Quote(v))
		}
	case *VarExpr:
		b.WriteString(n.Var.Name)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(n.Hops))
	case *UnaryExpr:
		switch n.Op {
		case OpPostInc, OpPostDec:
			dumpList(b, "post"+n.Op.String(), n.Operand)
		default:
			dumpList(b, n.Op.String(), n.Operand)
		}
	case *BinaryExpr:
		dumpList(b, n.Op.String(), n.Left, n.Right)
	case *CondExpr:
		dumpList(b, "?", n.Cond, n.Then, n.Else)
	case *ListExpr:
		dumpList(b, "list", exprNodes(n.Items)...)
	case *ObjectExpr:
		b.WriteString("(object")
		for _, item := range n.Items {
			b.WriteString(" (")
			b.WriteString(item.Key)
			b.WriteByte(' ')
			dumpNode(b, item.Value)
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case *AccessExpr:
		dumpList(b, "at", n.Base, n.Index)
	case *CallExpr:
		dumpList(b, "call", append([]Node{n.Callee}, exprNodes(n.Args)...)...)
	case *FuncExpr:
		b.WriteString("(function ")
		dumpNode(b, n.Body)
		if n.Return != nil {
			b.WriteByte(' ')
			dumpList(b, "return", n.Return)
		}
		b.WriteByte(')')
	case *BlockCmd:
		head := "do"
		if n.Scope != nil {
			head = "block"
		}
		nodes := make([]Node, len(n.Cmds))
		for i, cmd := range n.Cmds {
			nodes[i] = cmd
		}
		dumpList(b, head, nodes...)
	case *InitCmd:
		head := "let"
		if n.Var.Const {
			head = "const"
		}
		b.WriteByte('(')
		b.WriteString(head)
		b.WriteByte(' ')
		b.WriteString(n.Var.Name)
		b.WriteByte(' ')
		dumpNode(b, n.Expr)
		b.WriteByte(')')
	case *AssignCmd:
		if n.Target == nil {
			dumpNode(b, n.Expr)
			return
		}
		dumpList(b, "=", n.Target, n.Expr)
	case *IfCmd:
		if n.Else == nil {
			dumpList(b, "if", n.Cond, n.Then)
			return
		}
		dumpList(b, "if", n.Cond, n.Then, n.Else)
	case *WhileCmd:
		dumpList(b, "while", n.Cond, n.Body)
	case *ForCmd:
		dumpList(b, "for", n.Target, n.Expr, n.Body)
	case *DebugCmd:
		dumpList(b, "debug", n.Expr)
	default:
		b.WriteString("?")
	}
}

func dumpList(b *strings.Builder, head string, nodes ...Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, node := range nodes {
		b.WriteByte(' ')
		dumpNode(b, node)
	}
	b.WriteByte(')')
}

func exprNodes(exprs []Expr) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}
