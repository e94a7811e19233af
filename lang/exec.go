package lang

import (
	"fmt"

	"github.com/sergev/minijs/parser"
)

// Exec executes a command within frame f.
func (in *Interpreter) Exec(cmd parser.Cmd, f *Frame) error {
	switch c := cmd.(type) {
	case *parser.BlockCmd:
		if c.Scope != nil {
			f = NewFrame(c.Scope, f)
		}
		for _, sub := range c.Cmds {
			if err := in.Exec(sub, f); err != nil {
				return err
			}
		}
		return nil
	case *parser.InitCmd:
		val, err := in.Eval(c.Expr, f)
		if err != nil {
			return err
		}
		f.Set(c.Var, 0, val)
		return nil
	case *parser.AssignCmd:
		val, err := in.Eval(c.Expr, f)
		if err != nil || c.Target == nil {
			return err
		}
		loc, err := in.locate(c.Target, f)
		if err != nil {
			return err
		}
		return loc.set(val)
	case *parser.IfCmd:
		cond, err := in.Eval(c.Cond, f)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.Exec(c.Then, f)
		}
		if c.Else != nil {
			return in.Exec(c.Else, f)
		}
		return nil
	case *parser.WhileCmd:
		for {
			cond, err := in.Eval(c.Cond, f)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := in.Exec(c.Body, f); err != nil {
				return err
			}
		}
	case *parser.ForCmd:
		return in.execFor(c, f)
	case *parser.DebugCmd:
		val, err := in.Eval(c.Expr, f)
		if err != nil {
			return err
		}
		if err := in.console.WriteLine(val.String()); err != nil {
			return wrapRuntime(c, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

// execFor iterates over a snapshot of the list elements or object values
// taken before the first iteration.
func (in *Interpreter) execFor(c *parser.ForCmd, f *Frame) error {
	if c.Scope != nil {
		f = NewFrame(c.Scope, f)
	}
	seq, err := in.Eval(c.Expr, f)
	if err != nil {
		return err
	}
	var items []Value
	switch seq.Type {
	case TypeList:
		items = append(items, seq.List().Items...)
	case TypeObject:
		obj := seq.Object()
		for _, key := range obj.Keys() {
			items = append(items, obj.Entries[key])
		}
	default:
		return runtimeErrorf(c, "cannot iterate over %s value", seq.Type)
	}
	for _, item := range items {
		if err := in.assignVar(c.Target, f, item); err != nil {
			return err
		}
		if err := in.Exec(c.Body, f); err != nil {
			return err
		}
	}
	return nil
}
