// Package pyparse turns Python test sources into the closed pyast
// tree and collects test functions for analysis. Parsing uses
// tree-sitter's Python grammar; anything the converter does not
// model is preserved as an Unknown node whose children are still
// traversable.
package pyparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/unbound-force/pyreview/internal/pyast"
)

// converter translates tree-sitter nodes into pyast nodes. It holds
// the source bytes for content extraction.
type converter struct {
	src []byte
}

func (c *converter) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// block converts the statements of a block (or module) node.
func (c *converter) block(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	var stmts []pyast.Stmt
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if s := c.stmt(n.NamedChild(i)); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (c *converter) stmt(n *sitter.Node) pyast.Stmt {
	at := pyast.At(c.line(n))

	switch n.Type() {
	case "comment":
		return nil

	case "expression_statement":
		// May wrap an assignment, an augmented assignment, or a
		// plain expression.
		inner := n.NamedChild(0)
		if inner == nil {
			return nil
		}
		switch inner.Type() {
		case "assignment":
			return c.assignment(inner)
		case "augmented_assignment":
			return &pyast.AugAssign{
				StmtBase: at,
				Target:   c.expr(inner.ChildByFieldName("left")),
				Op:       opText(inner.ChildByFieldName("operator")),
				Value:    c.expr(inner.ChildByFieldName("right")),
			}
		default:
			return &pyast.ExprStmt{StmtBase: at, Value: c.expr(inner)}
		}

	case "assert_statement":
		st := &pyast.Assert{StmtBase: at}
		if n.NamedChildCount() > 0 {
			st.Test = c.expr(n.NamedChild(0))
		}
		if n.NamedChildCount() > 1 {
			st.Msg = c.expr(n.NamedChild(1))
		}
		return st

	case "return_statement":
		st := &pyast.Return{StmtBase: at}
		if n.NamedChildCount() > 0 {
			st.Value = c.expr(n.NamedChild(0))
		}
		return st

	case "raise_statement":
		st := &pyast.Raise{StmtBase: at}
		if n.NamedChildCount() > 0 {
			st.Exc = c.expr(n.NamedChild(0))
		}
		return st

	case "pass_statement":
		return &pyast.Pass{StmtBase: at}
	case "break_statement":
		return &pyast.Break{StmtBase: at}
	case "continue_statement":
		return &pyast.Continue{StmtBase: at}

	case "import_statement":
		return &pyast.Import{StmtBase: at, Names: c.importNames(n)}

	case "import_from_statement":
		st := &pyast.ImportFrom{StmtBase: at}
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			st.Module = c.text(mod)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			kid := n.NamedChild(i)
			if kid == n.ChildByFieldName("module_name") {
				continue
			}
			switch kid.Type() {
			case "dotted_name", "identifier", "wildcard_import":
				st.Names = append(st.Names, c.text(kid))
			case "aliased_import":
				if name := kid.ChildByFieldName("name"); name != nil {
					st.Names = append(st.Names, c.text(name))
				}
			}
		}
		return st

	case "global_statement":
		st := &pyast.Global{StmtBase: at}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			st.Names = append(st.Names, c.text(n.NamedChild(i)))
		}
		return st

	case "if_statement":
		return c.ifStmt(n)

	case "for_statement":
		return &pyast.For{
			StmtBase: at,
			Target:   c.expr(n.ChildByFieldName("left")),
			Iter:     c.expr(n.ChildByFieldName("right")),
			Body:     c.block(n.ChildByFieldName("body")),
			Orelse:   c.elseBlock(n.ChildByFieldName("alternative")),
		}

	case "while_statement":
		return &pyast.While{
			StmtBase: at,
			Cond:     c.expr(n.ChildByFieldName("condition")),
			Body:     c.block(n.ChildByFieldName("body")),
			Orelse:   c.elseBlock(n.ChildByFieldName("alternative")),
		}

	case "with_statement":
		return c.withStmt(n)

	case "try_statement":
		return c.tryStmt(n)

	case "function_definition", "decorated_definition", "class_definition":
		// Nested defs keep their body walkable but are opaque to
		// statement-level rules.
		return c.unknownStmt(n)

	default:
		return c.unknownStmt(n)
	}
}

// assignment flattens chained assignment (a = b = 1) into one
// Assign with multiple targets, matching Python's own tree shape.
func (c *converter) assignment(n *sitter.Node) pyast.Stmt {
	st := &pyast.Assign{StmtBase: pyast.At(c.line(n))}
	cur := n
	for cur != nil && cur.Type() == "assignment" {
		if left := cur.ChildByFieldName("left"); left != nil {
			st.Targets = append(st.Targets, c.expr(left))
		}
		right := cur.ChildByFieldName("right")
		if right != nil && right.Type() == "assignment" {
			cur = right
			continue
		}
		if right != nil {
			st.Value = c.expr(right)
		}
		break
	}
	return st
}

// ifStmt converts if/elif/else; each elif becomes a nested If in
// Orelse, the same shape Python's ast module produces.
func (c *converter) ifStmt(n *sitter.Node) pyast.Stmt {
	st := &pyast.If{
		StmtBase: pyast.At(c.line(n)),
		Cond:     c.expr(n.ChildByFieldName("condition")),
		Body:     c.block(n.ChildByFieldName("consequence")),
	}
	tail := &st.Orelse
	for i := 0; i < int(n.NamedChildCount()); i++ {
		kid := n.NamedChild(i)
		switch kid.Type() {
		case "elif_clause":
			elif := &pyast.If{
				StmtBase: pyast.At(c.line(kid)),
				Cond:     c.expr(kid.ChildByFieldName("condition")),
				Body:     c.block(kid.ChildByFieldName("consequence")),
			}
			*tail = append(*tail, elif)
			tail = &elif.Orelse
		case "else_clause":
			*tail = append(*tail, c.elseBlock(kid)...)
		}
	}
	return st
}

func (c *converter) elseBlock(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	return c.block(n.ChildByFieldName("body"))
}

func (c *converter) withStmt(n *sitter.Node) pyast.Stmt {
	st := &pyast.With{StmtBase: pyast.At(c.line(n))}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		kid := n.NamedChild(i)
		if kid.Type() != "with_clause" {
			continue
		}
		for j := 0; j < int(kid.NamedChildCount()); j++ {
			item := kid.NamedChild(j)
			if item.Type() != "with_item" {
				continue
			}
			value := item.ChildByFieldName("value")
			wi := pyast.WithItem{}
			if value != nil && value.Type() == "as_pattern" {
				wi.Context = c.expr(value.ChildByFieldName("value"))
				if alias := value.ChildByFieldName("alias"); alias != nil {
					wi.Var = c.expr(alias)
				}
			} else if value != nil {
				wi.Context = c.expr(value)
			}
			st.Items = append(st.Items, wi)
		}
	}
	st.Body = c.block(n.ChildByFieldName("body"))
	return st
}

func (c *converter) tryStmt(n *sitter.Node) pyast.Stmt {
	st := &pyast.Try{
		StmtBase: pyast.At(c.line(n)),
		Body:     c.block(n.ChildByFieldName("body")),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		kid := n.NamedChild(i)
		switch kid.Type() {
		case "except_clause":
			st.Handlers = append(st.Handlers, c.exceptClause(kid))
		case "else_clause":
			st.Orelse = c.elseBlock(kid)
		case "finally_clause":
			// The finally body is the clause's sole block child.
			for j := 0; j < int(kid.NamedChildCount()); j++ {
				if kid.NamedChild(j).Type() == "block" {
					st.Final = c.block(kid.NamedChild(j))
				}
			}
		}
	}
	return st
}

func (c *converter) exceptClause(n *sitter.Node) *pyast.ExceptHandler {
	h := &pyast.ExceptHandler{StmtBase: pyast.At(c.line(n))}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		kid := n.NamedChild(i)
		switch kid.Type() {
		case "block":
			h.Body = c.block(kid)
		case "as_pattern":
			h.Type = c.expr(kid.ChildByFieldName("value"))
			if alias := kid.ChildByFieldName("alias"); alias != nil {
				h.Name = c.text(alias)
			}
		default:
			h.Type = c.expr(kid)
		}
	}
	return h
}

func (c *converter) importNames(n *sitter.Node) []string {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		kid := n.NamedChild(i)
		switch kid.Type() {
		case "dotted_name", "identifier":
			names = append(names, c.text(kid))
		case "aliased_import":
			if name := kid.ChildByFieldName("name"); name != nil {
				names = append(names, c.text(name))
			}
		}
	}
	return names
}

func (c *converter) unknownStmt(n *sitter.Node) pyast.Stmt {
	st := &pyast.Unknown{StmtBase: pyast.At(c.line(n)), Type: n.Type()}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		kid := n.NamedChild(i)
		if kid.Type() == "block" {
			for _, s := range c.block(kid) {
				st.Kids = append(st.Kids, s)
			}
		} else if isExprType(kid.Type()) {
			st.Kids = append(st.Kids, c.expr(kid))
		}
	}
	return st
}

func opText(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Type()
}
