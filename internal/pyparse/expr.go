package pyparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/unbound-force/pyreview/internal/pyast"
)

// exprTypes lists the tree-sitter node types the expression
// converter models directly. Used when harvesting children of
// unmodeled statements.
var exprTypes = map[string]bool{
	"identifier": true, "attribute": true, "subscript": true,
	"call": true, "string": true, "integer": true, "float": true,
	"true": true, "false": true, "none": true,
	"comparison_operator": true, "boolean_operator": true,
	"not_operator": true, "unary_operator": true, "binary_operator": true,
	"conditional_expression": true, "parenthesized_expression": true,
	"list": true, "tuple": true, "set": true, "dictionary": true,
	"list_comprehension": true, "set_comprehension": true,
	"dictionary_comprehension": true, "generator_expression": true,
}

func isExprType(t string) bool { return exprTypes[t] }

func (c *converter) exprs(n *sitter.Node) []pyast.Expr {
	var out []pyast.Expr
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, c.expr(n.NamedChild(i)))
	}
	return out
}

func (c *converter) expr(n *sitter.Node) pyast.Expr {
	if n == nil {
		return nil
	}
	at := pyast.ExprAt(c.line(n))

	switch n.Type() {
	case "identifier":
		return &pyast.Name{ExprBase: at, ID: c.text(n)}

	case "attribute":
		return &pyast.Attribute{
			ExprBase: at,
			Value:    c.expr(n.ChildByFieldName("object")),
			Attr:     c.text(n.ChildByFieldName("attribute")),
		}

	case "subscript":
		return &pyast.Subscript{
			ExprBase: at,
			Value:    c.expr(n.ChildByFieldName("value")),
			Index:    c.expr(n.ChildByFieldName("subscript")),
		}

	case "call":
		return c.call(n)

	case "string":
		return &pyast.Const{ExprBase: at, Kind: pyast.ConstStr, Value: stringContent(n, c.src)}
	case "integer":
		return &pyast.Const{ExprBase: at, Kind: pyast.ConstInt, Value: c.text(n)}
	case "float":
		return &pyast.Const{ExprBase: at, Kind: pyast.ConstFloat, Value: c.text(n)}
	case "true":
		return &pyast.Const{ExprBase: at, Kind: pyast.ConstTrue}
	case "false":
		return &pyast.Const{ExprBase: at, Kind: pyast.ConstFalse}
	case "none":
		return &pyast.Const{ExprBase: at, Kind: pyast.ConstNone}

	case "comparison_operator":
		return c.comparison(n)

	case "boolean_operator":
		return c.boolOp(n)

	case "not_operator":
		return &pyast.UnaryOp{ExprBase: at, Op: "not", Operand: c.expr(n.ChildByFieldName("argument"))}

	case "unary_operator":
		return &pyast.UnaryOp{
			ExprBase: at,
			Op:       opText(n.ChildByFieldName("operator")),
			Operand:  c.expr(n.ChildByFieldName("argument")),
		}

	case "binary_operator":
		return &pyast.BinOp{
			ExprBase: at,
			Left:     c.expr(n.ChildByFieldName("left")),
			Op:       opText(n.ChildByFieldName("operator")),
			Right:    c.expr(n.ChildByFieldName("right")),
		}

	case "conditional_expression":
		// body if cond else orelse: three expression children in
		// source order.
		ie := &pyast.IfExp{ExprBase: at}
		if n.NamedChildCount() >= 3 {
			ie.Body = c.expr(n.NamedChild(0))
			ie.Cond = c.expr(n.NamedChild(1))
			ie.Orelse = c.expr(n.NamedChild(2))
		}
		return ie

	case "parenthesized_expression":
		return c.expr(n.NamedChild(0))

	case "list":
		return &pyast.List{ExprBase: at, Elts: c.exprs(n)}
	case "tuple":
		return &pyast.Tuple{ExprBase: at, Elts: c.exprs(n)}
	case "set":
		return &pyast.Set{ExprBase: at, Elts: c.exprs(n)}

	case "dictionary":
		d := &pyast.Dict{ExprBase: at}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			if pair.Type() != "pair" {
				continue
			}
			d.Keys = append(d.Keys, c.expr(pair.ChildByFieldName("key")))
			d.Values = append(d.Values, c.expr(pair.ChildByFieldName("value")))
		}
		return d

	case "list_comprehension":
		return c.comprehension(n, pyast.ListComp)
	case "set_comprehension":
		return c.comprehension(n, pyast.SetComp)
	case "dictionary_comprehension":
		return c.comprehension(n, pyast.DictComp)
	case "generator_expression":
		return c.comprehension(n, pyast.GenExp)

	default:
		u := &pyast.UnknownExpr{ExprBase: at, Type: n.Type()}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			kid := n.NamedChild(i)
			if isExprType(kid.Type()) {
				u.Kids = append(u.Kids, c.expr(kid))
			}
		}
		return u
	}
}

func (c *converter) call(n *sitter.Node) pyast.Expr {
	call := &pyast.Call{
		ExprBase: pyast.ExprAt(c.line(n)),
		Func:     c.expr(n.ChildByFieldName("function")),
	}
	args := n.ChildByFieldName("arguments")
	if args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "keyword_argument" {
				call.Keywords = append(call.Keywords, pyast.Keyword{
					Name:  c.text(arg.ChildByFieldName("name")),
					Value: c.expr(arg.ChildByFieldName("value")),
				})
			} else {
				call.Args = append(call.Args, c.expr(arg))
			}
		}
	}
	return call
}

// comprehension converts list/set/dict comprehensions and generator
// expressions. Dict comprehensions carry a key/value pair in the
// body field; the key lands in Elt, the value in Value. An if_clause
// attaches to the most recent for_in_clause.
func (c *converter) comprehension(n *sitter.Node, kind pyast.CompKind) pyast.Expr {
	comp := &pyast.Comp{ExprBase: pyast.ExprAt(c.line(n)), Kind: kind}

	if body := n.ChildByFieldName("body"); body != nil && body.Type() == "pair" {
		comp.Elt = c.expr(body.ChildByFieldName("key"))
		comp.Value = c.expr(body.ChildByFieldName("value"))
	} else {
		comp.Elt = c.expr(body)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		kid := n.NamedChild(i)
		switch kid.Type() {
		case "for_in_clause":
			comp.Generators = append(comp.Generators, pyast.Generator{
				Target: c.expr(kid.ChildByFieldName("left")),
				Iter:   c.expr(kid.ChildByFieldName("right")),
			})
		case "if_clause":
			if len(comp.Generators) > 0 {
				last := &comp.Generators[len(comp.Generators)-1]
				last.Ifs = append(last.Ifs, c.expr(kid.NamedChild(0)))
			}
		}
	}
	return comp
}

// comparison converts a (possibly chained) comparison. Operand
// nodes are named children; operator tokens sit between them.
func (c *converter) comparison(n *sitter.Node) pyast.Expr {
	cmp := &pyast.Compare{ExprBase: pyast.ExprAt(c.line(n))}
	for i := 0; i < int(n.ChildCount()); i++ {
		kid := n.Child(i)
		if kid.IsNamed() {
			if cmp.Left == nil {
				cmp.Left = c.expr(kid)
			} else {
				cmp.Comparators = append(cmp.Comparators, c.expr(kid))
			}
		} else {
			cmp.Ops = append(cmp.Ops, pyast.CmpOp(kid.Type()))
		}
	}
	return cmp
}

// boolOp flattens left-nested same-operator chains (a and b and c)
// into a single BoolOp with three operands, the shape Python's own
// ast produces.
func (c *converter) boolOp(n *sitter.Node) pyast.Expr {
	op := opText(n.ChildByFieldName("operator"))
	left := c.expr(n.ChildByFieldName("left"))
	right := c.expr(n.ChildByFieldName("right"))

	if lb, ok := left.(*pyast.BoolOp); ok && lb.Op == op {
		lb.Values = append(lb.Values, right)
		return lb
	}
	return &pyast.BoolOp{
		ExprBase: pyast.ExprAt(c.line(n)),
		Op:       op,
		Values:   []pyast.Expr{left, right},
	}
}

// stringContent extracts the unquoted content of a string literal
// from its raw text: prefix letters and quotes are stripped and the
// common escape sequences decoded. Raw strings keep their
// backslashes.
func stringContent(n *sitter.Node, src []byte) string {
	raw := n.Content(src)

	isRaw := false
	for len(raw) > 0 {
		switch raw[0] {
		case 'r', 'R':
			isRaw = true
		case 'b', 'B', 'f', 'F', 'u', 'U':
		default:
			goto prefixDone
		}
		raw = raw[1:]
	}
prefixDone:

	for _, quote := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(raw, quote) && strings.HasSuffix(raw, quote) && len(raw) >= 2*len(quote) {
			raw = raw[len(quote) : len(raw)-len(quote)]
			break
		}
	}

	if isRaw || !strings.ContainsRune(raw, '\\') {
		return raw
	}

	var out strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 == len(raw) {
			out.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '\\', '\'', '"':
			out.WriteByte(raw[i])
		default:
			out.WriteByte('\\')
			out.WriteByte(raw[i])
		}
	}
	return out.String()
}
