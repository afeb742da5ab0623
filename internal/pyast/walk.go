package pyast

// Children returns the direct child nodes of n in source order.
// Unknown nodes expose their preserved children so traversal never
// stops at an unmodeled construct.
func Children(n Node) []Node {
	var kids []Node
	addExpr := func(e Expr) {
		if e != nil {
			kids = append(kids, e)
		}
	}
	addStmts := func(stmts []Stmt) {
		for _, s := range stmts {
			kids = append(kids, s)
		}
	}
	addExprs := func(exprs []Expr) {
		for _, e := range exprs {
			addExpr(e)
		}
	}

	switch v := n.(type) {
	case *FuncDef:
		addExprs(v.Decorators)
		addStmts(v.Body)
	case *Assign:
		addExprs(v.Targets)
		addExpr(v.Value)
	case *AugAssign:
		addExpr(v.Target)
		addExpr(v.Value)
	case *ExprStmt:
		addExpr(v.Value)
	case *Assert:
		addExpr(v.Test)
		addExpr(v.Msg)
	case *Return:
		addExpr(v.Value)
	case *Raise:
		addExpr(v.Exc)
	case *Pass, *Break, *Continue, *Import, *ImportFrom, *Global:
		// Leaves.
	case *If:
		addExpr(v.Cond)
		addStmts(v.Body)
		addStmts(v.Orelse)
	case *For:
		addExpr(v.Target)
		addExpr(v.Iter)
		addStmts(v.Body)
		addStmts(v.Orelse)
	case *While:
		addExpr(v.Cond)
		addStmts(v.Body)
		addStmts(v.Orelse)
	case *With:
		for _, item := range v.Items {
			addExpr(item.Context)
			addExpr(item.Var)
		}
		addStmts(v.Body)
	case *ExceptHandler:
		addExpr(v.Type)
		addStmts(v.Body)
	case *Try:
		addStmts(v.Body)
		for _, h := range v.Handlers {
			kids = append(kids, h)
		}
		addStmts(v.Orelse)
		addStmts(v.Final)
	case *Unknown:
		kids = append(kids, v.Kids...)
	case *Name, *Const:
		// Leaves.
	case *Attribute:
		addExpr(v.Value)
	case *Subscript:
		addExpr(v.Value)
		addExpr(v.Index)
	case *Call:
		addExpr(v.Func)
		addExprs(v.Args)
		for _, kw := range v.Keywords {
			addExpr(kw.Value)
		}
	case *Compare:
		addExpr(v.Left)
		addExprs(v.Comparators)
	case *BoolOp:
		addExprs(v.Values)
	case *UnaryOp:
		addExpr(v.Operand)
	case *BinOp:
		addExpr(v.Left)
		addExpr(v.Right)
	case *IfExp:
		addExpr(v.Cond)
		addExpr(v.Body)
		addExpr(v.Orelse)
	case *Comp:
		addExpr(v.Elt)
		addExpr(v.Value)
		for _, g := range v.Generators {
			addExpr(g.Target)
			addExpr(g.Iter)
			addExprs(g.Ifs)
		}
	case *List:
		addExprs(v.Elts)
	case *Tuple:
		addExprs(v.Elts)
	case *Dict:
		addExprs(v.Keys)
		addExprs(v.Values)
	case *Set:
		addExprs(v.Elts)
	case *UnknownExpr:
		kids = append(kids, v.Kids...)
	}
	return kids
}

// Walk traverses the tree rooted at n in preorder. When fn returns
// false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, kid := range Children(n) {
		Walk(kid, fn)
	}
}

// Inspect visits every node under n, including n itself.
func Inspect(n Node, fn func(Node)) {
	Walk(n, func(node Node) bool {
		fn(node)
		return true
	})
}
