package pyast

import (
	"fmt"
	"strings"
)

// Dump produces a canonical structural serialization of a subtree.
// Two subtrees with identical Dump output are structurally
// identical: same node kinds, same operators, same identifier and
// literal spellings, in the same order. Source positions are
// excluded, so the same expression on different lines dumps
// identically. This is a syntactic check, not a semantic one: two
// differently written but equal-valued expressions dump differently.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	if n == nil {
		sb.WriteString("nil")
		return
	}

	switch v := n.(type) {
	case *FuncDef:
		sb.WriteString("FuncDef(")
		sb.WriteString(v.Name)
		dumpList(sb, ",dec=", exprNodes(v.Decorators))
		dumpList(sb, ",body=", stmtNodes(v.Body))
		sb.WriteString(")")
	case *Assign:
		sb.WriteString("Assign(")
		dumpList(sb, "targets=", exprNodes(v.Targets))
		sb.WriteString(",value=")
		dump(sb, v.Value)
		sb.WriteString(")")
	case *AugAssign:
		fmt.Fprintf(sb, "AugAssign(op=%s,target=", v.Op)
		dump(sb, v.Target)
		sb.WriteString(",value=")
		dump(sb, v.Value)
		sb.WriteString(")")
	case *ExprStmt:
		sb.WriteString("ExprStmt(")
		dump(sb, v.Value)
		sb.WriteString(")")
	case *Assert:
		sb.WriteString("Assert(test=")
		dump(sb, v.Test)
		sb.WriteString(",msg=")
		dump(sb, v.Msg)
		sb.WriteString(")")
	case *Return:
		sb.WriteString("Return(")
		dump(sb, v.Value)
		sb.WriteString(")")
	case *Raise:
		sb.WriteString("Raise(")
		dump(sb, v.Exc)
		sb.WriteString(")")
	case *Pass:
		sb.WriteString("Pass")
	case *Break:
		sb.WriteString("Break")
	case *Continue:
		sb.WriteString("Continue")
	case *Import:
		fmt.Fprintf(sb, "Import(%s)", strings.Join(v.Names, ","))
	case *ImportFrom:
		fmt.Fprintf(sb, "ImportFrom(%s:%s)", v.Module, strings.Join(v.Names, ","))
	case *Global:
		fmt.Fprintf(sb, "Global(%s)", strings.Join(v.Names, ","))
	case *If:
		sb.WriteString("If(cond=")
		dump(sb, v.Cond)
		dumpList(sb, ",body=", stmtNodes(v.Body))
		dumpList(sb, ",orelse=", stmtNodes(v.Orelse))
		sb.WriteString(")")
	case *For:
		sb.WriteString("For(target=")
		dump(sb, v.Target)
		sb.WriteString(",iter=")
		dump(sb, v.Iter)
		dumpList(sb, ",body=", stmtNodes(v.Body))
		dumpList(sb, ",orelse=", stmtNodes(v.Orelse))
		sb.WriteString(")")
	case *While:
		sb.WriteString("While(cond=")
		dump(sb, v.Cond)
		dumpList(sb, ",body=", stmtNodes(v.Body))
		dumpList(sb, ",orelse=", stmtNodes(v.Orelse))
		sb.WriteString(")")
	case *With:
		sb.WriteString("With(items=[")
		for i, item := range v.Items {
			if i > 0 {
				sb.WriteString(",")
			}
			dump(sb, item.Context)
			sb.WriteString(" as ")
			dump(sb, item.Var)
		}
		sb.WriteString("]")
		dumpList(sb, ",body=", stmtNodes(v.Body))
		sb.WriteString(")")
	case *ExceptHandler:
		sb.WriteString("Except(type=")
		dump(sb, v.Type)
		fmt.Fprintf(sb, ",name=%s", v.Name)
		dumpList(sb, ",body=", stmtNodes(v.Body))
		sb.WriteString(")")
	case *Try:
		sb.WriteString("Try(")
		dumpList(sb, "body=", stmtNodes(v.Body))
		sb.WriteString(",handlers=[")
		for i, h := range v.Handlers {
			if i > 0 {
				sb.WriteString(",")
			}
			dump(sb, h)
		}
		sb.WriteString("]")
		dumpList(sb, ",orelse=", stmtNodes(v.Orelse))
		dumpList(sb, ",final=", stmtNodes(v.Final))
		sb.WriteString(")")
	case *Unknown:
		fmt.Fprintf(sb, "Unknown(%s", v.Type)
		dumpList(sb, ",kids=", v.Kids)
		sb.WriteString(")")
	case *Name:
		fmt.Fprintf(sb, "Name(%s)", v.ID)
	case *Attribute:
		sb.WriteString("Attr(")
		dump(sb, v.Value)
		fmt.Fprintf(sb, ".%s)", v.Attr)
	case *Subscript:
		sb.WriteString("Subscript(")
		dump(sb, v.Value)
		sb.WriteString("[")
		dump(sb, v.Index)
		sb.WriteString("])")
	case *Call:
		sb.WriteString("Call(func=")
		dump(sb, v.Func)
		dumpList(sb, ",args=", exprNodes(v.Args))
		sb.WriteString(",kw=[")
		for i, kw := range v.Keywords {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(sb, "%s=", kw.Name)
			dump(sb, kw.Value)
		}
		sb.WriteString("])")
	case *Const:
		fmt.Fprintf(sb, "Const(kind=%d,value=%q)", int(v.Kind), v.Value)
	case *Compare:
		sb.WriteString("Compare(left=")
		dump(sb, v.Left)
		sb.WriteString(",ops=[")
		for i, op := range v.Ops {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(string(op))
		}
		sb.WriteString("]")
		dumpList(sb, ",comparators=", exprNodes(v.Comparators))
		sb.WriteString(")")
	case *BoolOp:
		fmt.Fprintf(sb, "BoolOp(op=%s", v.Op)
		dumpList(sb, ",values=", exprNodes(v.Values))
		sb.WriteString(")")
	case *UnaryOp:
		fmt.Fprintf(sb, "UnaryOp(op=%s,operand=", v.Op)
		dump(sb, v.Operand)
		sb.WriteString(")")
	case *BinOp:
		fmt.Fprintf(sb, "BinOp(op=%s,left=", v.Op)
		dump(sb, v.Left)
		sb.WriteString(",right=")
		dump(sb, v.Right)
		sb.WriteString(")")
	case *IfExp:
		sb.WriteString("IfExp(cond=")
		dump(sb, v.Cond)
		sb.WriteString(",body=")
		dump(sb, v.Body)
		sb.WriteString(",orelse=")
		dump(sb, v.Orelse)
		sb.WriteString(")")
	case *Comp:
		fmt.Fprintf(sb, "Comp(kind=%d,elt=", int(v.Kind))
		dump(sb, v.Elt)
		sb.WriteString(",value=")
		dump(sb, v.Value)
		sb.WriteString(",generators=[")
		for i, g := range v.Generators {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("for ")
			dump(sb, g.Target)
			sb.WriteString(" in ")
			dump(sb, g.Iter)
			dumpList(sb, " if ", exprNodes(g.Ifs))
		}
		sb.WriteString("])")
	case *List:
		sb.WriteString("List(")
		dumpList(sb, "", exprNodes(v.Elts))
		sb.WriteString(")")
	case *Tuple:
		sb.WriteString("Tuple(")
		dumpList(sb, "", exprNodes(v.Elts))
		sb.WriteString(")")
	case *Dict:
		sb.WriteString("Dict(keys=")
		dumpList(sb, "", exprNodes(v.Keys))
		sb.WriteString(",values=")
		dumpList(sb, "", exprNodes(v.Values))
		sb.WriteString(")")
	case *Set:
		sb.WriteString("Set(")
		dumpList(sb, "", exprNodes(v.Elts))
		sb.WriteString(")")
	case *UnknownExpr:
		fmt.Fprintf(sb, "UnknownExpr(%s", v.Type)
		dumpList(sb, ",kids=", v.Kids)
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "%T", n)
	}
}

func dumpList(sb *strings.Builder, label string, nodes []Node) {
	sb.WriteString(label)
	sb.WriteString("[")
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(",")
		}
		dump(sb, n)
	}
	sb.WriteString("]")
}

func exprNodes(exprs []Expr) []Node {
	nodes := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		nodes = append(nodes, e)
	}
	return nodes
}

func stmtNodes(stmts []Stmt) []Node {
	nodes := make([]Node, 0, len(stmts))
	for _, s := range stmts {
		nodes = append(nodes, s)
	}
	return nodes
}
