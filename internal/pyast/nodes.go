// Package pyast defines a closed syntax tree for the subset of
// Python that test quality analysis inspects. Node kinds form a
// sealed sum type: analyzers dispatch over concrete types and fall
// back to generic child traversal for anything they do not handle.
package pyast

import "strconv"

// Node is the common interface of every tree node.
type Node interface {
	// Pos returns the 1-based source line of the node.
	Pos() int
	isNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	isExpr()
}

// StmtBase carries the source position shared by all statements.
type StmtBase struct {
	Line int
}

// Pos returns the statement's 1-based source line.
func (b StmtBase) Pos() int { return b.Line }

func (StmtBase) isNode() {}
func (StmtBase) isStmt() {}

// ExprBase carries the source position shared by all expressions.
type ExprBase struct {
	Line int
}

// Pos returns the expression's 1-based source line.
func (b ExprBase) Pos() int { return b.Line }

func (ExprBase) isNode() {}
func (ExprBase) isExpr() {}

// At is a convenience constructor for StmtBase.
func At(line int) StmtBase { return StmtBase{Line: line} }

// ExprAt is a convenience constructor for ExprBase.
func ExprAt(line int) ExprBase { return ExprBase{Line: line} }

// FuncDef is a function definition, including its decorators.
// Async functions are represented identically.
type FuncDef struct {
	StmtBase
	Name       string
	Decorators []Expr
	Body       []Stmt
}

// Assign is an assignment statement (plain or annotated). Multiple
// targets appear for chained assignment (a = b = 1).
type Assign struct {
	StmtBase
	Targets []Expr
	Value   Expr
}

// AugAssign is an augmented assignment (x += 1).
type AugAssign struct {
	StmtBase
	Target Expr
	Op     string
	Value  Expr
}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	StmtBase
	Value Expr
}

// Assert is an assert statement with an optional message.
type Assert struct {
	StmtBase
	Test Expr
	Msg  Expr // nil when absent
}

// Return is a return statement.
type Return struct {
	StmtBase
	Value Expr // nil for bare return
}

// Raise is a raise statement.
type Raise struct {
	StmtBase
	Exc Expr // nil for bare re-raise
}

// Pass is a pass statement.
type Pass struct {
	StmtBase
}

// Break is a break statement.
type Break struct {
	StmtBase
}

// Continue is a continue statement.
type Continue struct {
	StmtBase
}

// Import is an "import a, b" statement. Names hold the imported
// module paths.
type Import struct {
	StmtBase
	Names []string
}

// ImportFrom is a "from m import a, b" statement.
type ImportFrom struct {
	StmtBase
	Module string
	Names  []string
}

// Global is a "global a, b" declaration.
type Global struct {
	StmtBase
	Names []string
}

// If is an if statement. Chained elif branches are nested If nodes
// in Orelse, matching Python's own tree shape.
type If struct {
	StmtBase
	Cond   Expr
	Body   []Stmt
	Orelse []Stmt
}

// For is a for loop.
type For struct {
	StmtBase
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

// While is a while loop.
type While struct {
	StmtBase
	Cond   Expr
	Body   []Stmt
	Orelse []Stmt
}

// WithItem is one "expr as var" clause of a with statement.
type WithItem struct {
	Context Expr
	Var     Expr // nil when no "as" binding
}

// With is a with statement.
type With struct {
	StmtBase
	Items []WithItem
	Body  []Stmt
}

// ExceptHandler is one except clause of a try statement.
type ExceptHandler struct {
	StmtBase
	Type Expr   // nil for a bare except
	Name string // "as" binding, empty when absent
	Body []Stmt
}

// Try is a try statement.
type Try struct {
	StmtBase
	Body     []Stmt
	Handlers []*ExceptHandler
	Orelse   []Stmt
	Final    []Stmt
}

// Unknown preserves statements the converter does not model. Its
// children are still walked so nested findings are not lost.
type Unknown struct {
	StmtBase
	Type string
	Kids []Node
}

// Name is an identifier reference.
type Name struct {
	ExprBase
	ID string
}

// Attribute is an attribute access (value.attr).
type Attribute struct {
	ExprBase
	Value Expr
	Attr  string
}

// Subscript is an index access (value[index]).
type Subscript struct {
	ExprBase
	Value Expr
	Index Expr
}

// Keyword is a keyword argument in a call.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is a function or method call.
type Call struct {
	ExprBase
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

// ConstKind discriminates literal constants.
type ConstKind int

// Constant kinds.
const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstStr
	ConstTrue
	ConstFalse
	ConstNone
)

// Const is a literal constant. Value holds the literal text for
// numbers and the unquoted content for strings; it is empty for
// True/False/None.
type Const struct {
	ExprBase
	Kind  ConstKind
	Value string
}

// Number returns the numeric value of an int or float constant.
func (c *Const) Number() (float64, bool) {
	switch c.Kind {
	case ConstInt, ConstFloat:
		v, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// Truthy reports the boolean value of the constant and whether it
// is statically known.
func (c *Const) Truthy() (value, known bool) {
	switch c.Kind {
	case ConstTrue:
		return true, true
	case ConstFalse:
		return false, true
	case ConstNone:
		return false, true
	case ConstStr:
		return c.Value != "", true
	case ConstInt, ConstFloat:
		n, ok := c.Number()
		return ok && n != 0, ok
	default:
		return false, false
	}
}

// CmpOp is a comparison operator.
type CmpOp string

// Comparison operators.
const (
	OpEq    CmpOp = "=="
	OpNotEq CmpOp = "!="
	OpLt    CmpOp = "<"
	OpLtE   CmpOp = "<="
	OpGt    CmpOp = ">"
	OpGtE   CmpOp = ">="
	OpIs    CmpOp = "is"
	OpIsNot CmpOp = "is not"
	OpIn    CmpOp = "in"
	OpNotIn CmpOp = "not in"
)

// Compare is a (possibly chained) comparison: Left Ops[0]
// Comparators[0] Ops[1] Comparators[1] ...
type Compare struct {
	ExprBase
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

// BoolOp is an "and"/"or" chain over two or more operands.
type BoolOp struct {
	ExprBase
	Op     string // "and" or "or"
	Values []Expr
}

// UnaryOp is a unary operation ("not", "-", "+", "~").
type UnaryOp struct {
	ExprBase
	Op      string
	Operand Expr
}

// BinOp is a binary arithmetic operation.
type BinOp struct {
	ExprBase
	Left  Expr
	Op    string
	Right Expr
}

// IfExp is a ternary conditional expression (a if cond else b).
type IfExp struct {
	ExprBase
	Cond   Expr
	Body   Expr
	Orelse Expr
}

// CompKind discriminates comprehension forms.
type CompKind int

// Comprehension kinds.
const (
	ListComp CompKind = iota
	SetComp
	DictComp
	GenExp
)

// Generator is one "for target in iter if ..." clause of a
// comprehension.
type Generator struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

// Comp is a comprehension or generator expression. Value is only
// set for dict comprehensions (Elt holds the key).
type Comp struct {
	ExprBase
	Kind       CompKind
	Elt        Expr
	Value      Expr // dict comprehensions only
	Generators []Generator
}

// List is a list literal.
type List struct {
	ExprBase
	Elts []Expr
}

// Tuple is a tuple literal.
type Tuple struct {
	ExprBase
	Elts []Expr
}

// Dict is a dict literal. Keys and Values are parallel.
type Dict struct {
	ExprBase
	Keys   []Expr
	Values []Expr
}

// Set is a set literal.
type Set struct {
	ExprBase
	Elts []Expr
}

// UnknownExpr preserves expressions the converter does not model.
type UnknownExpr struct {
	ExprBase
	Type string
	Kids []Node
}

// Docstring returns the function's docstring, or "" when the first
// body statement is not a string literal.
func Docstring(f *FuncDef) string {
	if f == nil || len(f.Body) == 0 {
		return ""
	}
	es, ok := f.Body[0].(*ExprStmt)
	if !ok {
		return ""
	}
	c, ok := es.Value.(*Const)
	if !ok || c.Kind != ConstStr {
		return ""
	}
	return c.Value
}
