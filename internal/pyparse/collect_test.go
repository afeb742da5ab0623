package pyparse_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/pyparse"
)

func TestParseFunction_Structure(t *testing.T) {
	fn, err := pyparse.ParseFunction(`def test_login_succeeds():
    user = make_user()
    if user.active:
        assert login(user) == "ok"
`)
	if err != nil {
		t.Fatalf("ParseFunction: %v", err)
	}

	if fn.Name != "test_login_succeeds" {
		t.Errorf("Name = %q", fn.Name)
	}
	if fn.Line != 1 {
		t.Errorf("Line = %d, want 1", fn.Line)
	}
	if len(fn.Body) != 2 {
		t.Fatalf("body has %d statements, want 2", len(fn.Body))
	}
	assign, ok := fn.Body[0].(*pyast.Assign)
	if !ok {
		t.Fatalf("first statement is %T, want *Assign", fn.Body[0])
	}
	if name, ok := assign.Targets[0].(*pyast.Name); !ok || name.ID != "user" {
		t.Errorf("assign target = %#v", assign.Targets[0])
	}
	ifStmt, ok := fn.Body[1].(*pyast.If)
	if !ok {
		t.Fatalf("second statement is %T, want *If", fn.Body[1])
	}
	if len(ifStmt.Body) != 1 {
		t.Fatalf("if body has %d statements", len(ifStmt.Body))
	}
	assertStmt, ok := ifStmt.Body[0].(*pyast.Assert)
	if !ok {
		t.Fatalf("if body statement is %T, want *Assert", ifStmt.Body[0])
	}
	cmp, ok := assertStmt.Test.(*pyast.Compare)
	if !ok || cmp.Ops[0] != pyast.OpEq {
		t.Errorf("assert condition = %#v", assertStmt.Test)
	}
	if assertStmt.Line != 4 {
		t.Errorf("assert line = %d, want 4", assertStmt.Line)
	}
}

func TestParseFunction_ElifNestsInOrelse(t *testing.T) {
	fn, err := pyparse.ParseFunction(`def test_branching():
    if a:
        pass
    elif b:
        pass
    else:
        pass
`)
	if err != nil {
		t.Fatalf("ParseFunction: %v", err)
	}

	outer := fn.Body[0].(*pyast.If)
	if len(outer.Orelse) != 1 {
		t.Fatalf("outer orelse has %d statements, want 1", len(outer.Orelse))
	}
	inner, ok := outer.Orelse[0].(*pyast.If)
	if !ok {
		t.Fatalf("elif is %T, want nested *If", outer.Orelse[0])
	}
	if len(inner.Orelse) != 1 {
		t.Errorf("else body lost: %d statements", len(inner.Orelse))
	}
}

func TestParseFunction_Decorated(t *testing.T) {
	fn, err := pyparse.ParseFunction(`@pytest.mark.skip(reason="flaky")
def test_decorated():
    assert True
`)
	if err != nil {
		t.Fatalf("ParseFunction: %v", err)
	}
	if len(fn.Decorators) != 1 {
		t.Fatalf("got %d decorators, want 1", len(fn.Decorators))
	}
	call, ok := fn.Decorators[0].(*pyast.Call)
	if !ok {
		t.Fatalf("decorator is %T, want *Call", fn.Decorators[0])
	}
	if len(call.Keywords) != 1 || call.Keywords[0].Name != "reason" {
		t.Errorf("keywords = %#v", call.Keywords)
	}
}

func TestParseFunction_ChainedBoolOpFlattened(t *testing.T) {
	fn, err := pyparse.ParseFunction("def test_chain():\n    assert a and b and c\n")
	if err != nil {
		t.Fatalf("ParseFunction: %v", err)
	}
	boolOp, ok := fn.Body[0].(*pyast.Assert).Test.(*pyast.BoolOp)
	if !ok {
		t.Fatalf("condition is %T, want *BoolOp", fn.Body[0].(*pyast.Assert).Test)
	}
	if boolOp.Op != "and" || len(boolOp.Values) != 3 {
		t.Errorf("BoolOp = %s over %d values, want and over 3", boolOp.Op, len(boolOp.Values))
	}
}

func TestParseFunction_Comprehension(t *testing.T) {
	fn, err := pyparse.ParseFunction(`def test_filtering():
    result = [x for x in xs if p(x)]
    index = {k: v for k, v in pairs}
`)
	if err != nil {
		t.Fatalf("ParseFunction: %v", err)
	}

	comp, ok := fn.Body[0].(*pyast.Assign).Value.(*pyast.Comp)
	if !ok {
		t.Fatalf("value is %T, want *Comp", fn.Body[0].(*pyast.Assign).Value)
	}
	if comp.Kind != pyast.ListComp {
		t.Errorf("Kind = %v, want ListComp", comp.Kind)
	}
	if name, ok := comp.Elt.(*pyast.Name); !ok || name.ID != "x" {
		t.Errorf("Elt = %#v, want Name x", comp.Elt)
	}
	if len(comp.Generators) != 1 {
		t.Fatalf("got %d generators, want 1", len(comp.Generators))
	}
	gen := comp.Generators[0]
	if target, ok := gen.Target.(*pyast.Name); !ok || target.ID != "x" {
		t.Errorf("Target = %#v", gen.Target)
	}
	if iter, ok := gen.Iter.(*pyast.Name); !ok || iter.ID != "xs" {
		t.Errorf("Iter = %#v", gen.Iter)
	}
	if len(gen.Ifs) != 1 {
		t.Fatalf("got %d if clauses, want 1", len(gen.Ifs))
	}
	if _, ok := gen.Ifs[0].(*pyast.Call); !ok {
		t.Errorf("if condition = %#v, want *Call", gen.Ifs[0])
	}

	dict, ok := fn.Body[1].(*pyast.Assign).Value.(*pyast.Comp)
	if !ok {
		t.Fatalf("value is %T, want *Comp", fn.Body[1].(*pyast.Assign).Value)
	}
	if dict.Kind != pyast.DictComp {
		t.Errorf("Kind = %v, want DictComp", dict.Kind)
	}
	if key, ok := dict.Elt.(*pyast.Name); !ok || key.ID != "k" {
		t.Errorf("Elt = %#v, want Name k", dict.Elt)
	}
	if value, ok := dict.Value.(*pyast.Name); !ok || value.ID != "v" {
		t.Errorf("Value = %#v, want Name v", dict.Value)
	}
	if len(dict.Generators) != 1 || len(dict.Generators[0].Ifs) != 0 {
		t.Errorf("dict generators = %#v", dict.Generators)
	}
}

func TestParseFunction_StringEscapes(t *testing.T) {
	fn, err := pyparse.ParseFunction("def test_path():\n    p = \"C:\\\\data\\\\in.csv\"\n")
	if err != nil {
		t.Fatalf("ParseFunction: %v", err)
	}
	c := fn.Body[0].(*pyast.Assign).Value.(*pyast.Const)
	if c.Kind != pyast.ConstStr {
		t.Fatalf("value kind = %v, want string", c.Kind)
	}
	if c.Value != `C:\data\in.csv` {
		t.Errorf("string value = %q, want unescaped path", c.Value)
	}
}

func TestParseFunction_SyntaxError(t *testing.T) {
	if _, err := pyparse.ParseFunction("def test_broken(:\n    pass\n"); err == nil {
		t.Error("expected error for malformed source")
	}
}

const sampleModule = `import pytest

def helper():
    return 1

def test_module_level():
    assert helper() == 1

class TestAccounts:
    def test_in_class(self):
        assert True

    def helper_method(self):
        return 2

class Plain:
    def test_ignored_outside_test_class(self):
        assert True
`

func TestCollectSource_Discovery(t *testing.T) {
	c := pyparse.NewCollector()
	items, err := c.CollectSource([]byte(sampleModule), "test_accounts.py")
	if err != nil {
		t.Fatalf("CollectSource: %v", err)
	}

	if len(items) != 2 {
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.FullName()
		}
		t.Fatalf("collected %v, want 2 tests", names)
	}
	if items[0].FullName() != "test_module_level" {
		t.Errorf("first test = %s", items[0].FullName())
	}
	if items[1].FullName() != "TestAccounts::test_in_class" {
		t.Errorf("second test = %s", items[1].FullName())
	}
	if items[0].FilePath != "test_accounts.py" {
		t.Errorf("FilePath = %s", items[0].FilePath)
	}
	if items[0].Node == nil || items[0].Node.Name != "test_module_level" {
		t.Errorf("Node not populated: %#v", items[0].Node)
	}
}

func TestCollect_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_one.py", "def test_first_behavior():\n    assert True\n")
	writeFile(t, dir, "two_test.py", "def test_second_behavior():\n    assert True\n")
	writeFile(t, dir, "helpers.py", "def test_not_a_test_file():\n    assert True\n")
	sub := filepath.Join(dir, "__pycache__")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "test_cached.py", "def test_cached():\n    assert True\n")

	c := pyparse.NewCollector()
	items, err := c.Collect([]string{dir})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(items) != 2 {
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.Name
		}
		t.Fatalf("collected %v, want the two test files only", names)
	}
}

func TestCollect_SkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_good.py", "def test_valid_syntax():\n    assert True\n")
	writeFile(t, dir, "test_bad.py", "def test_broken(:\n")

	c := pyparse.NewCollector()
	items, err := c.Collect([]string{dir})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(items) != 1 || items[0].Name != "test_valid_syntax" {
		t.Fatalf("items = %v, want only the valid file's test", items)
	}
	if c.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", c.Skipped)
	}
}

func TestCollect_MissingPathFails(t *testing.T) {
	c := pyparse.NewCollector()
	if _, err := c.Collect([]string{filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Error("expected error for missing path")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
