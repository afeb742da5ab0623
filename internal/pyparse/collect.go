package pyparse

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/review"
)

// Collector discovers and parses pytest test functions. It is not
// safe for concurrent use; the underlying parser is stateful.
type Collector struct {
	parser *sitter.Parser

	// Skipped counts files dropped because they could not be
	// parsed. Exposed for diagnostics; skipped files simply do not
	// contribute tests.
	Skipped int
}

// NewCollector returns a collector with the Python grammar loaded.
func NewCollector() *Collector {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Collector{parser: p}
}

// isTestFile reports whether a path follows pytest's file naming
// conventions (test_*.py or *_test.py).
func isTestFile(path string) bool {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".py") {
		return false
	}
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
}

// Collect walks the given paths (files or directories) and returns
// one TestItem per discovered test function. Files that fail to
// parse are skipped, not reported: they are simply absent from
// analysis.
func (c *Collector) Collect(paths []string) ([]review.TestItem, error) {
	var items []review.TestItem
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			items = append(items, c.collectFile(path)...)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Hidden directories and virtualenvs are not test
				// trees.
				name := d.Name()
				if p != path && (strings.HasPrefix(name, ".") || name == "__pycache__" || name == "venv") {
					return fs.SkipDir
				}
				return nil
			}
			if isTestFile(p) {
				items = append(items, c.collectFile(p)...)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}
	return items, nil
}

// collectFile parses one file and extracts its test functions. A
// file that cannot be read or parsed contributes nothing.
func (c *Collector) collectFile(path string) []review.TestItem {
	src, err := os.ReadFile(path)
	if err != nil {
		c.Skipped++
		return nil
	}
	items, err := c.CollectSource(src, path)
	if err != nil {
		c.Skipped++
		return nil
	}
	return items
}

// CollectSource extracts test functions from in-memory source. The
// path is recorded on the resulting items but not read.
func (c *Collector) CollectSource(src []byte, path string) ([]review.TestItem, error) {
	tree, err := c.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax errors in %s", path)
	}

	conv := &converter{src: src}
	var items []review.TestItem
	c.walkDefs(root, src, path, "", conv, &items)
	return items, nil
}

// walkDefs recursively finds test function definitions: module
// functions named test_* and methods of Test* classes.
func (c *Collector) walkDefs(node *sitter.Node, src []byte, path, className string, conv *converter, items *[]review.TestItem) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		kid := node.NamedChild(i)
		switch kid.Type() {
		case "function_definition":
			c.addTest(kid, nil, src, path, className, conv, items)

		case "decorated_definition":
			def := kid.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			decorators := c.decorators(kid)
			switch def.Type() {
			case "function_definition":
				c.addTest(def, decorators, src, path, className, conv, items)
			case "class_definition":
				c.walkClass(def, src, path, conv, items)
			}

		case "class_definition":
			c.walkClass(kid, src, path, conv, items)
		}
	}
}

func (c *Collector) walkClass(node *sitter.Node, src []byte, path string, conv *converter, items *[]review.TestItem) {
	name := conv.text(node.ChildByFieldName("name"))
	if !strings.HasPrefix(name, "Test") {
		return
	}
	if body := node.ChildByFieldName("body"); body != nil {
		c.walkDefs(body, src, path, name, conv, items)
	}
}

func (c *Collector) decorators(decorated *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		kid := decorated.NamedChild(i)
		if kid.Type() == "decorator" {
			out = append(out, kid)
		}
	}
	return out
}

func (c *Collector) addTest(def *sitter.Node, decorators []*sitter.Node, src []byte, path, className string, conv *converter, items *[]review.TestItem) {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := conv.text(nameNode)
	if !strings.HasPrefix(name, "test") {
		return
	}

	fn := conv.funcDef(def, decorators)
	start := def.StartByte()
	if len(decorators) > 0 {
		start = decorators[0].StartByte()
	}

	*items = append(*items, review.TestItem{
		Name:      name,
		FilePath:  path,
		Line:      fn.Line,
		Node:      fn,
		Source:    string(src[start:def.EndByte()]),
		ClassName: className,
	})
}

// funcDef converts a function_definition node plus any decorator
// nodes gathered from an enclosing decorated_definition.
func (c *converter) funcDef(def *sitter.Node, decorators []*sitter.Node) *pyast.FuncDef {
	fn := &pyast.FuncDef{
		StmtBase: pyast.At(c.line(def)),
		Name:     c.text(def.ChildByFieldName("name")),
		Body:     c.block(def.ChildByFieldName("body")),
	}
	for _, d := range decorators {
		// The decorator expression is the node after '@'.
		if d.NamedChildCount() > 0 {
			fn.Decorators = append(fn.Decorators, c.expr(d.NamedChild(0)))
		}
	}
	return fn
}

// ParseFunction parses a snippet containing a single (possibly
// decorated) function definition and returns its tree. Intended
// for tests and tooling.
func ParseFunction(src string) (*pyast.FuncDef, error) {
	c := NewCollector()
	tree, err := c.parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax error in snippet")
	}

	conv := &converter{src: []byte(src)}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		kid := root.NamedChild(i)
		switch kid.Type() {
		case "function_definition":
			return conv.funcDef(kid, nil), nil
		case "decorated_definition":
			def := kid.ChildByFieldName("definition")
			if def != nil && def.Type() == "function_definition" {
				return conv.funcDef(def, c.decorators(kid)), nil
			}
		}
	}
	return nil, fmt.Errorf("no function definition in snippet")
}
