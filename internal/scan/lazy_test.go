package scan

import (
	"context"
	"os"
	"testing"
)

func lazyFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	mkdirAll(t, join(root, "a"))
	mkdirAll(t, join(root, "b"))
	writeFileOfSize(t, join(root, "a", "f.txt"), 4)
	writeFileOfSize(t, join(root, "top.txt"), 2)

	return root
}

func TestLazyTreeInitialDepth(t *testing.T) {
	root := lazyFixture(t)

	node, err := LazyTree(context.Background(), root, DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node == nil || !node.Loaded {
		t.Fatalf("root not loaded: %+v", node)
	}

	if len(node.Children) != 3 {
		t.Fatalf("root has %d children, want 3", len(node.Children))
	}

	for _, child := range node.Children {
		switch child.Kind {
		case KindDir:
			if child.Loaded {
				t.Errorf("boundary directory %s is loaded", child.Name)
			}

			if len(child.Children) != 0 {
				t.Errorf("boundary directory %s has materialized children", child.Name)
			}

			if child.HasChildren != ChildrenUnknown {
				t.Errorf("%s has_children = %v, want unknown without precheck", child.Name, child.HasChildren)
			}
		default:
			if !child.Loaded {
				t.Errorf("non-directory %s not loaded", child.Name)
			}
		}
	}
}

func TestLazyTreePrecheck(t *testing.T) {
	root := lazyFixture(t)

	opts := DefaultOptions()
	opts.PrecheckChildren = true

	node, err := LazyTree(context.Background(), root, opts, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byName := map[string]*LazyNode{}
	for _, child := range node.Children {
		byName[child.Name] = child
	}

	a, b := byName["a"], byName["b"]
	if a == nil || b == nil {
		t.Fatalf("missing children: %+v", node.Children)
	}

	if a.Loaded || b.Loaded {
		t.Fatal("precheck must not load boundary directories")
	}

	if a.HasChildren != ChildrenPresent {
		t.Errorf("a has_children = %v, want present", a.HasChildren)
	}

	if b.HasChildren != ChildrenAbsent {
		t.Errorf("b has_children = %v, want absent", b.HasChildren)
	}
}

func TestLazyExpand(t *testing.T) {
	root := lazyFixture(t)

	node, err := LazyTree(context.Background(), root, DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var a, b *LazyNode

	for _, child := range node.Children {
		switch child.Name {
		case "a":
			a = child
		case "b":
			b = child
		}
	}

	if err := a.Expand(context.Background(), DefaultOptions()); err != nil {
		t.Fatalf("expand: %v", err)
	}

	if !a.Loaded || a.HasChildren != ChildrenPresent {
		t.Fatalf("a not loaded after expand: %+v", a)
	}

	if len(a.Children) != 1 || a.Children[0].Name != "f.txt" {
		t.Fatalf("a children = %+v, want [f.txt]", a.Children)
	}

	if got, want := a.Children[0].Depth, a.Depth+1; got != want {
		t.Errorf("expanded child depth = %d, want %d", got, want)
	}

	// Siblings are untouched.
	if b.Loaded {
		t.Error("sibling b became loaded")
	}
}

func TestLazyExpandIdempotent(t *testing.T) {
	root := lazyFixture(t)

	node, err := LazyTree(context.Background(), root, DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var a *LazyNode

	for _, child := range node.Children {
		if child.Name == "a" {
			a = child
		}
	}

	if err := a.Expand(context.Background(), DefaultOptions()); err != nil {
		t.Fatalf("expand: %v", err)
	}

	first := a.Children

	if err := a.Expand(context.Background(), DefaultOptions()); err != nil {
		t.Fatalf("re-expand: %v", err)
	}

	if len(a.Children) != len(first) || (len(first) > 0 && a.Children[0] != first[0]) {
		t.Fatal("re-expanding a loaded node rebuilt its children")
	}

	// Expanding a file is a no-op.
	file := a.Children[0]
	if err := file.Expand(context.Background(), DefaultOptions()); err != nil {
		t.Fatalf("expand file: %v", err)
	}

	if len(file.Children) != 0 {
		t.Errorf("file gained children: %+v", file.Children)
	}
}

func TestLazyTreeInitialDepthZero(t *testing.T) {
	root := lazyFixture(t)

	node, err := LazyTree(context.Background(), root, DefaultOptions(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if node.Loaded || len(node.Children) != 0 {
		t.Fatalf("root should be unloaded at initial depth 0: %+v", node)
	}

	if err := node.Expand(context.Background(), DefaultOptions()); err != nil {
		t.Fatalf("expand root: %v", err)
	}

	if !node.Loaded || len(node.Children) != 3 {
		t.Fatalf("root after expand: loaded=%v children=%d, want 3", node.Loaded, len(node.Children))
	}
}

func TestLazyExpandFailureLeavesUnloaded(t *testing.T) {
	root := lazyFixture(t)

	node, err := LazyTree(context.Background(), root, DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var a *LazyNode

	for _, child := range node.Children {
		if child.Name == "a" {
			a = child
		}
	}

	if err := os.RemoveAll(a.Path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := a.Expand(context.Background(), DefaultOptions()); err == nil {
		t.Fatal("expected expand of removed directory to fail")
	}

	if a.Loaded {
		t.Fatal("failed expand marked node loaded; retry is impossible")
	}
}

func TestLazyTreeNegativeInitialDepth(t *testing.T) {
	if _, err := LazyTree(context.Background(), t.TempDir(), DefaultOptions(), -1); err == nil {
		t.Fatal("expected error for negative initial depth")
	}
}
