package scan

import (
	"context"
	"errors"
	"math/big"
	"testing"
)

func accelFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	mkdirAll(t, join(root, "src", "pkg"))
	mkdirAll(t, join(root, "docs"))
	writeFileOfSize(t, join(root, "src", "main.go"), 120)
	writeFileOfSize(t, join(root, "src", "pkg", "lib.go"), 340)
	writeFileOfSize(t, join(root, "docs", "readme.md"), 56)
	writeFileOfSize(t, join(root, ".hidden"), 9)
	symlink(t, join(root, "docs", "readme.md"), join(root, "docs", "latest"))
	hardlink(t, join(root, "src", "main.go"), join(root, "src", "main_alias.go"))

	return root
}

func TestFastWalkerMatchesPortable(t *testing.T) {
	root := accelFixture(t)

	variants := []Options{
		DefaultOptions(),
		func() Options { o := DefaultOptions(); o.IncludeHidden = false; return o }(),
		func() Options { o := DefaultOptions(); o.DedupHardlinks = false; return o }(),
		func() Options { o := DefaultOptions(); o.IncludeLinkSize = false; return o }(),
		func() Options { o := DefaultOptions(); o.MaxDepth = 1; return o }(),
		func() Options { o := DefaultOptions(); o.Excludes = []string{`.*docs.*`}; return o }(),
	}

	fw := &FastWalker{}

	for i, opts := range variants {
		portable, err := Size(context.Background(), root, opts)
		if err != nil {
			t.Fatalf("variant %d portable: %v", i, err)
		}

		accelerated, err := fw.Aggregate(context.Background(), root, opts)
		if err != nil {
			t.Fatalf("variant %d accelerated: %v", i, err)
		}

		if accelerated.Bytes.Cmp(portable.Bytes) != 0 ||
			accelerated.Files != portable.Files ||
			accelerated.Dirs != portable.Dirs ||
			accelerated.Links != portable.Links {
			t.Errorf("variant %d mismatch: accelerated %+v, portable %+v", i, accelerated, portable)
		}
	}
}

// failingAccelerator always errors, forcing the portable fallback.
type failingAccelerator struct{ calls int }

func (f *failingAccelerator) Aggregate(context.Context, string, Options) (*Result, error) {
	f.calls++

	return nil, errors.New("backend unavailable")
}

func TestSizeFallsBackOnAcceleratorFailure(t *testing.T) {
	root := t.TempDir()
	writeFileOfSize(t, join(root, "f"), 42)

	fa := &failingAccelerator{}

	opts := DefaultOptions()
	opts.Accelerator = fa

	res, err := Size(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fa.calls != 1 {
		t.Errorf("accelerator called %d times, want 1", fa.calls)
	}

	if res.Files != 1 || res.Bytes.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("fallback result = %+v, want 1 file of 42 bytes", res)
	}
}

func TestSizeUsesAcceleratorResult(t *testing.T) {
	root := t.TempDir()
	writeFileOfSize(t, join(root, "f"), 7)

	opts := DefaultOptions()
	opts.Accelerator = &FastWalker{}

	res, err := Size(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Files != 1 || res.Bytes.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("result = %+v, want 1 file of 7 bytes", res)
	}
}
