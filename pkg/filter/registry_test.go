package filter_test

import (
	"testing"

	"github.com/yaklabco/bookpress/pkg/doctree"
	"github.com/yaklabco/bookpress/pkg/filter"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := filter.NewRegistry()
	stub := newStub("alpha", doctree.NodeText)
	registry.Register(stub)

	got, ok := registry.Get("alpha")
	if !ok {
		t.Fatal("filter not found")
	}
	if got.Name() != "alpha" {
		t.Errorf("Name = %q, want alpha", got.Name())
	}

	if _, ok := registry.Get("missing"); ok {
		t.Error("expected missing filter to be absent")
	}
}

func TestRegistry_OrderIsRegistrationOrder(t *testing.T) {
	t.Parallel()

	registry := filter.NewRegistry()
	registry.Register(newStub("c", doctree.NodeText))
	registry.Register(newStub("a", doctree.NodeText))
	registry.Register(newStub("b", doctree.NodeText))

	want := []string{"c", "a", "b"}
	got := registry.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_ReregisterKeepsPosition(t *testing.T) {
	t.Parallel()

	registry := filter.NewRegistry()
	registry.Register(newStub("a", doctree.NodeText))
	registry.Register(newStub("b", doctree.NodeText))

	// Replacing a keeps its slot at the front.
	replacement := newStub("a", doctree.NodeCodeBlock)
	registry.Register(replacement)

	names := registry.Names()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("Names = %v, want [a b]", names)
	}

	got, _ := registry.Get("a")
	if got.Kinds()[0] != doctree.NodeCodeBlock {
		t.Error("replacement filter not stored")
	}
}

func TestRegistry_ForKind(t *testing.T) {
	t.Parallel()

	registry := filter.NewRegistry()
	registry.Register(newStub("text-only", doctree.NodeText))
	registry.Register(newStub("multi", doctree.NodeText, doctree.NodeCodeBlock))
	registry.Register(newStub("code-only", doctree.NodeCodeBlock))

	textFilters := registry.ForKind(doctree.NodeText)
	if len(textFilters) != 2 {
		t.Fatalf("ForKind(Text) = %d filters, want 2", len(textFilters))
	}
	if textFilters[0].Name() != "text-only" || textFilters[1].Name() != "multi" {
		t.Errorf("ForKind order = [%s %s], want [text-only multi]",
			textFilters[0].Name(), textFilters[1].Name())
	}

	if got := registry.ForKind(doctree.NodeHeading); len(got) != 0 {
		t.Errorf("ForKind(Heading) = %d filters, want 0", len(got))
	}
}

func TestRegistry_Filters(t *testing.T) {
	t.Parallel()

	registry := filter.NewRegistry()
	registry.Register(newStub("one", doctree.NodeText))
	registry.Register(newStub("two", doctree.NodeText))

	all := registry.Filters()
	if len(all) != 2 {
		t.Fatalf("Filters = %d, want 2", len(all))
	}
	if all[0].Name() != "one" || all[1].Name() != "two" {
		t.Error("Filters not in registration order")
	}
}
