package mermaid

import (
	"errors"
	"testing"
)

type stubConverter struct{ dialect DiagramType }

func (s stubConverter) Dialect() DiagramType { return s.dialect }
func (s stubConverter) Convert(src string, opts Options) (string, error) {
	return src, nil
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(stubConverter{dialect: TypeFlow}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := reg.Register(stubConverter{dialect: TypeFlow})
	if !errors.Is(err, ErrConverterExists) {
		t.Fatalf("duplicate Register err = %v, want ErrConverterExists", err)
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("Register(nil) succeeded")
	}
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry()
	for _, d := range []DiagramType{TypeSequence, TypeFlow, DiagramType("class")} {
		if err := reg.Register(stubConverter{dialect: d}); err != nil {
			t.Fatalf("Register(%s): %v", d, err)
		}
	}
	got := reg.List()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("List not sorted: %v", got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("List = %v, want 3 dialects", got)
	}
}

func TestRegistryConverterFor(t *testing.T) {
	conv := DefaultRegistry.converterFor(TypeSequence)
	if conv.Dialect() != TypeSequence {
		t.Fatalf("converterFor(sequence) resolved %s", conv.Dialect())
	}
	// Unknown dialects route to the flow converter.
	conv = DefaultRegistry.converterFor(TypeOther)
	if conv.Dialect() != TypeFlow {
		t.Fatalf("converterFor(other) resolved %s", conv.Dialect())
	}
}

func TestDefaultRegistryContents(t *testing.T) {
	for _, d := range []DiagramType{TypeFlow, TypeSequence} {
		if _, ok := DefaultRegistry.Lookup(d); !ok {
			t.Errorf("DefaultRegistry missing %s converter", d)
		}
	}
}
