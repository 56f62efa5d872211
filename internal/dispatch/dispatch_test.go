package dispatch

import (
	"context"
	"testing"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/uri"
)

// stubAdapter is a minimal adapter.Adapter for exercising the
// Dispatcher without any real filesystem or network access.
type stubAdapter struct{}

func (stubAdapter) Scheme() string     { return "stub" }
func (stubAdapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (stubAdapter) GetStructure(_ context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	s := contract.NewStructure("stub", u.Raw, contract.SourceFile)
	s.AddCategory("things", &contract.Element{Name: "one", Category: "things", Ordinal: 1, LineStart: 1, LineEnd: 1})
	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func (s stubAdapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	st, err := s.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(st, u.Raw, ref)
}

func (stubAdapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{Scheme: "stub", Summary: "test double"}
}

func (stubAdapter) Schema() adapter.Schema { return adapter.Schema{} }

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	reg := registry.NewAdapterRegistry()
	if err := reg.Register(stubAdapter{}); err != nil {
		t.Fatal(err)
	}
	return New(reg)
}

func TestDispatchResolvesResourceStructure(t *testing.T) {
	d := newTestDispatcher(t)
	s, err := d.Dispatch(context.Background(), Request{Resource: "stub://whatever"})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Categories["things"]) != 1 {
		t.Fatalf("expected 1 element, got %+v", s.Categories)
	}
}

func TestDispatchResolvesSingleElement(t *testing.T) {
	d := newTestDispatcher(t)
	s, err := d.Dispatch(context.Background(), Request{Resource: "stub://whatever", Element: "one"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Count() != 1 {
		t.Fatalf("expected exactly 1 element in wrapped structure, got %d", s.Count())
	}
}

func TestDispatchUnknownSchemeSuggestsNearest(t *testing.T) {
	d := newTestDispatcher(t)
	_, err := d.Dispatch(context.Background(), Request{Resource: "stud://whatever"})
	if err == nil {
		t.Fatal("expected error for unregistered scheme")
	}
	ce, ok := err.(contract.Error)
	if !ok {
		t.Fatalf("expected contract.Error, got %T", err)
	}
	if ce.Suggestion != "stub" {
		t.Fatalf("expected suggestion 'stub', got %q", ce.Suggestion)
	}
}

func TestDispatchFlagsConfigurationConflict(t *testing.T) {
	d := newTestDispatcher(t)
	s, err := d.Dispatch(context.Background(), Request{
		Resource:       "stub://whatever?limit=5",
		QueryOverrides: map[string]string{"limit": "1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range s.Warnings {
		if w.Code == string(contract.ErrConfigurationConflict) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a ConfigurationConflict warning, got %+v", s.Warnings)
	}
}
