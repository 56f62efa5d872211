package env

import (
	"context"
	"testing"

	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/uri"
)

func TestGetStructureRedactsSecretShapedValues(t *testing.T) {
	t.Setenv("REVEAL_TEST_API_KEY", "super-secret")
	t.Setenv("REVEAL_TEST_PLAIN", "visible")

	a := New()
	u, err := uri.Parse("env://")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}

	found := map[string]*contract.Element{}
	for _, el := range s.Categories["variables"] {
		found[el.Name] = el
	}

	secret := found["REVEAL_TEST_API_KEY"]
	if secret == nil || !secret.Attributes["redacted"].(bool) || secret.Attributes["value"].(string) != "<redacted>" {
		t.Fatalf("expected REVEAL_TEST_API_KEY to be redacted, got %+v", secret)
	}

	plain := found["REVEAL_TEST_PLAIN"]
	if plain == nil || plain.Attributes["redacted"].(bool) || plain.Attributes["value"].(string) != "visible" {
		t.Fatalf("expected REVEAL_TEST_PLAIN to stay visible, got %+v", plain)
	}
}

func TestGetStructureFiltersToSingleVariable(t *testing.T) {
	t.Setenv("REVEAL_TEST_ONE", "a")
	t.Setenv("REVEAL_TEST_TWO", "b")

	a := New()
	u, err := uri.Parse("env://REVEAL_TEST_ONE")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	vars := s.Categories["variables"]
	if len(vars) != 1 || vars[0].Name != "REVEAL_TEST_ONE" {
		t.Fatalf("expected exactly REVEAL_TEST_ONE, got %+v", vars)
	}
}
