package domain

import (
	"context"
	"testing"
	"time"

	"github.com/termfx/reveal/internal/uri"
)

func TestGetStructureWarnsOnUnknownRecordType(t *testing.T) {
	a := New("127.0.0.1:1") // nothing listens here; queries will fail fast
	u, err := uri.Parse("domain://example.com?types=A,BOGUS")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		t.Fatal(err)
	}
	foundUnknown := false
	for _, w := range s.Warnings {
		if w.Code == "UnknownRecordType" {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Fatalf("expected an UnknownRecordType warning, got %+v", s.Warnings)
	}
}
