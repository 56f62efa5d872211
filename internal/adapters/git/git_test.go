package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/uri"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("main.go"); err != nil {
		t.Fatal(err)
	}
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestGetStructureOverviewReportsHead(t *testing.T) {
	dir := initRepo(t)
	a := New(parserfrontend.NewEngine([]parserfrontend.Provider{parserfrontend.GoProvider{}}))
	u, err := uri.Parse("git://" + dir)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Categories["head"]) != 1 {
		t.Fatalf("expected one head entry, got %+v", s.Categories["head"])
	}
	if len(s.Categories["commits"]) != 1 {
		t.Fatalf("expected one commit, got %+v", s.Categories["commits"])
	}
}

func TestHistoryGroupsCommitsByFile(t *testing.T) {
	dir := initRepo(t)
	a := New(parserfrontend.NewEngine([]parserfrontend.Provider{parserfrontend.GoProvider{}}))
	u, err := uri.Parse("git://" + dir + "?type=history")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, el := range s.Categories["history"] {
		if el.Name == "main.go" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected main.go in history, got %+v", s.Categories["history"])
	}
}
