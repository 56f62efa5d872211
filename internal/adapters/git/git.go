// Package git implements the git scheme adapter (§4.11): repository
// overview, commit history, and blame, backed by go-git/go-git/v5 rather
// than shelling out to the git binary.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "git" scheme.
type Adapter struct {
	engine *parserfrontend.Engine
}

func New(engine *parserfrontend.Engine) *Adapter {
	return &Adapter{engine: engine}
}

func (a *Adapter) Scheme() string     { return "git" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

// splitRef separates a trailing "@ref" from a repository path, e.g.
// "/repo@HEAD~3" -> ("/repo", "HEAD~3"). A bare "@" with nothing after
// it, or no "@" at all, leaves ref empty (meaning HEAD).
func splitRef(resource string) (path, ref string) {
	idx := strings.LastIndexByte(resource, '@')
	if idx < 0 {
		return resource, ""
	}
	return resource[:idx], resource[idx+1:]
}

// open resolves the repository containing path (path may be the
// repository root, a subdirectory, or — for blame — an individual
// tracked file) via upward .git discovery, and returns it alongside the
// original path and any "@ref" suffix.
func (a *Adapter) open(u *uri.URI) (*git.Repository, string, string, error) {
	path, ref := splitRef(u.Resource)
	discoverFrom := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		discoverFrom = filepath.Dir(path)
	}
	repo, err := git.PlainOpenWithOptions(discoverFrom, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", "", contract.NewError(contract.ErrResourceUnavailable, u.Raw, "not a git repository: "+path, err)
	}
	return repo, path, ref, nil
}

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	repo, path, ref, err := a.open(u)
	if err != nil {
		return nil, err
	}

	s := contract.NewStructure("git_repository", u.Raw, contract.SourceRemote)

	qtype, _ := u.Query.Get("type")
	switch qtype {
	case "history":
		if err := renderHistory(s, repo); err != nil {
			s.AddWarning("HistoryUnavailable", err.Error())
		}
	case "blame":
		detail, _ := u.Query.Get("detail")
		element, _ := u.Query.Get("element")
		if err := a.renderBlame(s, repo, path, ref, element, detail == "full"); err != nil {
			s.AddWarning("BlameUnavailable", err.Error())
		}
	default:
		renderOverview(s, repo)
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func renderOverview(s *contract.Structure, repo *git.Repository) {
	head, err := repo.Head()
	if err == nil {
		s.AddCategory("head", &contract.Element{
			Name:     head.Name().Short(),
			Category: "head",
			Attributes: map[string]any{
				"hash": head.Hash().String(),
			},
		})
	}

	if branches, err := repo.Branches(); err == nil {
		branches.ForEach(func(ref *plumbing.Reference) error {
			s.AddCategory("branches", &contract.Element{
				Name:       ref.Name().Short(),
				Category:   "branches",
				Attributes: map[string]any{"hash": ref.Hash().String()},
			})
			return nil
		})
	}

	if tags, err := repo.Tags(); err == nil {
		tags.ForEach(func(ref *plumbing.Reference) error {
			s.AddCategory("tags", &contract.Element{
				Name:       ref.Name().Short(),
				Category:   "tags",
				Attributes: map[string]any{"hash": ref.Hash().String()},
			})
			return nil
		})
	}

	if head, err := repo.Head(); err == nil {
		commitIter, err := repo.Log(&git.LogOptions{From: head.Hash()})
		if err == nil {
			n := 0
			commitIter.ForEach(func(c *object.Commit) error {
				if n >= 20 {
					return fmt.Errorf("stop")
				}
				n++
				s.AddCategory("commits", &contract.Element{
					Name:     c.Hash.String()[:8],
					Category: "commits",
					Attributes: map[string]any{
						"author":  c.Author.Name,
						"message": firstLine(c.Message),
						"date":    c.Author.When.Format("2006-01-02T15:04:05Z07:00"),
					},
				})
				return nil
			})
		}
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			for file, st := range status {
				s.AddCategory("status", &contract.Element{
					Name:     file,
					Category: "status",
					Attributes: map[string]any{
						"staged":   string(st.Staging),
						"unstaged": string(st.Worktree),
					},
				})
			}
		}
	}
}

func renderHistory(s *contract.Structure, repo *git.Repository) error {
	head, err := repo.Head()
	if err != nil {
		return err
	}
	commitIter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return err
	}
	byFile := map[string][]*contract.Element{}
	n := 0
	commitIter.ForEach(func(c *object.Commit) error {
		if n >= 200 {
			return fmt.Errorf("stop")
		}
		n++
		files, err := c.Stats()
		if err != nil {
			return nil
		}
		for _, fs := range files {
			byFile[fs.Name] = append(byFile[fs.Name], &contract.Element{
				Name:     c.Hash.String()[:8],
				Category: fs.Name,
				Attributes: map[string]any{
					"message":   firstLine(c.Message),
					"additions": float64(fs.Addition),
					"deletions": float64(fs.Deletion),
				},
			})
		}
		return nil
	})
	for file, commits := range byFile {
		s.AddCategory("history", &contract.Element{
			Name:     file,
			Category: "history",
			Attributes: map[string]any{
				"commit_count": float64(len(commits)),
			},
			Children: commits,
		})
	}
	return nil
}

// renderBlame blames the file at path (a path to a tracked file, given
// as Resource) against ref (or HEAD). When element names a function or
// class within that file, the Parser Frontend resolves its line span
// and only those blame hunks are reported; otherwise blame covers the
// whole file, capped to 50 lines unless detail=full was requested.
func (a *Adapter) renderBlame(s *contract.Structure, repo *git.Repository, path, ref, element string, full bool) error {
	var hash plumbing.Hash
	if ref == "" {
		head, err := repo.Head()
		if err != nil {
			return err
		}
		hash = head.Hash()
	} else {
		h, err := repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return err
		}
		hash = *h
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return err
	}

	_, relPath, err := repoRelativePath(repo, path)
	if err != nil {
		return err
	}

	result, err := git.Blame(commit, relPath)
	if err != nil {
		return err
	}

	lines := result.Lines
	lineStart := 1
	if element != "" {
		if span, ok := a.resolveElementSpan(path, element); ok {
			if span.LineStart >= 1 && span.LineEnd <= len(lines) {
				lines = lines[span.LineStart-1 : span.LineEnd]
				lineStart = span.LineStart
			}
		} else {
			s.AddWarning("NoSuchElement", "element "+element+" not found in "+path+"; showing whole-file blame")
		}
	}
	if element == "" && !full && len(lines) > 50 {
		lines = lines[:50]
	}

	for i, line := range lines {
		lineNo := lineStart + i
		s.AddCategory("blame", &contract.Element{
			Name:      strconv.Itoa(lineNo),
			Category:  "blame",
			LineStart: lineNo,
			LineEnd:   lineNo,
			Attributes: map[string]any{
				"author": line.Author,
				"hash":   line.Hash.String(),
				"text":   line.Text,
			},
		})
	}
	return nil
}

// repoRelativePath returns the repository's worktree root and path
// expressed relative to it, since go-git's Blame wants a repo-relative
// path rather than an absolute or cwd-relative one.
func repoRelativePath(repo *git.Repository, path string) (root, rel string, err error) {
	wt, err := repo.Worktree()
	if err != nil {
		return "", "", err
	}
	root = wt.Filesystem.Root()
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	rel, err = filepath.Rel(root, abs)
	if err != nil {
		return "", "", err
	}
	return root, filepath.ToSlash(rel), nil
}

// resolveElementSpan parses path through the Parser Frontend and
// resolves element by name, returning its line span.
func (a *Adapter) resolveElementSpan(path, element string) (*contract.Element, bool) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	provider, ok := a.engine.Resolve(path, "", parserfrontend.FirstLineOf(source))
	if !ok {
		return nil, false
	}
	result, err := parserfrontend.Parse(context.Background(), provider, path, source)
	if err != nil {
		return nil, false
	}
	el, err := adapter.ResolveElement(result.Structure, path, uri.ParseElementRef(element))
	if err != nil {
		return nil, false
	}
	return el, true
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(s, u.Raw, ref)
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:      "git",
		Summary:     "Repository overview, commit history, and blame via go-git",
		Categories:  []string{"head", "branches", "tags", "commits", "status", "history", "blame"},
		Examples:    []string{"git:///path/to/repo", "git:///path/to/repo?type=history", "git:///path/to/repo/main.go?type=blame&element=main"},
		QueryFields: []string{"type", "detail", "element"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "author", Type: "string"},
		{Name: "message", Type: "string"},
	}}
}
