// Package stats implements the stats scheme adapter (§4.9): aggregate
// source-tree metrics and a weighted quality score, with an optional
// `?hotspots=true` ranking augmented by git churn and import fan-in when
// those are available — never required.
package stats

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/filter"
	"github.com/termfx/reveal/internal/imports"
	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// errStopIteration is a sentinel returned from a go-git ForEach callback
// to stop walking commit history early once a sample cap is reached.
var errStopIteration = errors.New("stats: stop iteration")

// Adapter implements adapter.Adapter for the "stats" scheme.
type Adapter struct {
	engine *parserfrontend.Engine
}

func New(engine *parserfrontend.Engine) *Adapter {
	return &Adapter{engine: engine}
}

func (a *Adapter) Scheme() string     { return "stats" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

// fileMetric holds the per-file numbers the aggregate Structure and the
// hotspot ranking are both built from.
type fileMetric struct {
	path          string
	lines         int
	functions     int
	classes       int
	totalComplex  int
	maxComplex    int
	longFunctions int
	maxDepth      int
}

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	root := u.Resource
	if _, err := os.Stat(root); err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot stat "+root, err)
	}

	metrics, err := a.collect(root)
	if err != nil {
		return nil, err
	}

	s := contract.NewStructure("stats", u.Raw, contract.SourceComposite)

	if u.Query.Has("hotspots") {
		renderHotspots(s, root, a.engine, metrics)
	} else {
		renderAggregate(s, metrics)
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

// collect walks root (pruned by the Filter Layer) and computes per-file
// metrics for every file the Parser Frontend recognizes.
func (a *Adapter) collect(root string) ([]fileMetric, error) {
	f := filter.New(filter.Options{Root: root})
	var metrics []fileMetric

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if path != root && f.ShouldSkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ShouldSkipFile(rel) {
			return nil
		}
		source, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		provider, ok := a.engine.Resolve(path, "", parserfrontend.FirstLineOf(source))
		if !ok {
			return nil
		}
		result, parseErr := parserfrontend.Parse(context.Background(), provider, path, source)
		if parseErr != nil {
			return nil
		}

		m := fileMetric{path: rel, lines: countLines(source)}
		for _, cat := range result.Structure.CategoryOrder {
			for _, el := range result.Structure.Categories[cat] {
				switch cat {
				case "functions":
					m.functions++
				case "classes", "types":
					m.classes++
				}
				m.totalComplex += el.Complexity
				if el.Complexity > m.maxComplex {
					m.maxComplex = el.Complexity
				}
				if el.LineCount > 40 {
					m.longFunctions++
				}
				if el.Depth > m.maxDepth {
					m.maxDepth = el.Depth
				}
			}
		}
		metrics = append(metrics, m)
		return nil
	})
	return metrics, err
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := bytes.Count(source, []byte("\n"))
	if source[len(source)-1] != '\n' {
		n++
	}
	return n
}

func renderAggregate(s *contract.Structure, metrics []fileMetric) {
	var totalLines, totalFuncs, totalClasses, totalComplexSum, elementCount int
	var complexities []int
	for _, m := range metrics {
		totalLines += m.lines
		totalFuncs += m.functions
		totalClasses += m.classes
		totalComplexSum += m.totalComplex
		elementCount += m.functions + m.classes
		if m.functions+m.classes > 0 {
			complexities = append(complexities, m.maxComplex)
		}
	}

	avgComplexity := 0.0
	if elementCount > 0 {
		avgComplexity = float64(totalComplexSum) / float64(elementCount)
	}

	score := qualityScore(metrics, avgComplexity)

	s.AddCategory("summary", &contract.Element{
		Name:     "summary",
		Category: "summary",
		Attributes: map[string]any{
			"file_count":       float64(len(metrics)),
			"total_lines":      float64(totalLines),
			"function_count":   float64(totalFuncs),
			"class_count":      float64(totalClasses),
			"avg_complexity":   avgComplexity,
			"quality_score":    score,
		},
	})

	for _, m := range metrics {
		s.AddCategory("files", &contract.Element{
			Name:     m.path,
			Category: "files",
			Attributes: map[string]any{
				"lines":          float64(m.lines),
				"functions":      float64(m.functions),
				"classes":        float64(m.classes),
				"max_complexity": float64(m.maxComplex),
				"max_depth":      float64(m.maxDepth),
			},
		})
	}
}

// qualityScore derives a [0,100] score from a weighted combination of
// average complexity, worst-decile complexity, long-function count, and
// average nesting depth — a penalty of 2.5, 1.5, 3 and 4 points per unit
// respectively, subtracted from 100 and clamped to [0,100].
func qualityScore(metrics []fileMetric, avgComplexity float64) float64 {
	if len(metrics) == 0 {
		return 100
	}
	var maxes []int
	var longFns, maxDepthSum int
	for _, m := range metrics {
		maxes = append(maxes, m.maxComplex)
		longFns += m.longFunctions
		maxDepthSum += m.maxDepth
	}
	sort.Ints(maxes)
	worstDecileIdx := int(float64(len(maxes)) * 0.9)
	if worstDecileIdx >= len(maxes) {
		worstDecileIdx = len(maxes) - 1
	}
	worstDecile := float64(maxes[worstDecileIdx])
	avgDepth := float64(maxDepthSum) / float64(len(metrics))

	penalty := avgComplexity*2.5 + worstDecile*1.5 + float64(longFns)*3 + avgDepth*4
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// renderHotspots ranks files worst-first by a combination of complexity
// signals, augmented with git churn (commit count touching the file)
// and import fan-in when those are computable. Both augmentations are
// best-effort: their absence only shortens a hotspot's "reasons" list.
func renderHotspots(s *contract.Structure, root string, engine *parserfrontend.Engine, metrics []fileMetric) {
	churn := churnByFile(root)
	fanIn := fanInByFile(root, engine)

	type scored struct {
		m       fileMetric
		score   float64
		reasons []string
	}
	var scoredFiles []scored
	for _, m := range metrics {
		var reasons []string
		sc := float64(m.maxComplex)*2 + float64(m.longFunctions)*3 + float64(m.maxDepth)
		if m.maxComplex > 10 {
			reasons = append(reasons, "high complexity")
		}
		if m.longFunctions > 0 {
			reasons = append(reasons, "long functions")
		}
		if c, ok := churn[m.path]; ok {
			sc += float64(c)
			reasons = append(reasons, "high churn")
		}
		if fi, ok := fanIn[m.path]; ok {
			sc += float64(fi)
			if fi > 3 {
				reasons = append(reasons, "high fan-in")
			}
		}
		scoredFiles = append(scoredFiles, scored{m: m, score: sc, reasons: reasons})
	}
	sort.Slice(scoredFiles, func(i, j int) bool { return scoredFiles[i].score > scoredFiles[j].score })

	for i, sf := range scoredFiles {
		el := &contract.Element{
			Name:     sf.m.path,
			Category: "hotspots",
			Ordinal:  i + 1,
			Attributes: map[string]any{
				"score":          sf.score,
				"max_complexity": float64(sf.m.maxComplex),
				"reasons":        sf.reasons,
			},
		}
		if c, ok := churn[sf.m.path]; ok {
			el.Attributes["churn"] = float64(c)
		}
		if fi, ok := fanIn[sf.m.path]; ok {
			el.Attributes["fan_in"] = float64(fi)
		}
		s.AddCategory("hotspots", el)
	}
}

// churnByFile counts commits touching each file via the git Adapter's
// underlying library, returning an empty map (not an error) when root
// isn't inside a git work tree.
func churnByFile(root string) map[string]int {
	out := map[string]int{}
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return out
	}
	head, err := repo.Head()
	if err != nil {
		return out
	}
	commitIter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return out
	}
	n := 0
	commitIter.ForEach(func(c *object.Commit) error {
		if n >= 500 {
			return errStopIteration
		}
		n++
		stats, err := c.Stats()
		if err != nil {
			return nil
		}
		for _, fs := range stats {
			out[fs.Name]++
		}
		return nil
	})
	return out
}

// fanInByFile builds the import graph and returns each file's in-degree
// (how many other files import it), returning an empty map when the
// graph cannot be built for this tree.
func fanInByFile(root string, engine *parserfrontend.Engine) map[string]int {
	out := map[string]int{}
	g, err := imports.Build(root, engine)
	if err != nil {
		return out
	}
	for _, targets := range g.Edges {
		for _, t := range targets {
			out[t]++
		}
	}
	return out
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
		Scheme:      "stats",
		Summary:     "Aggregate source-tree metrics, quality score, and churn/fan-in-augmented hotspot ranking",
		Categories:  []string{"summary", "files", "hotspots"},
		Examples:    []string{"stats://src", "stats://src?hotspots=true"},
		QueryFields: []string{"hotspots"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "max_complexity", Type: "number"},
		{Name: "score", Type: "number"},
		{Name: "churn", Type: "number"},
		{Name: "fan_in", Type: "number"},
	}}
}
