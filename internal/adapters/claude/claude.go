// Package claude implements the claude scheme adapter (§4.16): a view
// over a directory of historical conversation-log JSONL files, most-
// recent first, with a substring grep over transcript text.
package claude

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "claude" scheme. Resource
// is a directory containing one JSONL file per conversation session.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Scheme() string     { return "claude" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

type session struct {
	path         string
	modTime      int64
	messageCount int
	firstPrompt  string
}

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	entries, err := os.ReadDir(u.Resource)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot read conversation log directory", err)
	}

	s := contract.NewStructure("conversation_sessions", u.Raw, contract.SourceFile)

	grep, _ := u.Query.Get("grep")
	grep = strings.ToLower(grep)

	var sessions []session
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		path := filepath.Join(u.Resource, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		sess, matched, err := readSession(path, grep)
		if err != nil {
			s.AddWarning("UnreadableSession", e.Name()+": "+err.Error())
			continue
		}
		if grep != "" && !matched {
			continue
		}
		sess.modTime = info.ModTime().Unix()
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].modTime > sessions[j].modTime })

	for i, sess := range sessions {
		s.AddCategory("sessions", &contract.Element{
			Name:     filepath.Base(sess.path),
			Category: "sessions",
			Ordinal:  i + 1,
			Attributes: map[string]any{
				"id":            strings.TrimSuffix(filepath.Base(sess.path), ".jsonl"),
				"first_prompt":  sess.firstPrompt,
				"message_count": sess.messageCount,
				"modified_unix": sess.modTime,
			},
		})
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

// conversationLine is the minimal shape read out of each JSONL record;
// transcripts carry many more fields, all ignored here.
type conversationLine struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

func readSession(path, grep string) (session, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return session{}, false, err
	}
	defer f.Close()

	sess := session{path: path}
	matched := grep == ""
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		sess.messageCount++

		var rec conversationLine
		if err := json.Unmarshal([]byte(line), &rec); err == nil {
			if sess.firstPrompt == "" && rec.Role == "user" {
				sess.firstPrompt = excerpt(contentText(rec.Content), 120)
			}
		}
		if grep != "" && strings.Contains(strings.ToLower(line), grep) {
			matched = true
		}
	}
	return sess, matched, scanner.Err()
}

func contentText(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []any:
		var parts []string
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				if text, ok := m["text"].(string); ok {
					parts = append(parts, text)
				}
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
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
		Scheme:      "claude",
		Summary:     "Historical conversation logs, most recent first",
		Categories:  []string{"sessions"},
		Examples:    []string{"claude:///home/user/.claude/projects/foo", "claude:///home/user/.claude/projects/foo@1", "claude:///home/user/.claude/projects/foo?grep=TODO"},
		QueryFields: []string{"grep"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "id", Type: "string"},
		{Name: "first_prompt", Type: "string"},
		{Name: "message_count", Type: "number"},
	}}
}
