package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var templatesFS embed.FS

// templates renders the board's pages from the embedded pongo2 set. Parsed
// templates are cached after first use.
type templates struct {
	mu  sync.RWMutex
	set *pongo2.TemplateSet
	tpl map[string]*pongo2.Template
}

func newTemplates() (*templates, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("web: template fs: %w", err)
	}
	return &templates{
		set: pongo2.NewSet("board", pongo2.NewFSLoader(sub)),
		tpl: make(map[string]*pongo2.Template),
	}, nil
}

func (t *templates) get(name string) (*pongo2.Template, error) {
	t.mu.RLock()
	if tmpl, ok := t.tpl[name]; ok {
		t.mu.RUnlock()
		return tmpl, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if tmpl, ok := t.tpl[name]; ok {
		return tmpl, nil
	}
	tmpl, err := t.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("web: load template %q: %w", name, err)
	}
	t.tpl[name] = tmpl
	return tmpl, nil
}

func (t *templates) render(w http.ResponseWriter, status int, name string, ctx pongo2.Context) error {
	tmpl, err := t.get(name)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("web: execute template %q: %w", name, err)
	}
	return nil
}
