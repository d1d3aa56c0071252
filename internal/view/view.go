// Package view renders the editor page templates with a small parse cache.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/batmedia/docpress/internal/words"
)

var (
	baseDir  string
	baseOnce sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	// Works whether the binary runs from the repo root or a subdir.
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the template helper map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"fmtnum": words.FormatNumber,
		"fmtint": words.FormatInt,
		"year":   func() int { return time.Now().Year() },
		"nl2br": func(s string) template.HTML {
			esc := template.HTMLEscapeString(s)
			return template.HTML(strings.ReplaceAll(esc, "\n", "<br/>"))
		},
	}
}

func load(name string) (*template.Template, error) {
	baseOnce.Do(detectBase)
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok && os.Getenv("DEV") != "1" {
		return t, nil
	}
	t, err := template.New(filepath.Base(name)).Funcs(Funcs()).ParseFiles(filepath.Join(baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes a template into a buffer first so a template error never
// produces a half-written page.
func Render(w http.ResponseWriter, name string, data any) error {
	t, err := load(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	return err
}
