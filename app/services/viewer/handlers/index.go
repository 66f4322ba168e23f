package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"
)

//go:embed assets/index.html
var assets embed.FS

type index struct {
	tmpl      *template.Template
	eventsURL string
}

func newIndex(eventsURL string) (index, error) {
	tmpl, err := template.ParseFS(assets, "assets/index.html")
	if err != nil {
		return index{}, err
	}

	ig := index{
		tmpl:      tmpl,
		eventsURL: eventsURL,
	}

	return ig, nil
}

func (ig index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data := struct {
		EventsURL string
	}{
		EventsURL: ig.eventsURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return ig.tmpl.Execute(w, data)
}
