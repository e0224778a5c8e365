package sink

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/matzehuels/scatterbox/pkg/board"
)

// HTMLOption configures HTML rendering.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title     string
	imageBase string
	fragment  bool
}

// WithTitle sets the page title and header text.
func WithTitle(title string) HTMLOption { return func(r *htmlRenderer) { r.title = title } }

// WithHTMLImageBase resolves relative image paths against base.
func WithHTMLImageBase(base string) HTMLOption {
	return func(r *htmlRenderer) { r.imageBase = base }
}

// WithFragment emits only the wall container, for embedding in a page.
func WithFragment() HTMLOption { return func(r *htmlRenderer) { r.fragment = true } }

type htmlTile struct {
	board.Tile
	ID        string
	Src       string
	SkillList string
	Disabled  bool
}

type htmlPage struct {
	Title    string
	Height   float64
	Ready    bool
	Fragment bool
	Tiles    []htmlTile
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"px": func(v float64) template.CSS {
		return template.CSS(strconv.FormatFloat(v, 'f', 2, 64) + "px")
	},
}).Parse(`{{define "wall"}}<div class="doodles scatter{{if .Ready}} is-ready{{end}}" style="height: {{px .Height}}">
{{- range .Tiles}}
  <button class="doodle" type="button" id="{{.ID}}" style="left: {{px .X}}; top: {{px .Y}}; width: {{px .W}}"
    data-index="{{.Index}}" data-title="{{.Title}}" data-description="{{.Description}}" data-why="{{.Why}}"
    data-link="{{.Link}}" data-skills="{{.SkillList}}" data-anim="{{.Anim}}" data-link-label="{{.LinkLabel}}"
    {{- if .Disabled}} data-link-disabled="true"{{end}} aria-label="{{.Title}}">
    {{- if .Src}}<img src="{{.Src}}" alt="{{.Alt}}" width="{{printf "%.0f" .W}}">{{else}}<span class="doodle-title">{{.Title}}</span>{{end -}}
  </button>
{{- end}}
</div>{{end}}
{{- if .Fragment}}{{template "wall" .}}{{else}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; }
  .topbar { padding: 16px 24px; }
  .doodles.scatter { position: relative; margin: 0 auto; opacity: 0; }
  .doodles.scatter.is-ready { opacity: 1; transition: opacity .3s ease; }
  .doodle { position: absolute; padding: 0; border: 0; background: none; cursor: pointer; }
  .doodle img { display: block; width: 100%; height: auto; }
  .doodle-title { display: flex; align-items: center; justify-content: center; aspect-ratio: 1; border: 1.5px solid #333; border-radius: 6px; }
</style>
</head>
<body>
<header class="topbar"><h1>{{.Title}}</h1></header>
<main>
{{template "wall" .}}
</main>
</body>
</html>
{{end}}`))

// RenderHTML renders the board as a static page, or as the bare wall
// container with [WithFragment].
func RenderHTML(b *board.Board, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "Projects"}
	for _, opt := range opts {
		opt(&r)
	}

	page := htmlPage{
		Title:    r.title,
		Height:   b.Height,
		Ready:    b.Ready,
		Fragment: r.fragment,
		Tiles:    make([]htmlTile, len(b.Tiles)),
	}
	for i, t := range b.Tiles {
		page.Tiles[i] = htmlTile{
			Tile:      t,
			ID:        TileID(t.Index),
			Src:       ResolveImage(r.imageBase, t.Image),
			SkillList: strings.Join(t.Skills, ", "),
			Disabled:  t.Link == "" || strings.TrimSpace(t.Link) == "#",
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
