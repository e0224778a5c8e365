package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " html , ,json", []string{"html", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoardPath(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"projects.json", "projects.board.json"},
		{"site/projects.yaml", "site/projects.board.json"},
		{"https://example.com/data/projects.json", "projects.board.json"},
		{"https://example.com/", "gallery.board.json"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := boardPath(tt.src); got != tt.want {
				t.Errorf("boardPath(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from board file", "", "wall.board.json", "wall"},
		{"format extension stripped", "out/wall.svg", "x.board.json", "out/wall"},
		{"board extension stripped", "out/wall.board.json", "x.board.json", "out/wall"},
		{"plain base kept", "out/wall", "x.board.json", "out/wall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		format string
		output string
		single bool
		want   string
	}{
		{"svg", "svg", "", false, "wall.svg"},
		{"json is the board", "json", "", false, "wall.board.json"},
		{"diagram", "diagram", "", false, "wall.diagram.svg"},
		{"single honours output", "png", "shot.png", true, "shot.png"},
		{"multiple ignore output", "png", "shot.png", false, "wall.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.format, tt.output, "wall", tt.single); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "nested", "wall")
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"html": []byte("<html></html>"),
	}

	paths, err := writeArtifacts(artifacts, []string{"svg", "html", "png"}, "", base)
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}
	want := []string{base + ".svg", base + ".html"}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg file = %q, %v", data, err)
	}
}
