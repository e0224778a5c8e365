package gallery

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSkillsJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Skills
		wantErr bool
	}{
		{"array", `["Go", "SVG"]`, Skills{"Go", "SVG"}, false},
		{"string", `"Go, SVG"`, Skills{"Go", "SVG"}, false},
		{"string with blanks", `" Go ,, SVG , "`, Skills{"Go", "SVG"}, false},
		{"empty string", `""`, nil, false},
		{"number", `42`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Skills
			err := json.Unmarshal([]byte(tt.input), &s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(s, tt.want) {
				t.Errorf("Skills = %#v, want %#v", s, tt.want)
			}
		})
	}
}

func TestSkillsYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Skills
		wantErr bool
	}{
		{"sequence", "skills: [Go, SVG]", Skills{"Go", "SVG"}, false},
		{"scalar", "skills: Go, SVG", Skills{"Go", "SVG"}, false},
		{"mapping", "skills: {a: b}", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Project
			err := yaml.Unmarshal([]byte(tt.input), &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(p.Skills, tt.want) {
				t.Errorf("Skills = %#v, want %#v", p.Skills, tt.want)
			}
		})
	}
}

func TestProjectPresentation(t *testing.T) {
	tests := []struct {
		name      string
		p         Project
		idx       int
		wantTitle string
		wantAlt   string
		wantLink  string
	}{
		{"complete", Project{Title: "Kite", Link: "https://example.com"}, 0, "Kite", "Project drawing — Kite", "Open project"},
		{"untitled", Project{}, 2, "Untitled project", "Project drawing 3", "Coming soon"},
		{"placeholder link", Project{Title: "Teapot", Link: " # "}, 1, "Teapot", "Project drawing — Teapot", "Coming soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.DisplayTitle(); got != tt.wantTitle {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.wantTitle)
			}
			if got := tt.p.Alt(tt.idx); got != tt.wantAlt {
				t.Errorf("Alt() = %q, want %q", got, tt.wantAlt)
			}
			if got := tt.p.LinkLabel(); got != tt.wantLink {
				t.Errorf("LinkLabel() = %q, want %q", got, tt.wantLink)
			}
		})
	}
}

func TestSkillsString(t *testing.T) {
	if got := (Skills{"Go", "SVG"}).String(); got != "Go, SVG" {
		t.Errorf("String() = %q", got)
	}
}
