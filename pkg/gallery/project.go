package gallery

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project is one drawing on the wall.
type Project struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Why         string `json:"why,omitempty" yaml:"why,omitempty"`
	Link        string `json:"link,omitempty" yaml:"link,omitempty"`
	Anim        string `json:"anim,omitempty" yaml:"anim,omitempty"`
	Skills      Skills `json:"skills,omitempty" yaml:"skills,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

const untitled = "Untitled project"

// DisplayTitle returns the title shown in the project dialog.
func (p Project) DisplayTitle() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return untitled
}

// Alt returns the image alt text for the project at zero-based index i.
func (p Project) Alt(i int) string {
	if p.Title != "" {
		return "Project drawing — " + p.Title
	}
	return fmt.Sprintf("Project drawing %d", i+1)
}

// HasLink reports whether the project links anywhere. Empty links and "#"
// are placeholders.
func (p Project) HasLink() bool {
	l := strings.TrimSpace(p.Link)
	return l != "" && l != "#"
}

// LinkLabel is the text of the dialog's link button.
func (p Project) LinkLabel() string {
	if p.HasLink() {
		return "Open project"
	}
	return "Coming soon"
}

// Skills is a list of skill tags. It decodes from either an array of
// strings or a single comma-separated string.
type Skills []string

// String joins the skills the way they are stored on the page.
func (s Skills) String() string { return strings.Join(s, ", ") }

// splitSkills splits a comma-separated list, dropping empty parts.
func splitSkills(v string) Skills {
	var out Skills
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UnmarshalJSON accepts ["a","b"] or "a, b".
func (s *Skills) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("skills: want string or array of strings")
	}
	*s = splitSkills(str)
	return nil
}

// UnmarshalYAML accepts a sequence or a comma-separated scalar.
func (s *Skills) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
	case yaml.ScalarNode:
		*s = splitSkills(node.Value)
	default:
		return fmt.Errorf("skills: want string or list at line %d", node.Line)
	}
	return nil
}
