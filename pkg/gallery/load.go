package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/scatterbox/pkg/cache"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/httputil"
	"github.com/matzehuels/scatterbox/pkg/observability"
)

// Format is the encoding of a gallery document.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Gallery is a loaded project list.
type Gallery struct {
	Source   string    // file path or URL
	BaseDir  string    // directory or URL prefix image paths are relative to
	Projects []Project // in document order
	Hash     string    // SHA-256 of the raw document
}

// Len returns the number of projects.
func (g *Gallery) Len() int { return len(g.Projects) }

// LoadOptions configures [Load]. A nil *LoadOptions uses defaults.
type LoadOptions struct {
	Format Format
	Client *httputil.Client // used for http(s) sources
}

// FromProjects wraps an in-memory project list, as posted to the HTTP API.
// Relative image paths resolve against baseURL.
func FromProjects(src, baseURL string, projects []Project) *Gallery {
	hash := cache.HashJSON(struct {
		Base     string    `json:"base"`
		Projects []Project `json:"projects"`
	}{baseURL, projects})
	return &Gallery{
		Source:   src,
		BaseDir:  baseURL,
		Projects: projects,
		Hash:     hash,
	}
}

// IsURL reports whether src is fetched over HTTP.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads a gallery from a file path or an http(s) URL.
func Load(ctx context.Context, src string, opts *LoadOptions) (*Gallery, error) {
	var o LoadOptions
	if opts != nil {
		o = *opts
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src)
	start := time.Now()

	g, err := load(ctx, src, o)
	n := 0
	if g != nil {
		n = g.Len()
	}
	hooks.OnLoadComplete(ctx, src, n, time.Since(start), err)
	return g, err
}

func load(ctx context.Context, src string, o LoadOptions) (*Gallery, error) {
	var (
		data []byte
		base string
		err  error
	)
	if IsURL(src) {
		if err := errors.ValidateURL(src); err != nil {
			return nil, err
		}
		client := o.Client
		if client == nil {
			client = httputil.NewClient(30*time.Second, nil)
		}
		if data, err = client.Get(ctx, src); err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch gallery %s", src)
		}
		base = src[:strings.LastIndex(src, "/")+1]
	} else {
		if data, err = os.ReadFile(src); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeNotFound, err, "gallery %s not found", src)
			}
			return nil, fmt.Errorf("read gallery: %w", err)
		}
		base = filepath.Dir(src)
	}

	format := o.Format
	if format == FormatAuto {
		format = DetectFormat(src, data)
	}
	projects, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGallery, err, "parse gallery %s", src)
	}
	return &Gallery{
		Source:   src,
		BaseDir:  base,
		Projects: projects,
		Hash:     cache.Hash(data),
	}, nil
}

// DetectFormat picks a format from the source extension, falling back to
// sniffing the first non-space byte.
func DetectFormat(src string, data []byte) Format {
	ext := strings.ToLower(path.Ext(src))
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	switch ext {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a project list. A JSON or YAML document may be a bare array
// or an object with a "projects" array.
func Parse(data []byte, format Format) ([]Project, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown gallery format %q", format)
	}
}

type wrapped struct {
	Projects []Project `json:"projects" yaml:"projects"`
}

func parseJSON(data []byte) ([]Project, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var w wrapped
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return nil, err
		}
		return w.Projects, nil
	}
	var ps []Project
	if err := json.Unmarshal(trimmed, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func parseYAML(data []byte) ([]Project, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind == yaml.MappingNode {
		var w wrapped
		if err := doc.Decode(&w); err != nil {
			return nil, err
		}
		return w.Projects, nil
	}
	var ps []Project
	if err := doc.Decode(&ps); err != nil {
		return nil, err
	}
	return ps, nil
}
