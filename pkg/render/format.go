package render

import (
	"strings"

	"github.com/matzehuels/scatterbox/pkg/errors"
)

// Format is an output format name.
type Format string

const (
	FormatSVG     Format = "svg"
	FormatHTML    Format = "html"
	FormatPNG     Format = "png"
	FormatPDF     Format = "pdf"
	FormatJSON    Format = "json"
	FormatDiagram Format = "diagram"
)

var formats = []Format{FormatSVG, FormatHTML, FormatPNG, FormatPDF, FormatJSON, FormatDiagram}

// Formats returns every supported format.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// ParseFormat validates a format name, ignoring case and a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if f == "dot" {
		return FormatDiagram, nil
	}
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", s, JoinFormats(formats))
}

// JoinFormats lists formats for messages and flag help.
func JoinFormats(fs []Format) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == FormatDiagram {
		return "diagram.svg"
	}
	return string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG, FormatDiagram:
		return "image/svg+xml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Binary reports whether f produces non-text output.
func (f Format) Binary() bool {
	return f == FormatPNG || f == FormatPDF
}
