package server

import (
	"context"
	"image"
	"net/http"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/buildinfo"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/gallery"
	"github.com/matzehuels/scatterbox/pkg/handoff"
	"github.com/matzehuels/scatterbox/pkg/pipeline"
	"github.com/matzehuels/scatterbox/pkg/render"
	"github.com/matzehuels/scatterbox/pkg/render/sink"
)

// inlineSource is the board source recorded for posted project lists.
const inlineSource = "inline"

// noImages keeps the PNG renderer from reading server files.
type noImages struct{}

var _ sink.ImageSource = noImages{}

func (noImages) Image(board.Tile) (image.Image, bool) { return nil, false }

// layoutRequest is the body of POST /v1/layouts and POST /v1/render/{format}.
// Either Projects or the embedded Gallery source must be set.
type layoutRequest struct {
	pipeline.Options
	Projects []gallery.Project `json:"projects,omitempty"`
	BaseURL  string            `json:"base_url,omitempty"` // resolves relative images of inline projects
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// defaults returns a private copy of the configured options.
func (s *Server) defaults() pipeline.Options {
	opts := s.cfg.Defaults
	opts.Formats = slices.Clone(opts.Formats)
	opts.Logger = s.logger
	return opts
}

func (s *Server) decodeLayoutRequest(r *http.Request) (layoutRequest, error) {
	req := layoutRequest{Options: s.defaults()}
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	req.Client = s.client
	req.Logger = s.logger
	return req, nil
}

// loadGallery resolves the request's gallery: inline projects, a URL, or a
// path inside the configured gallery directory.
func (s *Server) loadGallery(ctx context.Context, req layoutRequest) (*gallery.Gallery, error) {
	if len(req.Projects) > 0 {
		if err := errors.ValidateItemCount(len(req.Projects)); err != nil {
			return nil, err
		}
		if req.BaseURL != "" {
			if err := errors.ValidateURL(req.BaseURL); err != nil {
				return nil, err
			}
		}
		return gallery.FromProjects(inlineSource, req.BaseURL, req.Projects), nil
	}

	opts := req.Options
	switch {
	case opts.Gallery == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "projects or gallery is required")
	case gallery.IsURL(opts.Gallery):
	case s.cfg.GalleryDir == "":
		return nil, errors.New(errors.ErrCodeInvalidPath, "local gallery paths are disabled")
	default:
		if err := errors.ValidatePath(opts.Gallery); err != nil {
			return nil, err
		}
		opts.Gallery = filepath.Join(s.cfg.GalleryDir, filepath.FromSlash(opts.Gallery))
	}
	return s.runner.Load(ctx, opts)
}

func (s *Server) layout(ctx context.Context, req layoutRequest) (*board.Board, bool, error) {
	g, err := s.loadGallery(ctx, req)
	if err != nil {
		return nil, false, err
	}
	opts := req.Options
	if len(req.Projects) > 0 && req.BaseURL == "" && opts.ItemWidth <= 0 {
		// Nothing to measure against; size inline tiles alike.
		opts.ItemWidth = opts.MaxItemWidth
	}
	return s.runner.LayoutWithCacheInfo(ctx, g, opts)
}

func cacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeLayoutRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.ValidateForLayout(); err != nil {
		writeError(w, r, err)
		return
	}

	b, hit, err := s.layout(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.runner.SaveBoard(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}

	cacheHeader(w, hit)
	w.Header().Set("Location", "/v1/layouts/"+b.ID)
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	b, err := s.runner.LoadBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleRenderLayout(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.runner.LoadBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.defaults()
	if err := applyQuery(&opts, r); err != nil {
		writeError(w, r, err)
		return
	}
	opts.Formats = []string{string(format)}
	s.renderBoard(w, r, b, opts, format)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := s.decodeLayoutRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.Formats = []string{string(format)}
	if err := req.ValidateForLayout(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.ValidateForRender(); err != nil {
		writeError(w, r, err)
		return
	}

	b, _, err := s.layout(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.renderBoard(w, r, b, req.Options, format)
}

func (s *Server) renderBoard(w http.ResponseWriter, r *http.Request, b *board.Board, opts pipeline.Options, format render.Format) {
	if err := opts.ValidateForRender(); err != nil {
		writeError(w, r, err)
		return
	}
	opts.Images = nil
	if b.Source == inlineSource || s.cfg.GalleryDir == "" {
		opts.Images = noImages{}
	}
	if format == render.FormatPNG && s.cfg.MaxRenderPixels > 0 {
		if px := b.Width * b.Height * opts.Scale * opts.Scale; px > float64(s.cfg.MaxRenderPixels) {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
				"png of %.0fx%.0f at scale %g exceeds %d pixels", b.Width, b.Height, opts.Scale, s.cfg.MaxRenderPixels))
			return
		}
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), b, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cacheHeader(w, hit)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Layout-ID", b.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[string(format)])
}

// applyQuery reads render options from query parameters.
func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	if v := q.Get("image_base"); v != "" {
		opts.ImageBase = v
	}
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"labels", &opts.Labels},
		{"grid", &opts.ShowGrid},
		{"debug", &opts.ShowDebug},
	} {
		if v := q.Get(f.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "query %s", f.name)
			}
			*f.dst = b
		}
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 8 {
			return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8]")
		}
		opts.Scale = scale
	}
	return nil
}

var validClient = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func clientParam(r *http.Request) (string, error) {
	c := chi.URLParam(r, "client")
	if !validClient.MatchString(c) {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid client id")
	}
	return c, nil
}

func (s *Server) handlePutHandoff(w http.ResponseWriter, r *http.Request) {
	client, err := clientParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var v handoff.Value
	if err := decodeJSON(r, &v); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.handoffs.Put(r.Context(), client, v); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store handoff"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rectJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r rectJSON) rect() handoff.Rect { return handoff.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H} }

func toRectJSON(r handoff.Rect) rectJSON { return rectJSON{X: r.X, Y: r.Y, W: r.W, H: r.H} }

type exitRequest struct {
	Direction string   `json:"direction"` // "portfolio" or "home"
	Arrow     rectJSON `json:"arrow"`
	Viewport  struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"viewport"`
	CornerPad   string `json:"corner_pad,omitempty"`
	HomeCenterY string `json:"home_center_y,omitempty"`
}

type exitResponse struct {
	From    rectJSON      `json:"from"`
	To      rectJSON      `json:"to"`
	FromRot float64       `json:"from_rot"`
	ToRot   float64       `json:"to_rot"`
	Char    string        `json:"char"`
	Handoff handoff.Value `json:"handoff"`
}

func (s *Server) handleExitHandoff(w http.ResponseWriter, r *http.Request) {
	client, err := clientParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req exitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	dir, ok := handoff.ParseDirection(req.Direction)
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "direction must be portfolio or home"))
		return
	}

	flight, v := handoff.Exit(dir, req.Arrow.rect(),
		handoff.Viewport{W: req.Viewport.W, H: req.Viewport.H},
		handoff.Style{CornerPad: req.CornerPad, HomeCenterY: req.HomeCenterY})
	if err := s.handoffs.Put(r.Context(), client, v); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store handoff"))
		return
	}
	writeJSON(w, http.StatusOK, exitResponse{
		From:    toRectJSON(flight.From),
		To:      toRectJSON(flight.To),
		FromRot: flight.FromRot,
		ToRot:   flight.ToRot,
		Char:    flight.Char,
		Handoff: v,
	})
}

func (s *Server) handleTakeHandoff(w http.ResponseWriter, r *http.Request) {
	client, err := clientParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, ok, err := s.handoffs.Take(r.Context(), client)
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "read handoff"))
		return
	}
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "no handoff for %s", client))
		return
	}
	writeJSON(w, http.StatusOK, v)
}
