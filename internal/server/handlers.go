package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/pipeline"
	"github.com/matzehuels/apiview/pkg/render"
	"github.com/matzehuels/apiview/pkg/render/nodelink"
)

// documentInfo summarizes a stored document.
type documentInfo struct {
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	Language      string    `json:"language,omitempty"`
	PackageName   string    `json:"package_name,omitempty"`
	VersionString string    `json:"version"`
	Tokens        int       `json:"tokens"`
	LeafSections  int       `json:"leaf_sections"`
	Navigation    int       `json:"navigation_items"`
	Folded        bool      `json:"folded"`
	Created       time.Time `json:"created"`
}

func infoOf(e *Entry) documentInfo {
	doc := e.File.Document()
	return documentInfo{
		ID:            e.ID.String(),
		Name:          doc.Name,
		Language:      doc.Language,
		PackageName:   doc.PackageName,
		VersionString: doc.VersionString,
		Tokens:        len(doc.Tokens),
		LeafSections:  len(doc.LeafSections),
		Navigation:    countNavigation(doc.Navigation),
		Folded:        doc.Folded(),
		Created:       e.Created,
	}
}

func countNavigation(items []codefile.NavigationItem) int {
	n := 0
	for _, it := range items {
		it.Walk(func(codefile.NavigationItem, int) bool {
			n++
			return true
		})
	}
	return n
}

// queryBool reads a boolean query parameter. Absent means false.
func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: invalid boolean %q", name, v)
	}
	return b, nil
}

func queryBools(r *http.Request, names ...string) ([]bool, error) {
	out := make([]bool, len(names))
	for i, n := range names {
		b, err := queryBool(r, n)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	flags, err := queryBools(r, "sections", "strict")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := pipeline.Decode(r.Context(), "upload", data, codefile.ReadOptions{HasSections: flags[0], Strict: flags[1]})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if doc.Name != "" {
		if err := errors.ValidateName(doc.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	f := cache.New(doc, cache.WithTable(s.table), cache.WithKeyer(s.keyer), cache.WithLogger(s.log))
	e := s.store.Put(f)
	s.metrics.DocumentsStored.Set(float64(s.store.Len()))
	s.log.Debug("document stored", "id", e.ID, "name", doc.Name, "tokens", len(doc.Tokens))

	w.Header().Set("Location", "/documents/"+e.ID.String())
	writeJSON(w, http.StatusCreated, infoOf(e))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries := s.store.List()
	docs := make([]documentInfo, len(entries))
	for i, e := range entries {
		docs[i] = infoOf(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infoOf(e))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.DocumentsStored.Set(float64(s.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	flags, err := queryBools(r, "docs", "skip_diff", "expand")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := pipeline.Options{
		Mode:              q.Get("mode"),
		ShowDocumentation: flags[0],
		SkipDiff:          flags[1],
		Expand:            flags[2],
		Format:            q.Get("format"),
	}
	if opts.Format == "" {
		opts.Format = pipeline.FormatJSON
	}
	if err := opts.ValidateRender(); err != nil {
		s.writeError(w, r, err)
		return
	}

	lines := pipeline.RenderLines(r.Context(), e.File, opts)
	data, err := pipeline.Encode(lines, opts.RenderMode(), opts.Format, e.File.Document().Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(opts.Format))
	w.Write(data)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	raw := chi.URLParam(r, "section")
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid section id %q", raw))
		return
	}

	flags, err := queryBools(r, "docs", "skip_diff")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := render.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := e.File.RenderMode(r.Context(), mode, flags[0], flags[1])
	lines, err := e.File.GetCodeLineSectionOf(r.Context(), res, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.Document{Name: e.File.Document().Name, Mode: mode.String(), Lines: lines})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	flags, err := queryBools(r, "all", "detailed")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := e.File.LastResult()
	if res == nil {
		res = e.File.RenderMode(r.Context(), render.ModeText, false, false)
	}
	dot := nodelink.ToDOT(res, nodelink.Options{AllLines: flags[0], Detailed: flags[1]})

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.Write([]byte(dot))
	case "svg":
		svg, err := nodelink.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "invalid tree format %q (must be dot or svg)", format))
	}
}
