package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	perrors "github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/pipeline"
	"github.com/matzehuels/plasmap/pkg/store"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type createResponse struct {
	ID           string `json:"id"`
	Length       int    `json:"length"`
	FeatureCount int    `json:"feature_count"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if err := perrors.ValidatePlasmidName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seq, _, _, err := s.runner.Read(r.Context(), body, pipeline.Options{Source: "request"})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec := store.NewRecord(name, seq)
	id, err := s.store.Put(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored sequence", "id", id, "features", rec.FeatureCount)
	w.Header().Set("Location", "/sequences/"+id)
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Length: rec.Length, FeatureCount: rec.FeatureCount})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMap renders a stored sequence. The DOM id defaults to one derived
// from the sequence id so several maps can share a page.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	opts, err := parseMapQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seq, err := rec.Sequence()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Map.MapDOMID == "" {
		opts.Map.MapDOMID = "plasmap-" + id
	}
	if opts.Map.PlasmidName == "" {
		opts.Map.PlasmidName = rec.Name
	}
	res, err := s.runner.ExecuteSequence(r.Context(), seq, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, res, opts.Formats[0])
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := parseMapQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Source = "request"
	res, err := s.runner.Execute(r.Context(), body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, res, opts.Formats[0])
}

func writeArtifact(w http.ResponseWriter, res *pipeline.Result, format string) {
	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Plasmap-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(body) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "empty request body")
	}
	return body, nil
}
