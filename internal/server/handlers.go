package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bdfinst/interactive-cd/internal/share"
	"github.com/bdfinst/interactive-cd/pkg/adoption"
	"github.com/bdfinst/interactive-cd/pkg/cache"
	apperrors "github.com/bdfinst/interactive-cd/pkg/errors"
	"github.com/bdfinst/interactive-cd/pkg/observability"
	"github.com/bdfinst/interactive-cd/pkg/practice"
	"github.com/bdfinst/interactive-cd/pkg/render/dot"
)

// envelope is the response wrapper for all API endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeData(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodePracticeNotFound, apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeInvalidPractice, apperrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	}
	if errors.Is(err, share.ErrNotFound) {
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, envelope{Success: false, Error: apperrors.UserMessage(err)})
}

// rootParam extracts and validates the ?root= query parameter,
// falling back to the configured default root.
func (s *Server) rootParam(r *http.Request) (string, error) {
	id := r.URL.Query().Get("root")
	if id == "" {
		id = s.rootID
	}
	if err := apperrors.ValidatePracticeID(id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, map[string]string{"status": "ok"})
}

func (s *Server) handlePractices(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.IDs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, ids)
}

// handleCards serves the card view: the root practice followed by its
// direct dependencies.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	rootID, err := s.rootParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := s.keyer.CardsKey(rootID)
	var cards []*practice.Node
	if s.cacheGet(r.Context(), key, "cards", &cards) {
		s.writeData(w, cards)
		return
	}

	cards, err = s.store.Cards(r.Context(), rootID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.cacheSet(r.Context(), key, "cards", cards)
	s.writeData(w, cards)
}

// handleTree serves the full nested dependency tree for a root practice.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	rootID, err := s.rootParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := s.keyer.TreeKey(rootID, cacheTreeOpts)
	var root *practice.Node
	if s.cacheGet(r.Context(), key, "tree", &root) {
		s.writeData(w, root)
		return
	}

	root, err = s.store.Tree(r.Context(), rootID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.cacheSet(r.Context(), key, "tree", root)
	s.writeData(w, root)
}

// handleGraphSVG renders the practice graph as SVG via Graphviz.
func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	rootID, err := s.rootParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	root, err := s.store.Tree(r.Context(), rootID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	flat, err := practice.Flatten(root)
	if err != nil {
		s.writeError(w, err)
		return
	}

	svg, err := dot.RenderSVG(dot.ToDOT(flat, dot.Options{}))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// shareRequest is the POST /api/share body.
type shareRequest struct {
	Path     []string          `json:"path"`
	Document adoption.Document `json:"document"`
}

func (s *Server) handleShareCreate(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode share request"))
		return
	}
	if req.Document.Version > adoption.DocumentVersion {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput,
			"unsupported adoption document version %d", req.Document.Version))
		return
	}

	id, err := s.shares.Create(r.Context(), req.Path, req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, map[string]string{"id": id})
}

func (s *Server) handleShareGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.shares.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, snap)
}

func (s *Server) handleShareDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.shares.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, map[string]string{"status": "deleted"})
}

// cacheTreeOpts pins the tree cache key shape; trees are always served
// enriched and unbounded.
var cacheTreeOpts = cache.TreeKeyOpts{Enriched: true}

// cacheGet loads a JSON-encoded value from the cache. A decode failure is
// treated as a miss.
func (s *Server) cacheGet(ctx context.Context, key, keyType string, v any) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (s *Server) cacheSet(ctx context.Context, key, keyType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Debug("cache set failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
