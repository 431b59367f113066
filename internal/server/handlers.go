package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

type resolveRequest struct {
	Composition *composition.Composition `json:"composition"`
	State       *state.Snapshot          `json:"state"`
	LocalState  state.LocalState         `json:"localState"`
}

type validateRequest struct {
	Composition *composition.Composition `json:"composition"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Field      string   `json:"field,omitempty"`
	InstanceID string   `json:"instanceId,omitempty"`
	Path       []string `json:"path,omitempty"`
}

type elementResponse struct {
	ID           string                         `json:"id"`
	Name         string                         `json:"name"`
	Description  string                         `json:"description,omitempty"`
	Category     element.Category               `json:"category"`
	ConfigSchema map[string]element.ConfigField `json:"configSchema,omitempty"`
	Inputs       []string                       `json:"inputs"`
	Outputs      []string                       `json:"outputs"`
	Renderable   bool                           `json:"renderable"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListElements handles GET /v1/elements.
func (s *Server) ListElements(w http.ResponseWriter, r *http.Request) {
	var defs []element.Definition
	if category := element.Category(r.URL.Query().Get("category")); category != "" {
		if !category.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown category %q", category), Field: "category"})
			return
		}
		defs = s.registry.ListByCategory(category)
	} else {
		defs = s.registry.ListAll()
	}

	out := make([]elementResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, elementResponse{
			ID:           def.ID,
			Name:         def.DisplayName(),
			Description:  def.Description,
			Category:     def.Category,
			ConfigSchema: def.ConfigSchema,
			Inputs:       nonNil(def.Inputs),
			Outputs:      nonNil(def.Outputs),
			Renderable:   def.Renderable(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Resolve handles POST /v1/resolve.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	var body resolveRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Composition == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "composition is required", Field: "composition"})
		return
	}

	s.execute(w, body.Composition, body.State, body.LocalState)
}

// Validate handles POST /v1/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body validateRequest
	if !s.decode(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Check(body.Composition))
}

// ListTools handles GET /v1/tools.
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tools": ids})
}

// GetState handles GET /v1/tools/{toolID}/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Load(r.Context(), chi.URLParam(r, "toolID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PutState handles PUT /v1/tools/{toolID}/state.
func (s *Server) PutState(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "toolID")

	var snap state.Snapshot
	if !s.decode(w, r, &snap) {
		return
	}
	if err := s.store.Save(r.Context(), toolID, &snap); err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.store.Load(r.Context(), toolID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"toolId":       toolID,
		"version":      saved.Version,
		"lastModified": saved.LastModified,
	})
}

// DeleteState handles DELETE /v1/tools/{toolID}/state.
func (s *Server) DeleteState(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "toolID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResolveTool handles POST /v1/tools/{toolID}/resolve against the stored
// snapshot.
func (s *Server) ResolveTool(w http.ResponseWriter, r *http.Request) {
	var body resolveRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Composition == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "composition is required", Field: "composition"})
		return
	}

	snap, err := s.store.Load(r.Context(), chi.URLParam(r, "toolID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.execute(w, body.Composition, snap, body.LocalState)
}

func (s *Server) execute(w http.ResponseWriter, comp *composition.Composition, snap *state.Snapshot, local state.LocalState) {
	if snap == nil {
		snap = state.NewSnapshot()
	}
	result, err := s.engine.Execute(comp, snap, local)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		cycleErr      *hiveerrors.CycleError
		validationErr *hiveerrors.ValidationError
		dupErr        *hiveerrors.DuplicateTargetError
		execErr       *hiveerrors.ExecutionError
	)

	switch {
	case errors.Is(err, state.ErrSnapshotNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &cycleErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), InstanceID: cycleErr.InstanceID, Path: cycleErr.Path})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Field: validationErr.Field})
	case errors.As(err, &dupErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), InstanceID: dupErr.InstanceID, Field: dupErr.Port})
	case errors.As(err, &execErr):
		s.log.Error(err, "element hook failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), InstanceID: execErr.InstanceID})
	default:
		s.log.Error(err, "request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
