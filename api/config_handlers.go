package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"zyra/domain/analytics"
	apperrors "zyra/internal/errors"
)

type presetRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Preset string    `json:"preset"`
}

type userRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput(name + " must be a UUID")
	}
	return id, nil
}

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		s.respondError(w, apperrors.InvalidInput("user_id query parameter must be a UUID"))
		return
	}
	configs, err := s.configs.List(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"configurations": configs})
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg analytics.Configuration
	if err := decodeJSON(r, &cfg); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.configs.Create(r.Context(), &cfg); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cfg)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"presets": s.configs.Presets()})
}

func (s *Server) handleCreateFromPreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	cfg, err := s.configs.CreateFromPreset(r.Context(), req.UserID, req.Preset)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cfg)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	cfg, err := s.configs.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	var cfg analytics.Configuration
	if err := decodeJSON(r, &cfg); err != nil {
		s.respondError(w, err)
		return
	}
	cfg.ID = id
	if err := s.configs.Update(r.Context(), &cfg); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.configs.Delete(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetDefaultConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.UserID == uuid.Nil {
		s.respondError(w, apperrors.InvalidInput("user_id is required"))
		return
	}
	if err := s.configs.SetDefault(r.Context(), req.UserID, id); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
