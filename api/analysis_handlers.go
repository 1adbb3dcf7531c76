package api

import (
	"net/http"

	"zyra/app"
	"zyra/internal/stattest"
)

// datasetRequest is the body for endpoints that only need a dataset
// reference.
type datasetRequest struct {
	Dataset app.DatasetRef `json:"dataset"`
}

func (s *Server) handleEDA(w http.ResponseWriter, r *http.Request) {
	var req app.EDARequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.analysis.EDA(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	var req datasetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.analysis.Statistics(r.Context(), req.Dataset)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req datasetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	suggestions, err := s.analysis.Suggestions(r.Context(), req.Dataset)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (s *Server) handleRunTest(w http.ResponseWriter, r *http.Request) {
	var req app.TestRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.analysis.RunTest(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleABTest(w http.ResponseWriter, r *http.Request) {
	var req stattest.ABRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.analysis.ABTest(req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req app.DecomposeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.analysis.Decompose(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req app.TransformRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.processing.Transform(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	var req app.CleanRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.processing.Clean(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	var req app.OutlierRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.processing.Outliers(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDrift(w http.ResponseWriter, r *http.Request) {
	var req app.DriftRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.processing.Drift(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req app.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result, err := s.reports.Generate(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
