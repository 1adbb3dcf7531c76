package api

import (
	"encoding/json"
	"net/http"

	apperrors "zyra/internal/errors"
)

// errorBody is the JSON envelope for every non-2xx response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusForCode(apperrors.GetCode(err))
	if status == http.StatusInternalServerError {
		s.logger.Error("[API] request failed: %v", err)
	}

	detail := errorDetail{Code: apperrors.CodeInternalError, Message: "internal error"}
	if appErr, ok := err.(*apperrors.AppError); ok {
		detail.Code = appErr.Code
		detail.Message = appErr.Message
		detail.Hint = appErr.Hint
	}
	respondJSON(w, status, errorBody{Error: detail})
}

// statusForCode maps the error taxonomy onto HTTP: caller mistakes are 400,
// well-formed requests the data cannot support are 422.
func statusForCode(code string) int {
	switch code {
	case apperrors.CodeInvalidInput,
		apperrors.CodeUnsupportedFormat,
		apperrors.CodeEmptyDataset,
		apperrors.CodeParseError,
		apperrors.CodeMissingColumn,
		apperrors.CodeInvalidColumnCount,
		apperrors.CodeUnsupportedTest,
		apperrors.CodeConfigInvalid:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeComputation, apperrors.CodeInsufficientData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON parses a request body, rejecting unknown structure problems as
// caller errors rather than 500s.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.InvalidInput("request body is not valid JSON: " + err.Error())
	}
	return nil
}
