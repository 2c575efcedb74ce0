package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sozercan/rizziq/apimodels"
	"github.com/sozercan/rizziq/internal/analyzer"
	"github.com/sozercan/rizziq/internal/apperrors"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	defer r.Body.Close()

	var req apimodels.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, decodeError(err))
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		slog.Error("Analysis request failed", "error", err)
		writeError(w, err)
		return
	}

	slog.Debug("Analysis request completed successfully",
		"duration", result.Metadata.Duration,
		"model", result.Metadata.Model,
		"tokensUsed", result.Metadata.TokensUsed,
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.HealthResponse{Status: "ok"})
}

// decodeError classifies a body that could not be read as a request object.
func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.New(apperrors.KindValidation, "server.handleAnalyze", analyzer.MissingImageMessage).
			WithDetails("request body exceeds the size limit")
	}
	return apperrors.New(apperrors.KindValidation, "server.handleAnalyze", analyzer.MissingImageMessage).
		WithDetails("request body is not a JSON object")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	message, details := apperrors.Public(err)
	writeJSON(w, apperrors.HTTPStatus(err), apimodels.ErrorResponse{
		Error:   message,
		Details: details,
	})
}
