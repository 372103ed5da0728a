package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/abhisek/parla/internal/llm"
	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/tutor"
)

// APIError is the body of every error response.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps APIError.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// SessionResponse describes a session.
type SessionResponse struct {
	ID       string          `json:"id"`
	Settings tutor.Settings  `json:"settings"`
	Turn     int             `json:"turn"`
	History  []tutor.Message `json:"history,omitempty"`
}

// StatsResponse is the progress summary.
type StatsResponse struct {
	Turns       int                  `json:"turns"`
	Corrections int                  `json:"corrections"`
	Top         []progress.WordCount `json:"top_vocabulary"`
	Summary     string               `json:"summary"`
	Sessions    int                  `json:"sessions"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) ErrorResponse {
	return ErrorResponse{
		Error: APIError{
			Code:      code,
			Message:   message,
			RequestID: chimiddleware.GetReqID(r.Context()),
		},
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	settings := s.defaults
	if r.ContentLength != 0 {
		var req tutor.Settings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
		settings = mergeSettings(settings, req)
	}
	if err := settings.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	sess := tutor.NewSession(settings)
	s.sessions.Add(sess)
	s.logger.Info("session created", "session", sess.ID, "language", sess.Settings.TargetLanguage)

	writeJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID, Settings: sess.Settings})
}

// mergeSettings overlays the non-empty fields of req on base. Stream is
// always taken from req.
func mergeSettings(base, req tutor.Settings) tutor.Settings {
	if req.TargetLanguage != "" {
		base.TargetLanguage = req.TargetLanguage
	}
	if req.BaseLanguage != "" {
		base.BaseLanguage = req.BaseLanguage
	}
	if req.Mode != "" {
		if m, err := tutor.ParseMode(string(req.Mode)); err == nil {
			base.Mode = m
		} else {
			base.Mode = req.Mode
		}
	}
	if req.Scenario != "" {
		base.Scenario = req.Scenario
	}
	base.Stream = req.Stream
	return base
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		ID:       sess.ID,
		Settings: sess.Settings,
		Turn:     sess.Turn(),
		History:  sess.History(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Remove(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, SessionResponse{ID: sess.ID, Settings: sess.Settings})
}

// handleTurn runs one turn from a multipart upload. The recording goes in
// the "audio" field; a request without it gets the no-audio placeholder.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}

	if r.ContentLength > maxAudioBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Audio exceeds 25MB limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)

	var in tutor.TurnInput
	file, header, err := r.FormFile("audio")
	switch {
	case err == nil:
		defer file.Close()
		path, err := s.saveUpload(file, filepath.Ext(header.Filename))
		if err != nil {
			s.logger.Error("save upload failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store audio", r))
			return
		}
		defer os.Remove(path)
		in.AudioPath = path
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No audio: the tutor answers with a placeholder.
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid upload", r))
		return
	}

	res, err := s.tutor.Turn(r.Context(), sess, in, nil)
	if err != nil {
		s.writeTurnError(w, r, sess.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeTurnError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	s.logger.Warn("turn failed", "session", sessionID, "error", err)
	var rateLimit *llm.ErrRateLimit
	if errors.As(err, &rateLimit) {
		writeJSON(w, http.StatusTooManyRequests, errorResp("RATE_LIMITED", err.Error(), r))
		return
	}
	writeJSON(w, http.StatusBadGateway, errorResp("TURN_FAILED", err.Error(), r))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	prog := s.tutor.Progress()
	d := prog.Data()
	writeJSON(w, http.StatusOK, StatsResponse{
		Turns:       d.Turns,
		Corrections: d.Corrections,
		Top:         prog.TopVocabulary(tutor.StatsTopN),
		Summary:     s.tutor.Stats(),
		Sessions:    s.sessions.Len(),
	})
}

// saveUpload copies an uploaded recording to a uniquely named file.
func (s *Server) saveUpload(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if ext == "" {
		ext = ".wav"
	}
	path := filepath.Join(s.uploadDir, "upload-"+uuid.NewString()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}
