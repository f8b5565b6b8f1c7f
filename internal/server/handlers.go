package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
)

const pdfContentType = "application/pdf"

type textResponse struct {
	Text string `json:"text"`
}

type voicesResponse struct {
	Voices   []pdfnarrator.Voice `json:"voices"`
	Selected *pdfnarrator.Voice  `json:"selected"`
}

type voiceRequest struct {
	Name string `json:"name"`
}

type stateResponse struct {
	State pdfnarrator.State `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, "ok"); err != nil {
		s.logger.Warn("writing health response", zap.Error(err))
	}
}

// uploadDocument extracts the multipart field "file" and makes its text the
// session's current text.
func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer file.Close()

	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil || mediaType != pdfContentType {
		s.writeError(w, http.StatusUnsupportedMediaType, errors.New("file must be application/pdf"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	text, err := s.session.Upload(data)
	if err != nil {
		s.logger.Warn("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) getText(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, textResponse{Text: s.session.Text()})
}

func (s *Server) exportText(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.Export()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename()}))
	w.WriteHeader(http.StatusOK)
	if _, err := res.WriteTo(w); err != nil {
		s.logger.Warn("writing export", zap.Error(err))
	}
}

func (s *Server) listVoices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.voices())
}

func (s *Server) selectVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.SetVoice(req.Name); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.voices())
}

func (s *Server) narrationState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, stateResponse{State: s.session.NarrationState()})
}

func (s *Server) toggleNarration(w http.ResponseWriter, r *http.Request) {
	state, err := s.session.ToggleNarration(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{State: state})
}

func (s *Server) voices() voicesResponse {
	resp := voicesResponse{Voices: s.session.Voices()}
	if resp.Voices == nil {
		resp.Voices = []pdfnarrator.Voice{}
	}
	if v, ok := s.session.SelectedVoice(); ok {
		resp.Selected = &v
	}
	return resp
}

// statusFor maps library errors to HTTP status codes.
func statusFor(err error) int {
	var failure *pdfnarrator.ExtractionFailure
	switch {
	case errors.As(err, &failure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pdfnarrator.ErrExtractionInProgress), errors.Is(err, pdfnarrator.ErrEmptyText):
		return http.StatusConflict
	case errors.Is(err, pdfnarrator.ErrUnknownVoice):
		return http.StatusNotFound
	case errors.Is(err, pdfnarrator.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
