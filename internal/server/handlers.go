package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KaramelBytes/dataqa-cli/internal/decode"
	"github.com/KaramelBytes/dataqa-cli/internal/pipeline"
	"github.com/KaramelBytes/dataqa-cli/internal/quality"
	"github.com/go-chi/chi/v5/middleware"
)

// multipart framing allowance on top of the file limit
const formOverhead = 1 << 20

type analyzeResponse struct {
	Success        bool                    `json:"success"`
	Report         *quality.Report         `json:"report"`
	ColumnAnalysis []quality.ColumnProfile `json:"columnAnalysis"`
}

type rowsRequest struct {
	FileName string            `json:"fileName"`
	Columns  []string          `json:"columns"`
	Rows     []json.RawMessage `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) options() pipeline.Options {
	return pipeline.Options{Insights: s.cfg.Insights}
}

func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("file too large (max %d MB)", s.cfg.MaxUploadBytes>>20))
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "no file uploaded")
		default:
			writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		}
		return
	}
	defer file.Close()

	if err := decode.ValidateUpload(header.Filename, header.Size, s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opt := s.options()
	opt.Decode.MaxBytes = s.cfg.MaxUploadBytes
	rep, err := s.pipe.Reader(r.Context(), header.Filename, file, opt)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Report: rep, ColumnAnalysis: rep.Columns})
}

func (s *Server) handleAnalyzeRows(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var req rowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	ds, err := decode.RowsFromJSON(req.Columns, req.Rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := req.FileName
	if name == "" {
		name = "rows.json"
	}
	rep, err := s.pipe.Dataset(r.Context(), name, ds, s.options())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Report: rep, ColumnAnalysis: rep.Columns})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("analysis failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
	status := http.StatusInternalServerError
	if errors.Is(err, decode.ErrEmpty) || errors.Is(err, decode.ErrTooLarge) || errors.Is(err, decode.ErrUnsupported) {
		status = http.StatusBadRequest
	}
	writeError(w, status, "failed to process file: "+err.Error())
}
