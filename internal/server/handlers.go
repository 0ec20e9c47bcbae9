package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/errors"
	tio "github.com/matzehuels/tactile/pkg/io"
	"github.com/matzehuels/tactile/pkg/observability"
	"github.com/matzehuels/tactile/pkg/pipeline"
	"github.com/matzehuels/tactile/pkg/storage"
)

// jobRequest is the body of POST /v1/jobs.
type jobRequest struct {
	// Pages holds one image per logical page, base64-encoded in JSON.
	Pages []pageInput `json:"pages"`

	// Detections uses the detections file format: {"regions": [...]}.
	Detections json.RawMessage `json:"detections,omitempty"`

	Preset  string           `json:"preset,omitempty"`
	Options pipeline.Options `json:"options"`
}

type pageInput struct {
	Image []byte  `json:"image"`
	DPI   float64 `json:"dpi,omitempty"`
}

// jobResponse is a job record plus, on creation, the rendered artifacts.
type jobResponse struct {
	*storage.Record
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make([]any, 0, len(s.presets.Presets))
	for _, name := range s.presets.Names() {
		out = append(out, s.presets.Presets[name])
	}
	writeJSON(w, http.StatusOK, map[string]any{"default": s.presets.Default, "presets": out})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	job, err := req.job()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	if req.Preset != "" {
		p, err := s.presets.Get(req.Preset)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", errors.UserMessage(err)))
			return
		}
		p.Apply(&opts)
	}

	job.ID = uuid.NewString()
	rec := storage.NewRecord(job.ID, storage.DefaultTTL)

	res, err := s.runner.Execute(r.Context(), job, opts)
	if err != nil {
		if isRequestError(err) {
			s.writeError(w, r, err)
			return
		}
		rec.Fail(string(errors.GetCode(err)), err.Error())
		if perr := s.store.Put(r.Context(), rec); perr != nil {
			s.logger.Error("store failed job", "id", rec.ID, "error", perr)
		}
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		writeJSON(w, statusFor(err), jobResponse{Record: rec})
		return
	}

	var buf bytes.Buffer
	if err := tio.WriteLayout(res.Layout, &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Complete(res.InputHash, res.Layout, buf.Bytes())
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store job"))
		return
	}

	s.logger.Info("job completed",
		"id", rec.ID,
		"pages", rec.Summary.Pages,
		"warnings", len(rec.Warnings),
		"cached", res.CacheInfo.LayoutHit)
	writeJSON(w, http.StatusCreated, jobResponse{Record: rec, Artifacts: res.Artifacts})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, jobResponse{Record: rec})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if rec.Status != storage.StatusDone || len(rec.Layout) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "job %s has no layout", rec.ID))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Layout)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*storage.Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "load job"))
		return nil, false
	}
	if rec == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "job %s not found", id))
		return nil, false
	}
	return rec, true
}

// job decodes the request pages and detections.
func (req *jobRequest) job() (layout.Job, error) {
	if len(req.Pages) == 0 {
		return layout.Job{}, errors.New(errors.ErrCodeInvalidInput, "at least one page is required")
	}

	var job layout.Job
	for i, p := range req.Pages {
		b, _, err := tio.ReadBitmap(bytes.NewReader(p.Image))
		if err != nil {
			return layout.Job{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "page %d", i)
		}
		job.Sources = append(job.Sources, layout.Source{Bitmap: b, DPI: p.DPI})
	}

	if len(req.Detections) > 0 {
		regions, err := tio.ReadDetections(bytes.NewReader(req.Detections))
		if err != nil {
			return layout.Job{}, err
		}
		job.Regions = regions
	}
	return job, nil
}

// isRequestError reports errors caused by the request itself, which are not
// recorded as failed jobs.
func isRequestError(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidInput:
		return true
	}
	return false
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDensityExceeded:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported, errors.ErrCodeOCRUnavailable:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
