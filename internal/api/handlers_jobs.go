package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/estsyntax/internal/pipeline"
	"github.com/dgallion1/estsyntax/internal/render"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	p, err := s.params(r, u)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	job := pipeline.NewJob(u.filename, u.data, p)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/jobs/%s/status", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.job(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job, res := s.finishedJob(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":  job.ID,
		"format":  res.Format,
		"layer":   res.Layer,
		"text":    res.Text,
		"records": res.Records,
		"trees":   res.Trees,
	})
}

func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	job, res := s.finishedJob(w, r)
	if res == nil {
		return
	}
	page, err := render.ReportHTML(render.Input{
		Title:   job.Filename,
		Format:  res.Format,
		Doc:     res.Doc,
		Records: res.Records,
		Trees:   res.Trees,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleJobTrees(w http.ResponseWriter, r *http.Request) {
	_, res := s.finishedJob(w, r)
	if res == nil {
		return
	}
	if len(res.Trees) == 0 {
		jsonError(w, "job was submitted without trees=true", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := render.TreesHTML(&buf, res.Trees); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) job(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

// finishedJob writes an error response and returns a nil result unless the
// job finished successfully.
func (s *Server) finishedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, *pipeline.Result) {
	job := s.job(w, r)
	if job == nil {
		return nil, nil
	}
	snap := job.Snapshot()
	switch {
	case snap.Status == pipeline.StatusFailed:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "job failed",
			"phase":  snap.Phase,
			"errors": snap.Progress.Errors,
		})
		return job, nil
	case !snap.Status.Done():
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "job not finished",
			"status": snap.Status,
		})
		return job, nil
	}
	return job, job.Result()
}
