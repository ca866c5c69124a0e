package api

import (
	"net/http"
)

// handleParse processes the uploaded parser output synchronously.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
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

	res, cached, err := s.orchestrator.Parse(r.Context(), u.data, p)
	if err != nil {
		s.log.Warn("parse failed", "format", p.Format.String(), "error", err)
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"format":  res.Format,
		"layer":   res.Layer,
		"text":    res.Text,
		"cached":  cached,
		"records": res.Records,
		"trees":   res.Trees,
	})
}
