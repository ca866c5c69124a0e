package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/estsyntax/internal/deptree"
	"github.com/dgallion1/estsyntax/internal/parser"
	"github.com/dgallion1/estsyntax/internal/pipeline"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

var errTooLarge = errors.New("request body too large")

// upload is the parser output carried by a request.
type upload struct {
	filename string
	data     []byte
}

// readUpload accepts either a multipart form with a "file" field or the raw
// parser output as the request body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	limit := s.cfg.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024*1024) // extra 1MB for form overhead

	var u upload
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return u, fmt.Errorf("%w: invalid multipart form: %v", syntax.ErrInvalidInput, err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return u, fmt.Errorf("%w: file is required: %v", syntax.ErrInvalidInput, err)
		}
		defer file.Close()
		u.filename = sanitizeFilename(header.Filename)
		src = file
	} else {
		u.filename = sanitizeFilename(r.URL.Query().Get("filename"))
	}

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return u, errTooLarge
		}
		return u, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return u, errTooLarge
	}
	u.data = data
	return u, nil
}

// params builds processing parameters from the query string: format (or the
// upload's file extension), layer, trees and any option name.
func (s *Server) params(r *http.Request, u upload) (pipeline.Params, error) {
	q := r.URL.Query()
	p := pipeline.Params{Options: s.defaults}

	var err error
	if name := q.Get("format"); name != "" {
		p.Format, err = syntax.ParseFormat(name)
	} else if u.filename != "" {
		p.Format, err = parser.FormatForFile(u.filename)
	} else {
		err = fmt.Errorf("%w: format is required", syntax.ErrUnknownFormat)
	}
	if err != nil {
		return p, err
	}

	for _, name := range syntax.OptionNames {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, fmt.Errorf("%w: option %s: %q is not a boolean", syntax.ErrInvalidInput, name, v)
		}
		if err := p.Options.Set(name, b); err != nil {
			return p, err
		}
	}

	if v := q.Get("trees"); v != "" {
		if p.Trees, err = strconv.ParseBool(v); err != nil {
			return p, fmt.Errorf("%w: trees: %q is not a boolean", syntax.ErrInvalidInput, v)
		}
	}

	p.Layer = q.Get("layer")
	if p.Layer == "" {
		p.Layer = s.cfg.Layer(p.Format)
	}
	return p, nil
}

// statusFor maps processing errors to HTTP status codes.
func statusFor(err error) int {
	var re *deptree.RootError
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pipeline.ErrQueueFull), errors.Is(err, pipeline.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, syntax.ErrUnknownFormat), errors.Is(err, syntax.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, syntax.ErrFormat), errors.Is(err, syntax.ErrMisalignment),
		errors.Is(err, syntax.ErrMissingAnalysis), errors.As(err, &re):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "." {
		name = "unnamed"
	}
	return name
}
