package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgallion1/estsyntax/internal/parser"
)

// Worker processes parser output, consulting the result cache first.
type Worker struct {
	cache *ResultCache
	stats *Stats
	log   *slog.Logger
}

func NewWorker(cache *ResultCache, stats *Stats, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Worker{cache: cache, stats: stats, log: log}
}

// Run processes data with p. It reports whether the result came from the
// cache. onPhase, if not nil, is called as each stage starts.
func (w *Worker) Run(ctx context.Context, data []byte, p Params, onPhase func(JobStatus)) (*Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	key := CacheKey(ContentHashHex(data), p)
	if res, ok := w.cache.Get(key); ok {
		return res, true, nil
	}

	start := time.Now()
	lines, err := parser.ReadLines(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("read input: %w", err)
	}
	res, err := run(lines, p, w.log, onPhase)
	if err != nil {
		if w.stats != nil {
			w.stats.RecordFailure(time.Since(start))
		}
		return nil, false, err
	}
	if w.stats != nil {
		w.stats.Record(time.Since(start), len(res.Records))
	}
	w.cache.Add(key, res)
	return res, false, nil
}

// Process runs a queued job to completion, recording its phases and result
// on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "format", job.Params.Format.String())

	phase := string(StatusQueued)
	res, cached, err := w.Run(ctx, job.Data(), job.Params, func(s JobStatus) {
		phase = string(s)
		job.SetStatus(s, phase)
	})
	if err != nil {
		log.Error("processing failed", "phase", phase, "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
		return
	}

	job.SetResult(res)
	if cached {
		log.Info("result served from cache", "words", len(res.Records))
		job.SetStatus(StatusCached, "done")
		return
	}
	log.Info("document processed", "sentences", res.Sentences(), "words", len(res.Records), "trees", len(res.Trees))
	job.SetStatus(StatusCompleted, "done")
}
