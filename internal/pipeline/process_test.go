package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/estsyntax/internal/config"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

var conllInput = []string{
	"1\tAuhinnaks\tauhind\tS\tS\tcom|sg|tr\t2\t@ADVL\t_\t_",
	"2\toli\tole\tV\tV\tmain|indic|impf|ps3|sg\t0\tROOT\t_\t_",
	"3\tilus\tilus\tA\tA\tpos|sg|nom\t5\t@AN>\t_\t_",
	"4\tvalge\tvalge\tA\tA\tpos|sg|nom\t5\t@AN>\t_\t_",
	"5\ttekk\ttekk\tS\tS\tcom|sg|nom\t2\t@SUBJ\t_\t_",
	"6\t.\t.\tZ\tZ\tFst\t5\txxx\t_\t_",
	"",
}

var cg3Input = []string{
	`"<s>"`,
	`"<Tere>"`,
	"\t\"tere\" L0 I @B #1->0",
	`"<!>"`,
	"\t\"!\" Z Exc CLB #2->2",
	`"</s>"`,
}

func TestProcess_CONLL(t *testing.T) {
	res, err := Process(conllInput, Params{Format: syntax.FormatCONLL, Options: syntax.DefaultOptions(), Trees: true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "Auhinnaks  oli  ilus  valge  tekk  ." {
		t.Errorf("unexpected text %q", res.Text)
	}
	if res.Layer != "conll_syntax" || len(res.Records) != 6 {
		t.Fatalf("unexpected layer %q with %d records", res.Layer, len(res.Records))
	}
	layer, ok := res.Doc.Layer("conll_syntax")
	if !ok || len(layer.([]syntax.Record)) != 6 {
		t.Errorf("expected records attached to the document, got %v", layer)
	}
	if len(res.Trees) != 1 || res.Trees[0].String() != "(oli Auhinnaks (tekk ilus valge .))" {
		t.Errorf("unexpected trees %v", res.Trees)
	}
	if res.Trees[0].Parser != "conll" {
		t.Errorf("expected parser name conll, got %q", res.Trees[0].Parser)
	}
}

func TestProcess_CG3SelfReferenceRepaired(t *testing.T) {
	res, err := Process(cg3Input, Params{Format: syntax.FormatCG3, Options: syntax.DefaultOptions(), Layer: "cg3"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Layer != "cg3" || res.Text != "Tere  !" {
		t.Errorf("unexpected result %q / %q", res.Layer, res.Text)
	}
	if got := res.Records[1].ParserOut; len(got) != 1 || got[0].Head != 0 || got[0].Label != "xxx" {
		t.Errorf("unexpected edges %v", got)
	}
	if res.Trees != nil {
		t.Error("expected no trees unless requested")
	}
}

func TestProcess_PhasesInOrder(t *testing.T) {
	var phases []JobStatus
	_, err := run(conllInput, Params{Format: syntax.FormatCONLL, Options: syntax.DefaultOptions(), Trees: true}, nil, func(s JobStatus) {
		phases = append(phases, s)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []JobStatus{StatusReading, StatusAligning, StatusNormalizing, StatusBuilding}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d: expected %q, got %q", i, want[i], phases[i])
		}
	}
}

func TestProcess_Errors(t *testing.T) {
	if _, err := Process([]string{"1\tshort"}, Params{Format: syntax.FormatCONLL}, nil); !errors.Is(err, syntax.ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
	if _, err := Process(conllInput, Params{}, nil); !errors.Is(err, syntax.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	twoRoots := []string{
		"1\tA\t_\t_\t_\t_\t0\tROOT\t_\t_",
		"2\tB\t_\t_\t_\t_\t0\tROOT\t_\t_",
	}
	if _, err := Process(twoRoots, Params{Format: syntax.FormatCONLL, Trees: true}, nil); err == nil {
		t.Error("expected tree error for two roots")
	}
}

func TestReadFile_InfersFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cg3")
	if err := os.WriteFile(path, []byte(strings.Join(cg3Input, "\n")), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res, err := ReadFile(path, Params{Options: syntax.DefaultOptions()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Format != syntax.FormatCG3 || len(res.Records) != 2 {
		t.Errorf("unexpected result %v with %d records", res.Format, len(res.Records))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "out.txt"), Params{}, nil); !errors.Is(err, syntax.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestWorker_RunUsesCache(t *testing.T) {
	cache, err := NewResultCache(4)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	stats := NewStats(time.Hour)
	w := NewWorker(cache, stats, nil)
	data := []byte(strings.Join(conllInput, "\n"))
	p := Params{Format: syntax.FormatCONLL, Options: syntax.DefaultOptions()}

	first, cached, err := w.Run(context.Background(), data, p, nil)
	if err != nil || cached {
		t.Fatalf("expected fresh result, got cached=%v err=%v", cached, err)
	}
	second, cached, err := w.Run(context.Background(), data, p, nil)
	if err != nil || !cached || second != first {
		t.Errorf("expected cached result, got cached=%v err=%v", cached, err)
	}

	p.Options.MarkRoot = true
	if _, cached, _ := w.Run(context.Background(), data, p, nil); cached {
		t.Error("expected different options to miss the cache")
	}
	if snap := stats.Snapshot(); snap.Count != 2 || snap.Words != 12 {
		t.Errorf("unexpected stats %+v", snap)
	}
}

func TestWorker_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewWorker(nil, nil, nil)
	if _, _, err := w.Run(ctx, []byte("x"), Params{Format: syntax.FormatCONLL}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWorker_ProcessFailure(t *testing.T) {
	stats := NewStats(time.Hour)
	w := NewWorker(nil, stats, nil)
	job := NewJob("bad.conll", []byte("1\tshort\n"), Params{Format: syntax.FormatCONLL})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != string(StatusReading) {
		t.Errorf("expected failure while reading, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected one error, got %v", snap.Progress.Errors)
	}
	if job.Result() != nil {
		t.Error("expected no result for failed job")
	}
	if stats.Snapshot().Failures != 1 {
		t.Error("expected failure to be recorded")
	}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour, ResultCacheSize: 8}
	o := NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.Start(context.Background())
	defer o.Stop()

	data := []byte(strings.Join(conllInput, "\n"))
	p := Params{Format: syntax.FormatCONLL, Options: syntax.DefaultOptions(), Trees: true}
	first := NewJob("a.conll", data, p)
	if err := o.Submit(first); err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitDone(t, first)
	second := NewJob("b.conll", data, p)
	if err := o.Submit(second); err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitDone(t, second)

	if s := first.Snapshot(); s.Status != StatusCompleted || s.Progress.Words != 6 || s.Progress.Trees != 1 {
		t.Errorf("unexpected first job %+v", s)
	}
	if s := second.Snapshot(); s.Status != StatusCached {
		t.Errorf("expected second job served from cache, got %q", s.Status)
	}
	if o.GetJob(first.ID) != first || o.JobCount() != 2 || o.CachedResults() != 1 {
		t.Errorf("unexpected orchestrator state: jobs=%d cached=%d", o.JobCount(), o.CachedResults())
	}

	res, cached, err := o.Parse(context.Background(), data, p)
	if err != nil || !cached || len(res.Trees) != 1 {
		t.Errorf("expected cached synchronous parse, got cached=%v err=%v", cached, err)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	// not started: nothing drains the queue
	if err := o.Submit(NewJob("a.conll", nil, Params{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job := NewJob("b.conll", nil, Params{})
	if err := o.Submit(job); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if job.Snapshot().Status != StatusFailed {
		t.Error("expected rejected job to be marked failed")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 8, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.Start(context.Background())

	data := []byte(strings.Join(conllInput, "\n"))
	p := Params{Format: syntax.FormatCONLL, Options: syntax.DefaultOptions()}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				err := o.Submit(NewJob("a.conll", data, p))
				if err != nil && !errors.Is(err, ErrStopped) && !errors.Is(err, ErrQueueFull) {
					t.Errorf("unexpected submit error: %v", err)
					return
				}
			}
		}()
	}
	o.Stop()
	wg.Wait()
	o.Stop()

	job := NewJob("b.conll", data, p)
	if err := o.Submit(job); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if job.Snapshot().Status != StatusFailed {
		t.Error("expected rejected job to be marked failed")
	}
}

func waitDone(t *testing.T, job *Job) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job.Snapshot().Status.Done() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
}

func TestProcess_CG3DiagnosticsLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	lines := append([]string{`"<s>"`, `"</s>"`}, cg3Input...)
	if _, err := Process(lines, Params{Format: syntax.FormatCG3, Options: syntax.DefaultOptions()}, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(buf.String(), "empty sentence"); n != 1 {
		t.Errorf("expected one empty sentence warning, got %d in %q", n, buf.String())
	}
}

func TestProcess_CG3TrailingWhitespaceKeepsTokens(t *testing.T) {
	lines := []string{
		`"<s>"`,
		"\"<Hea>\" ",
		"\t\"hea\" L0 A pos sg nom @AN> #1->2",
		`"<küsimus>"`,
		"\t\"küsimus\" L0 S com sg nom @SUBJ #2->0",
		"\"</s>\" ",
	}
	res, err := Process(lines, Params{Format: syntax.FormatCG3, Options: syntax.DefaultOptions()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "Hea  küsimus" || len(res.Records) != 2 {
		t.Errorf("unexpected result text %q with %d records", res.Text, len(res.Records))
	}
}
