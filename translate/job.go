package translate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/potui/potui/pofile"
)

// ---------------------------------------------------------------------------
// Job state machine
// ---------------------------------------------------------------------------

// JobState tracks one translation run: Idle -> Running -> one of
// Completed, Cancelled, Failed.
type JobState int

const (
	JobIdle JobState = iota
	JobRunning
	JobCompleted
	JobCancelled
	JobFailed
)

func (s JobState) String() string {
	switch s {
	case JobIdle:
		return "idle"
	case JobRunning:
		return "running"
	case JobCompleted:
		return "completed"
	case JobCancelled:
		return "cancelled"
	case JobFailed:
		return "failed"
	}
	return "unknown"
}

// JobOptions are the per-run knobs plus observer callbacks. Callbacks
// run on the job goroutine; UI callers forward them to their event loop.
type JobOptions struct {
	// OverrideExisting retranslates entries that already have text.
	OverrideExisting bool
	// MarkFuzzy tags machine-translated entries "fuzzy" instead of
	// "unconfirmed".
	MarkFuzzy bool

	OnProgress func(done, total int)
	OnLog      func(msg string)
}

// Translator runs at most one background translation job at a time.
type Translator struct {
	mu     sync.Mutex
	state  JobState
	err    error
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTranslator() *Translator {
	return &Translator{state: JobIdle}
}

// State returns the current job state.
func (t *Translator) State() JobState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the terminal error of the last run, nil unless Failed.
func (t *Translator) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Start begins a background job over the catalog. A second Start while
// one is Running returns ErrJobRunning and leaves the running job
// untouched. The catalog is saved exactly once, on normal completion;
// cancellation and failure leave the file on disk as it was, though
// translations already applied in memory remain visible to the caller.
func (t *Translator) Start(catalog *pofile.File, path string, backend Backend, opts JobOptions) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == JobRunning {
		return ErrJobRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.state = JobRunning
	t.err = nil
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.run(ctx, catalog, path, backend, opts)
	return nil
}

// Cancel requests cooperative cancellation. The job stops before its
// next provider call; entries translated so far stay in memory unsaved.
func (t *Translator) Cancel() {
	t.mu.Lock()
	cancel := t.cancel
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current job reaches a terminal state and
// returns its error, if any.
func (t *Translator) Wait() error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
	return t.Err()
}

func (t *Translator) finish(state JobState, err error) {
	t.mu.Lock()
	t.state = state
	t.err = err
	t.cancel = nil
	done := t.done
	t.done = nil
	t.mu.Unlock()
	close(done)
}

// ---------------------------------------------------------------------------
// Job body
// ---------------------------------------------------------------------------

func (t *Translator) run(ctx context.Context, catalog *pofile.File, path string, backend Backend, opts JobOptions) {
	entries := translatable(catalog)

	// Plural entries cost two units; progress advances per entry
	// visited whether or not it needed translating, so the bar always
	// reaches the precomputed total.
	total := 0
	for _, e := range entries {
		total += segmentCount(e)
	}

	done := 0
	advance := func(e *pofile.Entry) {
		done += segmentCount(e)
		if opts.OnProgress != nil {
			opts.OnProgress(done, total)
		}
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			t.finish(JobCancelled, nil)
			return
		}

		changed, err := t.translateEntry(ctx, backend, e, opts)
		if err != nil {
			if ctx.Err() != nil {
				t.finish(JobCancelled, nil)
				return
			}
			t.finish(JobFailed, err)
			return
		}
		if changed {
			stamp := time.Now().Format("2006-01-02 15:04:05")
			e.AppendTranslatorComment(fmt.Sprintf("[Translated with %s on %s]", backend.Name(), stamp))
			if opts.MarkFuzzy {
				pofile.ApplyTag(e, pofile.TagFuzzy)
			} else {
				pofile.ApplyTag(e, pofile.TagUnconfirmed)
			}
			if opts.OnLog != nil {
				opts.OnLog(fmt.Sprintf("translated %q", e.MsgID))
			}
		}
		advance(e)
	}

	if err := catalog.Save(path); err != nil {
		t.finish(JobFailed, err)
		return
	}
	t.finish(JobCompleted, nil)
}

// translateEntry fills one entry in, reporting whether anything changed.
// Plural entries are rewritten as a whole: both source forms are
// translated and every plural slot is reassigned together, even when
// only one slot was empty.
func (t *Translator) translateEntry(ctx context.Context, backend Backend, e *pofile.Entry, opts JobOptions) (bool, error) {
	if e.IsPlural() {
		if !opts.OverrideExisting && pluralComplete(e) {
			return false, nil
		}
		singular, err := translateSegment(ctx, backend, e.MsgID)
		if err != nil {
			return false, err
		}
		plural, err := translateSegment(ctx, backend, e.MsgIDPlural)
		if err != nil {
			return false, err
		}
		indices := e.PluralIndices()
		if len(indices) == 0 {
			indices = []int{0, 1}
		}
		if e.MsgStrPlural == nil {
			e.MsgStrPlural = make(map[int]string)
		}
		for _, idx := range indices {
			if idx == 0 {
				e.MsgStrPlural[idx] = singular
			} else {
				e.MsgStrPlural[idx] = plural
			}
		}
		return true, nil
	}

	if !opts.OverrideExisting && e.MsgStr != "" {
		return false, nil
	}
	out, err := translateSegment(ctx, backend, e.MsgID)
	if err != nil {
		return false, err
	}
	e.MsgStr = out
	return true, nil
}

// translateSegment masks placeholders, calls the provider, and runs the
// result through post-processing.
func translateSegment(ctx context.Context, backend Backend, text string) (string, error) {
	out, err := backend.Translate(ctx, MaskPlaceholders(text))
	if err != nil {
		return "", err
	}
	return CorrectTranslation(text, out), nil
}

func translatable(catalog *pofile.File) []*pofile.Entry {
	var out []*pofile.Entry
	for _, e := range catalog.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		out = append(out, e)
	}
	return out
}

func segmentCount(e *pofile.Entry) int {
	if e.IsPlural() {
		return 2
	}
	return 1
}

func pluralComplete(e *pofile.Entry) bool {
	if len(e.MsgStrPlural) == 0 {
		return false
	}
	for _, v := range e.MsgStrPlural {
		if v == "" {
			return false
		}
	}
	return true
}
