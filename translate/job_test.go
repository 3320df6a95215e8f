package translate

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/potui/potui/pofile"
)

// stubBackend returns canned translations and records calls.
type stubBackend struct {
	mu      sync.Mutex
	replies map[string]string
	calls   []string
	block   chan struct{} // when set, Translate waits here or for ctx
	err     error
}

func (s *stubBackend) Name() string { return "Stub" }

func (s *stubBackend) Translate(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	if r, ok := s.replies[text]; ok {
		return r, nil
	}
	return "tr:" + text, nil
}

func (s *stubBackend) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func jobCatalog() *pofile.File {
	f := pofile.NewFile()
	f.Entries = []*pofile.Entry{
		{MsgID: "Hello {name}"},
		{MsgID: "Salutation", MsgStr: "Salut"},
		{
			MsgID:        "%d file",
			MsgIDPlural:  "%d files",
			MsgStrPlural: map[int]string{0: "", 1: ""},
		},
	}
	return f
}

func runJob(t *testing.T, catalog *pofile.File, backend Backend, opts JobOptions) (*Translator, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.po")
	tr := NewTranslator()
	if err := tr.Start(catalog, path, backend, opts); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tr.Wait()
	return tr, path
}

func TestJobTranslatesEmptyEntries(t *testing.T) {
	catalog := jobCatalog()
	stub := &stubBackend{replies: map[string]string{"Hello NAME": "Bonjour NAME"}}

	opts := JobOptions{MarkFuzzy: true}
	tr, path := runJob(t, catalog, stub, opts)

	if tr.State() != JobCompleted {
		t.Fatalf("state = %v, want completed", tr.State())
	}

	e := catalog.Entries[0]
	if e.MsgStr != "Bonjour {name}" {
		t.Errorf("msgstr = %q, want placeholder re-injected", e.MsgStr)
	}
	if got := pofile.FishTag(e, pofile.TagUnknown); got != pofile.TagFuzzy {
		t.Errorf("tag = %q, want fuzzy", got)
	}
	if !strings.Contains(e.TranslatorComment(), "[Translated with Stub on ") {
		t.Errorf("missing provenance line: %q", e.TranslatorComment())
	}

	// already-translated entry untouched
	if catalog.Entries[1].MsgStr != "Salut" {
		t.Errorf("existing msgstr overwritten: %q", catalog.Entries[1].MsgStr)
	}
	if got := pofile.FishTag(catalog.Entries[1], pofile.TagUnknown); got != pofile.TagUnknown {
		t.Errorf("existing entry tagged: %q", got)
	}

	// saved exactly once on completion
	saved, err := pofile.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if saved.Entries[0].MsgStr != "Bonjour {name}" {
		t.Errorf("saved msgstr = %q", saved.Entries[0].MsgStr)
	}
}

func TestJobUnconfirmedTagWithoutMarkFuzzy(t *testing.T) {
	catalog := jobCatalog()
	tr, _ := runJob(t, catalog, &stubBackend{}, JobOptions{})

	if tr.State() != JobCompleted {
		t.Fatalf("state = %v", tr.State())
	}
	if got := pofile.FishTag(catalog.Entries[0], pofile.TagUnknown); got != pofile.TagUnconfirmed {
		t.Errorf("tag = %q, want unconfirmed", got)
	}
}

func TestJobPluralRewritesAllSlots(t *testing.T) {
	catalog := pofile.NewFile()
	catalog.Entries = []*pofile.Entry{{
		MsgID:       "%d file",
		MsgIDPlural: "%d files",
		// one slot already filled: the whole entry is still rewritten
		MsgStrPlural: map[int]string{0: "%d Datei", 1: ""},
	}}

	tr, _ := runJob(t, catalog, &stubBackend{}, JobOptions{})
	if tr.State() != JobCompleted {
		t.Fatalf("state = %v", tr.State())
	}

	e := catalog.Entries[0]
	if e.MsgStrPlural[0] != "tr:%d file" {
		t.Errorf("slot 0 = %q, want rewritten from msgid", e.MsgStrPlural[0])
	}
	if e.MsgStrPlural[1] != "tr:%d files" {
		t.Errorf("slot 1 = %q, want rewritten from msgid_plural", e.MsgStrPlural[1])
	}
}

func TestJobProgressAdvancesForSkippedEntries(t *testing.T) {
	catalog := jobCatalog()
	var progress []int
	var total int
	opts := JobOptions{OnProgress: func(done, tot int) {
		progress = append(progress, done)
		total = tot
	}}

	tr, _ := runJob(t, catalog, &stubBackend{}, opts)
	if tr.State() != JobCompleted {
		t.Fatalf("state = %v", tr.State())
	}

	// 1 (singular) + 1 (skipped singular) + 2 (plural) = 4
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(progress) != 3 || progress[len(progress)-1] != 4 {
		t.Errorf("progress = %v, want advance per entry reaching 4", progress)
	}
}

func TestJobOverrideExisting(t *testing.T) {
	catalog := jobCatalog()
	tr, _ := runJob(t, catalog, &stubBackend{}, JobOptions{OverrideExisting: true})
	if tr.State() != JobCompleted {
		t.Fatalf("state = %v", tr.State())
	}
	if catalog.Entries[1].MsgStr != "tr:Salutation" {
		t.Errorf("msgstr = %q, want overridden", catalog.Entries[1].MsgStr)
	}
}

func TestJobRejectsConcurrentStart(t *testing.T) {
	catalog := jobCatalog()
	block := make(chan struct{})
	stub := &stubBackend{block: block}
	path := filepath.Join(t.TempDir(), "out.po")

	tr := NewTranslator()
	if err := tr.Start(catalog, path, stub, JobOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Start(catalog, path, stub, JobOptions{}); !errors.Is(err, ErrJobRunning) {
		t.Errorf("second Start err = %v, want ErrJobRunning", err)
	}
	if tr.State() != JobRunning {
		t.Errorf("state = %v, running job must be unaffected", tr.State())
	}

	close(block)
	tr.Wait()
	if tr.State() != JobCompleted {
		t.Errorf("final state = %v", tr.State())
	}
}

func TestJobCancellation(t *testing.T) {
	catalog := jobCatalog()
	block := make(chan struct{})
	stub := &stubBackend{block: block}
	path := filepath.Join(t.TempDir(), "out.po")

	tr := NewTranslator()
	if err := tr.Start(catalog, path, stub, JobOptions{}); err != nil {
		t.Fatal(err)
	}
	tr.Cancel()
	if err := tr.Wait(); err != nil {
		t.Errorf("cancelled job err = %v, want nil", err)
	}
	if tr.State() != JobCancelled {
		t.Fatalf("state = %v, want cancelled", tr.State())
	}

	// not saved on cancellation
	if _, err := pofile.Load(path); err == nil {
		t.Error("catalog must not be saved on cancellation")
	}
}

func TestJobFailsOnProviderError(t *testing.T) {
	catalog := jobCatalog()
	stub := &stubBackend{err: &AuthError{Service: "Stub"}}
	path := filepath.Join(t.TempDir(), "out.po")

	tr := NewTranslator()
	if err := tr.Start(catalog, path, stub, JobOptions{}); err != nil {
		t.Fatal(err)
	}
	err := tr.Wait()
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("err = %v, want AuthError", err)
	}
	if tr.State() != JobFailed {
		t.Errorf("state = %v, want failed", tr.State())
	}
	if _, loadErr := pofile.Load(path); loadErr == nil {
		t.Error("catalog must not be saved on failure")
	}

	// a failed translator can start a new job
	if startErr := tr.Start(catalog, path, &stubBackend{}, JobOptions{}); startErr != nil {
		t.Errorf("restart after failure: %v", startErr)
	}
	tr.Wait()
}
