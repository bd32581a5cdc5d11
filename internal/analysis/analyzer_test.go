package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunomdrs/processo-extractor/internal/extract"
	"github.com/brunomdrs/processo-extractor/internal/history"
	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/internal/pdfdoc"
	"github.com/brunomdrs/processo-extractor/internal/workspace"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// fakeContent treats the payload bytes as the document text itself and
// reports three pages of extraction progress.
type fakeContent struct {
	onExtract func()
}

func (f *fakeContent) ExtractText(_ context.Context, data []byte, progress pdfdoc.ProgressFunc) (string, error) {
	for page := 1; page <= 3; page++ {
		if progress != nil {
			progress(page, 3)
		}
	}
	if f.onExtract != nil {
		f.onExtract()
	}
	return string(data), nil
}

// fakeExtractor honours the collaborator contract: empty result for
// unmatched text, restriction to the filter list when supplied.
type fakeExtractor struct {
	procs     []models.LegalProcess
	err       error
	onExtract func()
	calls     int
	seenTexts []string
}

func (f *fakeExtractor) ExtractFromText(_ context.Context, text string, filter []string) ([]models.LegalProcess, error) {
	f.calls++
	f.seenTexts = append(f.seenTexts, text)
	if f.onExtract != nil {
		f.onExtract()
	}
	if f.err != nil {
		return nil, f.err
	}
	return extract.ApplyFilter(f.procs, filter), nil
}

func (f *fakeExtractor) ExtractFromPayload(_ context.Context, _ []byte, _ string, filter []string) ([]models.LegalProcess, error) {
	f.calls++
	if f.onExtract != nil {
		f.onExtract()
	}
	if f.err != nil {
		return nil, f.err
	}
	return extract.ApplyFilter(f.procs, filter), nil
}

type fixture struct {
	analyzer  *Analyzer
	extractor *fakeExtractor
	content   *fakeContent
	registry  *Registry
	progress  *Tracker
	ledger    *workspace.Ledger
	history   *history.Log
}

func newFixture(t *testing.T, procs []models.LegalProcess) *fixture {
	t.Helper()
	f := &fixture{
		extractor: &fakeExtractor{procs: procs},
		content:   &fakeContent{},
		registry:  NewRegistry(),
		progress:  NewTracker(),
		ledger:    workspace.NewLedger(),
	}
	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	f.history = history.NewLog(store, logger.NewNop())
	f.analyzer = NewAnalyzer(f.content, f.extractor, f.registry, f.progress, f.ledger, f.history, logger.NewNop())
	return f
}

var sampleProcs = []models.LegalProcess{
	{Foro: "Jaboticabal", Processo: "0001111-22.2023.8.26.0291"},
	{Foro: "Jaboticabal", Processo: "0003333-44.2023.8.26.0291"},
	{Foro: "Ribeirão Preto", Processo: "0002222-33.2023.8.26.0506"},
}

func TestRunDirectUpload(t *testing.T) {
	f := newFixture(t, sampleProcs)

	grouped, err := f.analyzer.Run(context.Background(), "task-1", Source{
		Name: "Peticao.pdf",
		Data: []byte("duas ações em Jaboticabal e uma em Ribeirão Preto"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Jaboticabal", "Ribeirão Preto"}, grouped.Foros())
	assert.Equal(t, []string{"0001111-22.2023.8.26.0291", "0003333-44.2023.8.26.0291"},
		grouped.Processos("Jaboticabal"))
	assert.Equal(t, []string{"0002222-33.2023.8.26.0506"}, grouped.Processos("Ribeirão Preto"))

	entries := f.history.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Peticao.pdf", entries[0].Name, "unfiltered run carries no suffix")
	assert.Equal(t, grouped, entries[0].Results)

	snap := f.progress.Snapshot()
	assert.False(t, snap.Active)
	assert.Empty(t, snap.Error)
}

func TestRunWithFilterRestrictsResults(t *testing.T) {
	f := newFixture(t, sampleProcs)

	grouped, err := f.analyzer.Run(context.Background(), "task-1", Source{
		Name:   "Peticao.pdf",
		Data:   []byte("texto"),
		Filter: []string{"0001111-22.2023.8.26.0291"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Jaboticabal"}, grouped.Foros())
	assert.Equal(t, []string{"0001111-22.2023.8.26.0291"}, grouped.Processos("Jaboticabal"))

	entries := f.history.Entries()
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name, " (filtered)"))
}

func TestRunEmptyContent(t *testing.T) {
	f := newFixture(t, sampleProcs)

	_, err := f.analyzer.Run(context.Background(), "task-1", Source{
		Name: "Blank.pdf",
		Data: []byte("   \n "),
	})
	require.ErrorIs(t, err, ErrEmptyContent)

	assert.Zero(t, f.extractor.calls, "collaborator must not be called for empty content")
	assert.Empty(t, f.history.Entries())
	assert.Contains(t, f.progress.Snapshot().Error, "no extractable text")
}

func TestRunCollaboratorFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.extractor.err = errors.New("model quota exceeded")
	f.ledger.Add(models.WorkspaceItem{ID: "item-1", Name: "Part 1 (Pages 1-10)", Status: models.StatusIdle, Selected: true})

	_, err := f.analyzer.Run(context.Background(), "item-1", Source{
		Name:   "Part 1 (Pages 1-10)",
		Data:   []byte("texto"),
		ItemID: "item-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model quota exceeded")

	item, ok := f.ledger.Get("item-1")
	require.True(t, ok)
	assert.Equal(t, models.StatusError, item.Status)
	assert.Nil(t, item.Results)
	assert.Contains(t, f.progress.Snapshot().Error, "model quota exceeded")
	assert.Empty(t, f.history.Entries())
}

func TestRunCancelledDuringExtraction(t *testing.T) {
	f := newFixture(t, sampleProcs)
	f.ledger.Add(models.WorkspaceItem{ID: "item-1", Name: "Part 1", Status: models.StatusIdle, Selected: true})

	// the flag drops while extraction is in flight; the checkpoint right
	// after the extraction suspension point must catch it
	f.content.onExtract = func() { f.registry.Cancel("item-1") }

	_, err := f.analyzer.Run(context.Background(), "item-1", Source{
		Name:   "Part 1",
		Data:   []byte("texto"),
		ItemID: "item-1",
	})
	require.ErrorIs(t, err, ErrCancelled)

	assert.Zero(t, f.extractor.calls, "collaborator must not run after a failed check")
	item, _ := f.ledger.Get("item-1")
	assert.Equal(t, models.StatusProcessing, item.Status, "status untouched by the abort")
	assert.Empty(t, f.history.Entries())
	assert.Empty(t, f.progress.Snapshot().Error, "cancellation is not an error")
}

func TestRunCancelledDuringCollaboratorCall(t *testing.T) {
	f := newFixture(t, sampleProcs)
	f.ledger.Add(models.WorkspaceItem{ID: "item-1", Name: "Part 1", Status: models.StatusIdle, Selected: true})

	// cancelled while waiting on the collaborator: the call returns normally
	// but its result must be discarded
	f.extractor.onExtract = func() { f.registry.Cancel("item-1") }

	_, err := f.analyzer.Run(context.Background(), "item-1", Source{
		Name:   "Part 1",
		Data:   []byte("texto"),
		ItemID: "item-1",
	})
	require.ErrorIs(t, err, ErrCancelled)

	item, _ := f.ledger.Get("item-1")
	assert.NotEqual(t, models.StatusCompleted, item.Status)
	assert.Nil(t, item.Results)
	assert.Empty(t, f.history.Entries())
}

func TestRunCancelledCollaboratorErrorWritesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.ledger.Add(models.WorkspaceItem{ID: "item-1", Name: "Part 1", Status: models.StatusIdle, Selected: true})

	// the collaborator call fails after the flag already dropped; the abort
	// must win over the failure, with no status flip and no surfaced message
	f.extractor.err = errors.New("model quota exceeded")
	f.extractor.onExtract = func() { f.registry.Cancel("item-1") }

	_, err := f.analyzer.Run(context.Background(), "item-1", Source{
		Name:   "Part 1",
		Data:   []byte("texto"),
		ItemID: "item-1",
	})
	require.ErrorIs(t, err, ErrCancelled)

	item, _ := f.ledger.Get("item-1")
	assert.NotEqual(t, models.StatusError, item.Status)
	assert.Empty(t, f.progress.Snapshot().Error)
	assert.Empty(t, f.history.Entries())
}

func TestRunVisualMode(t *testing.T) {
	f := newFixture(t, sampleProcs[:1])

	grouped, err := f.analyzer.Run(context.Background(), "task-1", Source{
		Name:     "foto.jpg",
		Data:     []byte{0xFF, 0xD8},
		MIMEType: "application/pdf", // passthrough, no image decode
		Visual:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jaboticabal"}, grouped.Foros())
	assert.Equal(t, 1, f.extractor.calls)
}

func TestRunCompletedItemMarksResults(t *testing.T) {
	f := newFixture(t, sampleProcs)
	f.ledger.Add(models.WorkspaceItem{ID: "item-1", Name: "Part 1", Status: models.StatusIdle, Selected: true})

	_, err := f.analyzer.Run(context.Background(), "item-1", Source{
		Name:   "Part 1",
		Data:   []byte("texto"),
		ItemID: "item-1",
	})
	require.NoError(t, err)

	item, _ := f.ledger.Get("item-1")
	assert.Equal(t, models.StatusCompleted, item.Status)
	require.NotNil(t, item.Results)
	assert.False(t, item.Selected, "completed item leaves the selectable set")
}

func TestRunLogsCompletion(t *testing.T) {
	capture := logger.NewTestLogger()
	f := &fixture{
		extractor: &fakeExtractor{procs: sampleProcs},
		content:   &fakeContent{},
		registry:  NewRegistry(),
		progress:  NewTracker(),
		ledger:    workspace.NewLedger(),
	}
	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	f.history = history.NewLog(store, capture)
	f.analyzer = NewAnalyzer(f.content, f.extractor, f.registry, f.progress, f.ledger, f.history, capture)

	_, err := f.analyzer.Run(context.Background(), "task-1", Source{
		Name: "Peticao.pdf",
		Data: []byte("texto"),
	})
	require.NoError(t, err)

	var messages []string
	for _, e := range capture.Entries() {
		if e.Level == "INFO" {
			messages = append(messages, e.Message)
		}
	}
	assert.Contains(t, messages, "Analysis completed")
}

func TestStartingNewTaskClearsPreviousError(t *testing.T) {
	f := newFixture(t, sampleProcs)

	_, err := f.analyzer.Run(context.Background(), "t1", Source{Name: "a", Data: []byte(" ")})
	require.ErrorIs(t, err, ErrEmptyContent)
	require.NotEmpty(t, f.progress.Snapshot().Error)

	_, err = f.analyzer.Run(context.Background(), "t2", Source{Name: "b", Data: []byte("texto")})
	require.NoError(t, err)
	assert.Empty(t, f.progress.Snapshot().Error)
}
