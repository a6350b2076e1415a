package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePatcher struct {
	mu      sync.Mutex
	patches []store.Patch
	delay   func(p store.Patch) time.Duration
	err     error
}

func (f *fakePatcher) Patch(ctx context.Context, kind store.ItemKind, id string, p store.Patch) error {
	if f.delay != nil {
		time.Sleep(f.delay(p))
	}
	f.mu.Lock()
	f.patches = append(f.patches, p)
	f.mu.Unlock()
	return f.err
}

func TestDispatcher_AppliesPatches(t *testing.T) {
	fp := &fakePatcher{}
	d := NewDispatcher(Config{Patcher: fp, Kind: store.KindTask, ToPatch: kanban.Tasks.Patch, MaxWorkers: 2})

	d.Reclassify("t1", "in_progress")
	d.Reclassify("t1", "in_review")
	d.Wait()

	results := d.Results()
	require.Len(t, results, 2)
	seqs := []uint64{results[0].Seq, results[1].Seq}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	assert.Equal(t, []uint64{1, 2}, seqs)
	assert.ElementsMatch(t, []store.Patch{
		{Field: "status", Value: "in_progress"},
		{Field: "status", Value: "in_review"},
	}, fp.patches)
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	fp := &fakePatcher{delay: func(store.Patch) time.Duration { return 200 * time.Millisecond }}
	d := NewDispatcher(Config{Patcher: fp, Kind: store.KindTask, ToPatch: kanban.Tasks.Patch, MaxWorkers: 1})

	start := time.Now()
	d.Reclassify("t1", "done")
	d.Reclassify("t1", "blocked")
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	d.Wait()
	assert.Len(t, d.Results(), 2)
}

func TestDispatcher_ResponsesMayRace(t *testing.T) {
	// The first patch is slower, so it completes last.
	fp := &fakePatcher{delay: func(p store.Patch) time.Duration {
		if p.Value == "in_progress" {
			return 100 * time.Millisecond
		}
		return 0
	}}
	d := NewDispatcher(Config{Patcher: fp, Kind: store.KindTask, ToPatch: kanban.Tasks.Patch, MaxWorkers: 4})

	d.Reclassify("t1", "in_progress")
	d.Reclassify("t1", "in_review")
	d.Wait()

	results := d.Results()
	require.Len(t, results, 2)
	assert.Equal(t, board.ColumnID("in_review"), results[0].Column)
	assert.Equal(t, uint64(2), results[0].Seq)
}

func TestDispatcher_ReportsFailures(t *testing.T) {
	fp := &fakePatcher{err: errors.New("boom")}
	var got []Result
	var mu sync.Mutex
	d := NewDispatcher(Config{
		Patcher: fp, Kind: store.KindCustomer, ToPatch: kanban.Customers.Patch,
		OnResult: func(r Result) {
			mu.Lock()
			got = append(got, r)
			mu.Unlock()
		},
	})

	d.Reclassify("c1", "client")
	d.Wait()

	require.Len(t, got, 1)
	assert.EqualError(t, got[0].Err, "boom")
	assert.Equal(t, store.Patch{Field: "customer_type", Value: "client"}, got[0].Patch)
}

func TestDispatcher_CallbackResultsAreNotRetained(t *testing.T) {
	fp := &fakePatcher{}
	delivered := 0
	var mu sync.Mutex
	d := NewDispatcher(Config{
		Patcher: fp, Kind: store.KindTask, ToPatch: kanban.Tasks.Patch, MaxWorkers: 2,
		OnResult: func(Result) {
			mu.Lock()
			delivered++
			mu.Unlock()
		},
	})

	for i := 0; i < 50; i++ {
		d.Reclassify("t1", "done")
	}
	d.Wait()

	assert.Equal(t, 50, delivered)
	assert.Empty(t, d.Results())
}

func TestDispatcher_WithStore(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	task, err := s.CreateTask(store.TaskInput{Title: "Ship"})
	require.NoError(t, err)

	b := kanban.NewTaskBoard(kanban.Tasks, nil)
	d := NewDispatcher(Config{Patcher: s, Kind: store.KindTask, ToPatch: kanban.Tasks.Patch, MaxWorkers: 1})
	ctrl := board.NewController(b, d)

	list, _ := s.ListTasks("")
	b.SetItems(list)
	ctrl.DragStart(task.ID)
	ctrl.DragOver(task.ID, "done")
	ctrl.DragEnd(task.ID, "done")
	d.Wait()

	list, _ = s.ListTasks("")
	b.SetItems(list)
	require.Len(t, b.Items("done"), 1)
	assert.Equal(t, task.ID, b.Items("done")[0].ID)
	assert.Empty(t, b.Items("todo"))
}
