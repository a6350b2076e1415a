// Package worker runs reclassification patches in the background.
// A Dispatcher receives fire-and-forget intents from the board engine and
// applies them to the store on a bounded pool of goroutines, so the UI
// event loop never waits on the database.
package worker

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/sirupsen/logrus"
)

// Patcher applies a partial update to one item. *store.Store satisfies it.
type Patcher interface {
	Patch(ctx context.Context, kind store.ItemKind, id string, p store.Patch) error
}

// Result holds the outcome of a single dispatched patch.
type Result struct {
	Seq      uint64 // dispatch order, starting at 1
	Kind     store.ItemKind
	ItemID   string
	Column   board.ColumnID
	Patch    store.Patch
	Duration time.Duration
	Err      error
}

// Dispatcher turns reclassify intents into store patches. Each intent is
// numbered in arrival order; the patches themselves run concurrently and
// may finish in any order. Duplicates are not merged and nothing is ever
// rolled back.
type Dispatcher struct {
	patcher    Patcher
	kind       store.ItemKind
	toPatch    func(board.ColumnID) store.Patch
	maxWorkers int
	timeout    time.Duration
	onResult   func(Result)
	log        logrus.FieldLogger

	sem chan struct{}
	wg  sync.WaitGroup

	mu      sync.Mutex
	seq     uint64
	results []Result
}

// Config holds configuration for creating a dispatcher.
type Config struct {
	Patcher    Patcher
	Kind       store.ItemKind
	ToPatch    func(board.ColumnID) store.Patch
	MaxWorkers int
	Timeout    time.Duration
	// OnResult is called from the worker goroutine after each patch.
	// When set, results are handed over and not retained by Results.
	OnResult func(Result)
	Logger   logrus.FieldLogger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	return &Dispatcher{
		patcher:    cfg.Patcher,
		kind:       cfg.Kind,
		toPatch:    cfg.ToPatch,
		maxWorkers: cfg.MaxWorkers,
		timeout:    cfg.Timeout,
		onResult:   cfg.OnResult,
		log:        cfg.Logger,
		sem:        make(chan struct{}, cfg.MaxWorkers),
	}
}

// Reclassify implements board.Reclassifier. It returns immediately.
func (d *Dispatcher) Reclassify(itemID string, column board.ColumnID) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	p := d.toPatch(column)
	d.log.WithFields(logrus.Fields{"item": itemID, "column": column, "seq": seq}).Debug("dispatching reclassification")

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sem <- struct{}{}
		defer func() { <-d.sem }()
		d.run(seq, itemID, column, p)
	}()
}

func (d *Dispatcher) run(seq uint64, itemID string, column board.ColumnID, p store.Patch) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := d.patcher.Patch(ctx, d.kind, itemID, p)
	r := Result{
		Seq:      seq,
		Kind:     d.kind,
		ItemID:   itemID,
		Column:   column,
		Patch:    p,
		Duration: time.Since(start),
		Err:      err,
	}

	entry := d.log.WithFields(logrus.Fields{"item": itemID, "column": column, "seq": seq})
	if err != nil {
		entry.WithError(err).Error("reclassification failed")
	} else {
		entry.WithField("took", r.Duration).Debug("reclassification applied")
	}

	if d.onResult != nil {
		d.onResult(r)
		return
	}

	d.mu.Lock()
	d.results = append(d.results, r)
	d.mu.Unlock()
}

// Wait blocks until every dispatched patch has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Results returns the outcomes collected so far in completion order.
// It is empty when an OnResult callback consumes them.
func (d *Dispatcher) Results() []Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Result, len(d.results))
	copy(out, d.results)
	return out
}
