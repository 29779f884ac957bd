package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"process-report/internal/logger"
	"process-report/internal/model"

	"github.com/google/uuid"
)

// DateLayout formats HistoryEntry.Date.
const DateLayout = "Jan 2, 2006"

// Orchestrator runs the generate/select/clear flows and owns the state the UI
// observes. At most one generation runs at a time.
type Orchestrator struct {
	gen     Generator
	history *HistoryStore
	now     func() time.Time
	newID   func() (string, error)

	inFlight atomic.Bool

	mu    sync.RWMutex
	state model.State

	subMu   sync.Mutex
	subs    map[int]chan model.State
	nextSub int
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithIDSource(fn func() (string, error)) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

func NewOrchestrator(gen Generator, history *HistoryStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:     gen,
		history: history,
		now:     time.Now,
		newID:   newEntryID,
		subs:    make(map[int]chan model.State),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newEntryID returns a UUIDv7: it embeds the creation time and sorts by it.
func newEntryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Outcome is the result of a generation started with Start.
type Outcome struct {
	Entry model.HistoryEntry
	Err   error
}

// Submit generates a report for in, records it in history and makes it the
// current report. A call made while another is running returns
// ErrGenerationInFlight and changes nothing.
func (o *Orchestrator) Submit(ctx context.Context, in model.ProcessInput) (model.HistoryEntry, error) {
	if err := o.begin(); err != nil {
		return model.HistoryEntry{}, err
	}
	return o.run(ctx, in)
}

// Start is Submit in the background. The generation slot is taken before
// Start returns, so State reports IsGenerating immediately. The channel
// receives exactly one Outcome.
func (o *Orchestrator) Start(ctx context.Context, in model.ProcessInput) (<-chan Outcome, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	done := make(chan Outcome, 1)
	go func() {
		entry, err := o.run(ctx, in)
		done <- Outcome{Entry: entry, Err: err}
	}()
	return done, nil
}

func (o *Orchestrator) begin() error {
	if !o.inFlight.CompareAndSwap(false, true) {
		return ErrGenerationInFlight
	}
	o.update(func(s *model.State) {
		s.IsGenerating = true
		s.CurrentReport = nil
		s.CurrentReportID = ""
		s.Error = ""
	})
	return nil
}

func (o *Orchestrator) run(ctx context.Context, in model.ProcessInput) (model.HistoryEntry, error) {
	defer o.inFlight.Store(false)
	defer o.update(func(s *model.State) { s.IsGenerating = false })

	logger.Info("report.generate.start", "process", in.ProcessName)
	started := o.now()

	report, err := o.generate(ctx, in)
	if err != nil {
		logger.Error("report.generate.failed", "process", in.ProcessName, "err", err)
		o.update(func(s *model.State) { s.Error = FailureMessage })
		return model.HistoryEntry{}, err
	}
	report.ProcessName = in.ProcessName

	id, err := o.newID()
	if err != nil {
		err = fmt.Errorf("new history id: %w", err)
		logger.Error("report.generate.failed", "process", in.ProcessName, "err", err)
		o.update(func(s *model.State) { s.Error = FailureMessage })
		return model.HistoryEntry{}, err
	}
	now := o.now()
	entry := model.HistoryEntry{
		ID:     id,
		Title:  in.ProcessName,
		Date:   now.Format(DateLayout),
		Report: report,
	}

	o.update(func(s *model.State) { s.CurrentReport = &entry.Report })
	persistErr := o.history.Prepend(ctx, entry)
	o.update(func(s *model.State) { s.CurrentReportID = entry.ID })

	logger.Info("report.generate.done", "process", in.ProcessName, "id", entry.ID,
		"suggestions", len(report.OptimizationSuggestions), "elapsed", now.Sub(started).String())
	if persistErr != nil {
		logger.Warn("history.persist.failed", "id", entry.ID, "err", persistErr)
		return entry, persistErr
	}
	return entry, nil
}

func (o *Orchestrator) generate(ctx context.Context, in model.ProcessInput) (model.Report, error) {
	raw, err := o.gen.Generate(ctx, in)
	if err != nil {
		return model.Report{}, err
	}
	return ParseReport(raw)
}

// SelectHistory makes a stored report current. It leaves Error untouched.
func (o *Orchestrator) SelectHistory(id string) (model.HistoryEntry, error) {
	entry, ok := o.history.Find(id)
	if !ok {
		return model.HistoryEntry{}, fmt.Errorf("%w: %s", ErrHistoryNotFound, id)
	}
	o.update(func(s *model.State) {
		report := entry.Report
		s.CurrentReport = &report
		s.CurrentReportID = entry.ID
	})
	return entry, nil
}

// ClearHistory empties the persisted history and drops the current report.
func (o *Orchestrator) ClearHistory(ctx context.Context) error {
	err := o.history.Clear(ctx)
	o.update(func(s *model.State) {
		s.CurrentReport = nil
		s.CurrentReportID = ""
	})
	if err != nil {
		logger.Warn("history.clear.persist_failed", "err", err)
	}
	return err
}

func (o *Orchestrator) History() []model.HistoryEntry { return o.history.List() }

func (o *Orchestrator) Generating() bool { return o.inFlight.Load() }

func (o *Orchestrator) State() model.State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Subscribe returns a channel that always holds the latest state snapshot
// after each change. Slow readers skip intermediate snapshots.
func (o *Orchestrator) Subscribe() (<-chan model.State, func()) {
	ch := make(chan model.State, 1)
	o.subMu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.subMu.Unlock()

	return ch, func() {
		o.subMu.Lock()
		delete(o.subs, id)
		o.subMu.Unlock()
	}
}

func (o *Orchestrator) update(fn func(*model.State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(&o.state)
	o.publish(o.state)
}

func (o *Orchestrator) publish(s model.State) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	for _, ch := range o.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}
