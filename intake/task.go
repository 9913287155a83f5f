package intake

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linesmerrill/lexmatch-api/models"
)

// ErrTaskNotFound is returned for unknown or pruned task ids
var ErrTaskNotFound = errors.New("analysis task not found")

type taskEntry struct {
	task models.AnalysisTask
	done chan struct{}
}

// Tasks runs analyses in the background and keeps their results until pruned
type Tasks struct {
	analyzer *Analyzer

	mu    sync.RWMutex
	tasks map[string]*taskEntry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewTasks creates a task registry backed by analyzer
func NewTasks(analyzer *Analyzer) *Tasks {
	ctx, cancel := context.WithCancel(context.Background())
	return &Tasks{
		analyzer: analyzer,
		tasks:    make(map[string]*taskEntry),
		ctx:      ctx,
		cancel:   cancel,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start validates raw and kicks off its analysis. The returned task is pending.
func (t *Tasks) Start(raw string) (models.AnalysisTask, error) {
	if err := ValidateIntake(raw); err != nil {
		return models.AnalysisTask{}, err
	}

	entry := &taskEntry{
		task: models.AnalysisTask{
			ID:             uuid.NewString(),
			State:          models.TaskPending,
			RawDescription: raw,
			CreatedAt:      t.now(),
		},
		done: make(chan struct{}),
	}

	t.mu.Lock()
	t.tasks[entry.task.ID] = entry
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run(entry)

	return entry.task, nil
}

func (t *Tasks) run(entry *taskEntry) {
	defer t.wg.Done()

	out := t.analyzer.Diagnose(t.ctx, entry.task.RawDescription)
	finished := t.now()

	t.mu.Lock()
	brief := out.Brief
	entry.task.Brief = &brief
	entry.task.CompletedAt = &finished
	if out.Degraded() {
		entry.task.State = models.TaskFailed
		entry.task.Failure = string(out.Failure)
	} else {
		entry.task.State = models.TaskResolved
	}
	t.mu.Unlock()

	close(entry.done)
}

// Get returns a snapshot of the task
func (t *Tasks) Get(id string) (models.AnalysisTask, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.tasks[id]
	if !ok {
		return models.AnalysisTask{}, ErrTaskNotFound
	}
	return snapshot(entry.task), nil
}

// Wait blocks until the task is terminal or ctx is done
func (t *Tasks) Wait(ctx context.Context, id string) (models.AnalysisTask, error) {
	t.mu.RLock()
	entry, ok := t.tasks[id]
	t.mu.RUnlock()
	if !ok {
		return models.AnalysisTask{}, ErrTaskNotFound
	}

	select {
	case <-entry.done:
		return t.Get(id)
	case <-ctx.Done():
		return models.AnalysisTask{}, ctx.Err()
	}
}

// Prune drops terminal tasks that completed before now minus olderThan.
// Pending tasks are never pruned.
func (t *Tasks) Prune(olderThan time.Duration) int {
	cutoff := t.now().Add(-olderThan)

	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id, entry := range t.tasks {
		if !entry.task.Terminal() || entry.task.CompletedAt == nil {
			continue
		}
		if entry.task.CompletedAt.Before(cutoff) {
			delete(t.tasks, id)
			removed++
		}
	}
	return removed
}

// Len is the number of tasks currently held
func (t *Tasks) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tasks)
}

// Close cancels in-flight analyses and waits for them to settle. Cancelled
// tasks end in the failed state with the fallback brief.
func (t *Tasks) Close() {
	t.cancel()
	t.wg.Wait()
}

func snapshot(task models.AnalysisTask) models.AnalysisTask {
	out := task
	if task.Brief != nil {
		brief := *task.Brief
		brief.KeyIssues = append([]string{}, task.Brief.KeyIssues...)
		out.Brief = &brief
	}
	if task.CompletedAt != nil {
		completed := *task.CompletedAt
		out.CompletedAt = &completed
	}
	return out
}
